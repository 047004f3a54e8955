package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"slipsheet/internal/config"
	"slipsheet/internal/logger"
	"slipsheet/internal/pipeline"
	"slipsheet/internal/sheets"
)

// extract runs the slip pipeline against a local image file, without the
// HTTP server: print the record as JSON, optionally append the sheet row.
func main() {
	imagePath := flag.String("image", "", "Path to the slip image file")
	promptPath := flag.String("prompt", os.Getenv("PROMPT_FILE_PATH"), "Optional prompt file (defaults to the built-in prompt)")
	model := flag.String("model", os.Getenv("GEMINI_MODEL"), "Gemini model name")
	doAppend := flag.Bool("append", false, "Also append the extracted row to the configured sheet")
	flag.Parse()

	log := logger.New()

	if *imagePath == "" {
		log.Fatal().Msg("Error: --image is required")
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("GOOGLE_API_KEY is required")
	}

	imageBytes, err := os.ReadFile(*imagePath)
	if err != nil {
		log.Fatal().Err(err).Str("image", *imagePath).Msg("Failed to read image")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	prompt, err := pipeline.LoadPrompt(*promptPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load prompt")
	}

	parser, err := pipeline.NewGeminiSlipParser(ctx, apiKey, *model, prompt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini parser")
	}

	var appender pipeline.RowAppender
	if *doAppend {
		sheetID := os.Getenv("GOOGLE_SHEET_ID")
		saRef := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
		if sheetID == "" || saRef == "" {
			log.Fatal().Msg("GOOGLE_SHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON are required with -append")
		}
		creds, err := config.ResolveServiceAccount(saRef)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to resolve service account credentials")
		}
		writer, err := sheets.NewWriter(sheetID, os.Getenv("SHEET_RANGE"), creds)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheet writer")
		}
		appender = writer
	}

	pipe := pipeline.New(parser, appender, log)

	rec, appended, err := pipe.ProcessAndRecord(ctx, imageBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode record")
	}
	fmt.Println(string(out))

	if rec.IsEmpty() {
		fmt.Println("No data could be read from the slip.")
	} else if appended {
		fmt.Println("Row appended to the sheet.")
	}
}
