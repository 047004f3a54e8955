// Package config loads and validates the service configuration from the
// environment. Missing required values are startup failures: the process
// must never begin serving with a partial configuration.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds every externally provided setting.
type Config struct {
	Port string

	// Gemini
	GeminiAPIKey string
	ModelName    string
	PromptPath   string

	// Google Sheets
	SheetID            string
	SheetRange         string
	ServiceAccountJSON []byte

	// LINE channel
	LineChannelToken  string
	LineChannelSecret string
}

// Load reads the environment (optionally seeded from a .env file) and
// validates it. Any missing required value is returned as an error so main
// can fail fast before serving.
func Load() (*Config, error) {
	// .env is a development convenience; in production the variables come
	// from the deployment environment directly.
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		GeminiAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		ModelName:         getEnv("GEMINI_MODEL", ""),
		PromptPath:        os.Getenv("PROMPT_FILE_PATH"),
		SheetID:           os.Getenv("GOOGLE_SHEET_ID"),
		SheetRange:        getEnv("SHEET_RANGE", ""),
		LineChannelToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		LineChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
	}

	required := map[string]string{
		"GOOGLE_API_KEY":            cfg.GeminiAPIKey,
		"GOOGLE_SHEET_ID":           cfg.SheetID,
		"LINE_CHANNEL_ACCESS_TOKEN": cfg.LineChannelToken,
		"LINE_CHANNEL_SECRET":       cfg.LineChannelSecret,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("config: %s is required", name)
		}
	}

	saRef := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	if saRef == "" {
		return nil, fmt.Errorf("config: GOOGLE_SERVICE_ACCOUNT_JSON is required")
	}
	creds, err := ResolveServiceAccount(saRef)
	if err != nil {
		return nil, fmt.Errorf("config: resolving service account: %w", err)
	}
	cfg.ServiceAccountJSON = creds

	return cfg, nil
}

// ResolveServiceAccount turns the GOOGLE_SERVICE_ACCOUNT_JSON value into
// the key JSON bytes. The value may be, in search order: a literal file
// path, a file next to the running executable, a path relative to the
// working directory, or the key JSON itself encoded as base64.
func ResolveServiceAccount(ref string) ([]byte, error) {
	if data, err := os.ReadFile(ref); err == nil {
		return data, nil
	}

	if exe, err := os.Executable(); err == nil {
		local := filepath.Join(filepath.Dir(exe), filepath.Base(ref))
		if data, err := os.ReadFile(local); err == nil {
			return data, nil
		}
	}

	if wd, err := os.Getwd(); err == nil {
		relative := filepath.Join(wd, ref)
		if data, err := os.ReadFile(relative); err == nil {
			return data, nil
		}
	}

	// Last resort: the value is the key itself, base64-encoded.
	padded := ref
	if pad := len(padded) % 4; pad != 0 {
		for i := 0; i < 4-pad; i++ {
			padded += "="
		}
	}
	data, err := base64.StdEncoding.DecodeString(padded)
	if err != nil {
		return nil, fmt.Errorf("not a readable file and not valid base64: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("base64 value does not decode to JSON")
	}
	return data, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
