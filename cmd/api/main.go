package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slipsheet/internal/api/handlers"
	"slipsheet/internal/api/middleware"
	"slipsheet/internal/config"
	"slipsheet/internal/line"
	"slipsheet/internal/logger"
	"slipsheet/internal/pipeline"
	"slipsheet/internal/sheets"
)

func main() {
	port := flag.String("port", "", "HTTP server port (overrides PORT env)")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}

	// Every shared client is built eagerly here, before the first request,
	// so handlers only ever see initialized read-only singletons.
	ctx := context.Background()

	prompt, err := pipeline.LoadPrompt(cfg.PromptPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load extraction prompt")
	}

	parser, err := pipeline.NewGeminiSlipParser(ctx, cfg.GeminiAPIKey, cfg.ModelName, prompt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini parser")
	}

	writer, err := sheets.NewWriter(cfg.SheetID, cfg.SheetRange, cfg.ServiceAccountJSON)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheet writer")
	}

	messenger, err := line.NewClient(cfg.LineChannelToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LINE client")
	}

	pipe := pipeline.New(parser, writer, log)

	slipsHandler := handlers.NewSlipsHandler(pipe, log)
	webhookHandler := handlers.NewWebhookHandler(pipe, messenger, cfg.LineChannelSecret, writer.URL(), log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			slipsHandler.ExtractSlip(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/line/webhook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			webhookHandler.HandleWebhook(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Slip reader API is running",
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting slip reader API")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
