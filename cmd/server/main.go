// Command server starts the Career Compass HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairyhunter13/career-compass/internal/adapter/ai/real"
	httpserver "github.com/fairyhunter13/career-compass/internal/adapter/httpserver"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/adapter/textextractor/pdfx"
	"github.com/fairyhunter13/career-compass/internal/app"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	// Missing AI configuration degrades to local fallbacks, never fails startup.
	if !cfg.ChatConfigured() {
		slog.Warn("chat model not configured; AI endpoints will use local fallbacks")
	}
	if !cfg.EmbeddingsConfigured() {
		slog.Warn("embedding encoder not configured; semantic scoring falls back to overlap")
	}

	aicl := real.New(cfg)

	extractSvc := usecase.NewExtractService(aicl, cfg.MaxPromptChars)
	matchSvc := usecase.NewMatchService(aicl)
	gapSvc := usecase.NewGapService(aicl, cfg.MaxPromptChars)
	suggestSvc := usecase.NewSuggestService(aicl, cfg.MaxPromptChars)

	srv := httpserver.NewServer(cfg, extractSvc, matchSvc, gapSvc, suggestSvc, pdfx.New())
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
