package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soaringjerry/Flourish/internal/api"
	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/config"
	"github.com/soaringjerry/Flourish/internal/logging"
	"github.com/soaringjerry/Flourish/internal/services"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "flourish: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	lb := logging.New().WithLevel(cfg.LogLevel)
	if cfg.LogPath != "" {
		lb = lb.FromPath(cfg.LogPath)
	}
	log, err := lb.Make()
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Close()
	logger := log.Logger

	cat, err := catalog.LoadDir(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var gen services.Generator
	if cfg.NarrativeEnabled() {
		client := &http.Client{Timeout: cfg.NarrativeTimeout}
		gen = services.NewOpenAIGenerator(client, cfg.OpenAIBase, cfg.OpenAIKey, cfg.OpenAIModel)
	}
	narrative := services.NewNarrativeService(gen, logger, cfg.NarrativeTimeout)
	reports := services.NewReportService(cat, narrative, logger, cfg.ResourceLimit)

	engine := api.NewEngine(api.NewHandler(reports, logger), api.BuildInfo{Commit: cfg.Commit, BuildTime: cfg.BuildTime})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServerHandler(engine, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("catalog_version", cat.Version).
			Bool("narrative", gen != nil).
			Msg("flourish server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
