// Command ntuapi-server serves the scraped database over the REST API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jared-makes-stuff/NTU-Public-APIs/api"
	"github.com/jared-makes-stuff/NTU-Public-APIs/config"
	"github.com/jared-makes-stuff/NTU-Public-APIs/portal"
	"github.com/jared-makes-stuff/NTU-Public-APIs/scrape"
	"github.com/jared-makes-stuff/NTU-Public-APIs/store"
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		fatal("failed to set up logging", err)
	}
	slog.SetDefault(logger)

	slog.Info("opening store", "dsn", cfg.Storage.DSN)
	st, err := store.NewStore(cfg.Storage.DSN)
	if err != nil {
		fatal("failed to open store", err)
	}
	defer st.Close()

	// The server never schedules jobs; the service only answers live
	// vacancy lookups.
	vacancies := scrape.NewService(portal.NewClient(cfg.PortalOptions()), st, cfg.ScrapeConfig())

	server := api.NewServer(st, vacancies)
	httpServer := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           server.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting API server", "addr", "http://"+cfg.API.Addr+"/api/v1")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("shutting down gracefully", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	case err := <-errChan:
		if err != nil {
			fatal("server failed", err)
		}
	}
}
