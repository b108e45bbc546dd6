// Command ntuapi-scraper runs the scrape jobs on their cron schedules until
// it is signalled to stop.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	skipInitial := flag.Bool("skip-initial", false, "Do not run every job once at startup")
	flag.Parse()

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

	scrapeConfig := cfg.ScrapeConfig()
	if *skipInitial {
		scrapeConfig.RunOnStart = false
	}
	service := scrape.NewService(portal.NewClient(cfg.PortalOptions()), st, scrapeConfig)

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	// Start service in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- service.Run(ctx)
	}()

	// Wait for signal or error
	select {
	case sig := <-sigChan:
		slog.Info("shutting down gracefully", "signal", sig.String())
		cancel()
		service.Stop()

		// Wait for shutdown with timeout
		shutdownTimer := time.NewTimer(60 * time.Second)
		select {
		case <-errChan:
			slog.Info("scraper stopped")
		case <-shutdownTimer.C:
			slog.Warn("shutdown timeout exceeded, forcing exit")
		}
	case err := <-errChan:
		if err != nil {
			fatal("scraper failed", err)
		}
	}
}
