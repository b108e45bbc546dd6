// Command ntuapi scrapes the class portal on demand and inspects the
// resulting database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jared-makes-stuff/NTU-Public-APIs/config"
	"github.com/jared-makes-stuff/NTU-Public-APIs/portal"
	"github.com/jared-makes-stuff/NTU-Public-APIs/scrape"
	"github.com/jared-makes-stuff/NTU-Public-APIs/store"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ntuapi",
	Short: "Scrape and query the NTU class portal",
	Long: `ntuapi scrapes course content, class schedules, exam timetables and
live vacancies from the NTU class portal into a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == initCmd.Name() {
			return nil
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
			loaded.Storage.DSN = dsn
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			loaded.Log.Level = "debug"
		}

		logger, err := loaded.Logger(os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite database (NTUAPI_DSN)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	st, err := store.NewStore(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// newService builds a scrape service over st using the configured portal.
func newService(st *store.Store) *scrape.Service {
	client := portal.NewClient(cfg.PortalOptions())
	return scrape.NewService(client, st, cfg.ScrapeConfig())
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
