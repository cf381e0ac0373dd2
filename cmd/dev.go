package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/picogen/picogen/internal/config"
	"github.com/picogen/picogen/internal/watch"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Serve the site and restart on source changes",
	Long: `The dev command starts the in-memory server as a managed subprocess,
opens the browser and polls the page, static and library trees once a second.
When a file changes the server is restarted with the reload flag pre-armed so
connected browsers refresh themselves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDev(&appConfig)
	},
}

func runDev(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return watch.Run(ctx, cfg, logger)
}

func init() {
	rootCmd.AddCommand(devCmd)
}
