package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/picogen/picogen/internal/config"
	"github.com/picogen/picogen/internal/server"
	"github.com/picogen/picogen/internal/site"
)

var servCmd = &cobra.Command{
	Use:   "serv",
	Short: "Serve the generated site from memory",
	Long: `The serv command generates the site in memory and serves it over HTTP
without writing anything to disk. Static assets are passed through from the
working directory. Browsers poll /change to learn when a rebuild happened;
GET /stop shuts the server down.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServ(&appConfig, false)
	},
}

var servReloadCmd = &cobra.Command{
	Use:    "servreload",
	Short:  "Serve the site with the reload flag pre-armed",
	Hidden: true, // spawned by the dev watcher after a change
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServ(&appConfig, true)
	},
}

func runServ(cfg *config.Config, reload bool) error {
	content, err := site.BuildContent(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, content, reload, logger)
	fmt.Fprintf(os.Stderr, "Starting server on http://localhost:%d/%s/\n", cfg.Port, cfg.Output)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return srv.ListenAndServe(ctx)
}

func init() {
	rootCmd.AddCommand(servCmd)
	rootCmd.AddCommand(servReloadCmd)
}
