package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picogen/picogen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config <json>",
	Short: "Run a mode from a JSON options blob",
	Long: `The config command merges a JSON blob of options over the defaults and
dispatches to the mode named by its "mode" field. The dev watcher uses it to
hand the full option set to relaunched server subprocesses.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigMode(args[0])
	},
}

func runConfigMode(blob string) error {
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigType("json")
	if err := v.ReadConfig(strings.NewReader(blob)); err != nil {
		return fmt.Errorf("parse config json: %w", err)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config json: %w", err)
	}

	switch cfg.Mode {
	case "gen":
		return runGen(&cfg)
	case "cls":
		return runCls(&cfg)
	case "dev":
		return runDev(&cfg)
	case "serv":
		return runServ(&cfg, false)
	case "servreload":
		return runServ(&cfg, true)
	default:
		return fmt.Errorf("invalid mode: %q", cfg.Mode)
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}
