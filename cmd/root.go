package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picogen/picogen/internal/config"
)

var (
	cfgFile   string
	appConfig config.Config
	logger    = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "picogen",
	Short: "picogen - tiny static site generator",
	Long: `picogen discovers page definitions under a source tree, renders each
one to HTML and either writes the result to an output directory or serves it
from memory with automatic browser reload during development.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Domain errors print with a leading "Error:" and exit
// with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config-file", "", "config file (default is ./picogen.yaml)")
	pf.StringP("page", "p", "pages", "page source directory")
	pf.StringP("static", "s", "static", "static asset directory")
	pf.StringP("lib", "l", "libs", "shared library directory")
	pf.StringP("output", "o", "dist", "output directory")
	pf.StringP("input", "i", "", "generate only the page unit at this path")
	pf.StringP("curdir", "C", "", "working directory override")
	pf.IntP("port", "P", 8000, "dev server port")
	pf.IntP("wait", "w", 5, "debounce seconds added after a detected change")
	pf.BoolP("nolog", "n", false, "suppress dev server request logging")
	pf.BoolP("noreload", "r", false, "disable reload on source changes")
	pf.BoolP("noopen", "N", false, "do not open the browser on dev start")
	pf.String("viewer-width", "600", "embedded viewer width")
	pf.String("viewer-height", "600", "embedded viewer height")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("picogen")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PICOGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("decode configuration: %w", err)
	}
	appConfig.Mode = cmd.Name()
	return nil
}
