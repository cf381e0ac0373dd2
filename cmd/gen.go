package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/picogen/picogen/internal/config"
	"github.com/picogen/picogen/internal/site"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate the site into the output directory",
	Long: `The gen command discovers page definitions under the page source tree,
renders every page and writes the resulting HTML tree plus static assets to
the output directory. With --input only the named page unit is generated and
the output directory is left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGen(&appConfig)
	},
}

var clsCmd = &cobra.Command{
	Use:   "cls",
	Short: "Delete the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCls(&appConfig)
	},
}

func runGen(cfg *config.Config) error {
	// A filtered build regenerates one unit in place; only a full build
	// starts from a clean output tree.
	if cfg.Input == "" {
		if err := site.ClearOutput(cfg.OutputPath()); err != nil {
			return err
		}
	}
	if err := site.Generate(cfg, logger); err != nil {
		return err
	}
	fmt.Println("HTML files generated.")
	return nil
}

func runCls(cfg *config.Config) error {
	if err := site.ClearOutput(cfg.OutputPath()); err != nil {
		return err
	}
	fmt.Println("Output directory cleared.")
	return nil
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(clsCmd)
}
