// Command dupcheck finds rows in a CSV file that repeat the same values in a
// chosen set of columns.
package main

import (
	"fmt"
	"os"

	"github.com/ignite/csv-dupcheck/internal/config"
	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "dupcheck",
	Short:         "Find duplicate rows in CSV files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logger.SetLevel(logger.DEBUG)
		} else {
			logger.SetLevel(logger.WARN)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Config file holding presets")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log detection details to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadCatalog reads presets from the config file named by --config, falling
// back to the built-in presets when the file does not exist.
func loadCatalog(cmd *cobra.Command) (*selection.Catalog, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return selection.NewCatalog(cfg.Presets)
}
