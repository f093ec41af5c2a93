package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the column presets",
	Long: `List the column presets.

Presets come from the "presets" section of the config file. The built-in
presets are listed when the file does not exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		out := cmd.OutOrStdout()
		for _, p := range catalog.List() {
			fmt.Fprintf(out, "%s\n", cyan(p.Name))
			if p.File != "" {
				fmt.Fprintf(out, "  File: %s\n", p.File)
			}
			fmt.Fprintf(out, "  Columns: %s\n", strings.Join(p.Columns, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
