package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns FILE",
	Short: "List the columns of a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := readDataset(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, h := range ds.Headers {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
		fmt.Fprintf(out, "\n%d column(s), %d row(s)\n", len(ds.Headers), len(ds.Rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
