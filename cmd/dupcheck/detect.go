package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ignite/csv-dupcheck/internal/dataset"
	"github.com/ignite/csv-dupcheck/internal/dupcheck"
	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect FILE",
	Short: "Report rows that share values in the selected columns",
	Long: `Report rows that share values in the selected columns.

Values are compared after trimming surrounding whitespace and ignoring case.
Rows with an empty value in any selected column are never duplicates.

Examples:
  # Compare two columns
  dupcheck detect vendors.csv --columns CompanyCode,Number

  # Use a preset and write the duplicate rows next to the input
  dupcheck detect "S2P - Vendors.csv" --preset "Vendors example" --export

  # Write the duplicate rows to a chosen path
  dupcheck detect vendors.csv --columns Name --out dups.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringSlice("columns", nil, "Columns to compare (comma separated)")
	detectCmd.Flags().String("preset", "", "Select the columns of a named preset")
	detectCmd.Flags().String("out", "", "Write duplicate rows as CSV to this path")
	detectCmd.Flags().Bool("export", false, "Write duplicate rows next to the input file")
	detectCmd.Flags().String("suffix", dataset.DefaultSuffix, "Suffix for the exported file name")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	columns, _ := cmd.Flags().GetStringSlice("columns")
	presetName, _ := cmd.Flags().GetString("preset")
	outPath, _ := cmd.Flags().GetString("out")
	export, _ := cmd.Flags().GetBool("export")
	suffix, _ := cmd.Flags().GetString("suffix")

	if len(columns) > 0 && presetName != "" {
		return errors.New("use either --columns or --preset, not both")
	}

	ds, err := readDataset(args[0])
	if err != nil {
		return err
	}

	var selected []string
	if presetName != "" {
		catalog, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		preset, err := catalog.Lookup(presetName)
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(catalog.Names(), ", "))
		}
		if selected, err = selection.Apply(preset, ds.Headers); err != nil {
			return err
		}
	} else if selected, err = selection.Set(ds.Headers, columns); err != nil {
		return err
	}

	result := dupcheck.NewDetector(nil).Detect(ds.Rows, selected)
	stats := dupcheck.Summary(result, selected)
	printReport(cmd.OutOrStdout(), ds, result, stats, selected)

	if export && outPath == "" {
		outPath = filepath.Join(filepath.Dir(args[0]), dataset.ExportFileName(filepath.Base(args[0]), suffix))
	}
	if outPath == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := dataset.Export(&buf, ds.Headers, result); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %d duplicate row(s) to %s\n", stats.DuplicateRows, outPath)
	return nil
}

func readDataset(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := dataset.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func printReport(w io.Writer, ds *dataset.Dataset, result dupcheck.Result, stats dupcheck.Stats, selected []string) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, warning := range ds.Warnings {
		fmt.Fprintf(w, "%s %s\n", yellow("warning:"), warning)
	}

	fmt.Fprintf(w, "Rows: %d\n", stats.TotalRows)
	fmt.Fprintf(w, "Compared columns: %s\n", stats.ColumnsLabel())
	if !stats.HasDuplicates() {
		fmt.Fprintf(w, "%s\n", green(stats.Headline()))
		return
	}
	fmt.Fprintf(w, "%s\n\n", yellow(stats.Headline()))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tROWS\tVALUES")
	for _, g := range result.Groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", cyan(g.ID), g.Count, g.Describe(selected))
	}
	tw.Flush()
}
