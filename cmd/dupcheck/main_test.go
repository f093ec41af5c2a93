package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ignite/csv-dupcheck/internal/dataset"
	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vendorsCSV = "CompanyCode,Number,Name\n" +
	"SG01,1001,Vendor A\n" +
	"SG01,1001,VENDOR A\n" +
	"SG02,1002,Vendor B\n"

// execute runs the root command with args and returns its stdout. Flags are
// reset first since the commands are package globals.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		resetFlags(c.Flags())
		resetFlags(c.PersistentFlags())
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectCommand_Columns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Vendors.csv", vendorsCSV)

	out, err := execute(t, "detect", path, "--columns", "CompanyCode,Name")
	require.NoError(t, err)

	assert.Contains(t, out, "Rows: 3")
	assert.Contains(t, out, "Compared columns: CompanyCode, Name")
	assert.Contains(t, out, "2 duplicate rows across 1 group")
	assert.Contains(t, out, "CompanyCode: SG01 | Name: Vendor A")
}

func TestDetectCommand_NoDuplicates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Vendors.csv", vendorsCSV)

	out, err := execute(t, "detect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Compared columns: No columns selected")
	assert.Contains(t, out, "No duplicates found")
}

func TestDetectCommand_PresetExport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "S2P - Vendors.CSV", vendorsCSV)

	out, err := execute(t, "detect", path, "--preset", "Vendors example", "--export", "--config", filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	exported := filepath.Join(dir, "S2P - Vendors_duplicates.csv")
	assert.Contains(t, out, "Wrote 2 duplicate row(s) to "+exported)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t,
		"CompanyCode,Number,Name,isDuplicate,dupGroup\n"+
			"SG01,1001,Vendor A,true,G1\n"+
			"SG01,1001,VENDOR A,true,G1\n",
		string(data))
}

func TestDetectCommand_OutWithSuffix(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Vendors.csv", vendorsCSV)
	outPath := filepath.Join(dir, "custom.csv")

	_, err := execute(t, "detect", path, "--columns", "Number", "--out", outPath, "--suffix", "ignored")
	require.NoError(t, err)
	assert.FileExists(t, outPath)
}

func TestDetectCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Vendors.csv", vendorsCSV)

	t.Run("nothing to export", func(t *testing.T) {
		_, err := execute(t, "detect", path, "--export")
		assert.ErrorIs(t, err, dataset.ErrNothingToExport)
		assert.NoFileExists(t, filepath.Join(dir, "Vendors_duplicates.csv"))
	})

	t.Run("missing preset columns", func(t *testing.T) {
		_, err := execute(t, "detect", path, "--preset", "G_L accounts example", "--config", filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
		assert.Equal(t, "Missing columns in uploaded CSV: Account, Description, Z_CodingBlock", err.Error())
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := execute(t, "detect", path, "--preset", "Customers", "--config", filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, selection.ErrUnknownPreset)
		assert.Equal(t, "unknown preset: Customers (available: G_L accounts example, Vendors example)", err.Error())
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := execute(t, "detect", path, "--columns", "Account")
		var missing *selection.MissingColumnsError
		assert.ErrorAs(t, err, &missing)
	})

	t.Run("columns and preset", func(t *testing.T) {
		_, err := execute(t, "detect", path, "--columns", "Name", "--preset", "Vendors example")
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		empty := writeFile(t, dir, "empty.csv", "")
		_, err := execute(t, "detect", empty, "--columns", "Name")
		assert.ErrorIs(t, err, dataset.ErrEmptyFile)
	})
}

func TestColumnsCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Vendors.csv", vendorsCSV)

	out, err := execute(t, "columns", path)
	require.NoError(t, err)
	assert.Contains(t, out, "  1  CompanyCode\n")
	assert.Contains(t, out, "  3  Name\n")
	assert.Contains(t, out, "3 column(s), 3 row(s)")
}

func TestPresetsCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "presets", "--config", filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Vendors example")
	assert.Contains(t, out, "Columns: CompanyCode, Account, Description, Z_CodingBlock")

	cfgPath := writeFile(t, dir, "config.yaml", `
presets:
  - name: Customers
    columns: [Email, Country]
`)
	out, err = execute(t, "presets", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Customers")
	assert.Contains(t, out, "Columns: Email, Country")
	assert.NotContains(t, out, "Vendors example")
}
