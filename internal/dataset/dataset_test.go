package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/ignite/csv-dupcheck/internal/dupcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_HeadersAndRows(t *testing.T) {
	input := "CompanyCode,Number,Name\nSG01,1001,Vendor A\nSG01,1001, Vendor A \n"

	ds, err := Parse(strings.NewReader(input), "S2P - Vendors.csv")
	require.NoError(t, err)

	assert.Equal(t, "S2P - Vendors.csv", ds.FileName)
	assert.Equal(t, []string{"CompanyCode", "Number", "Name"}, ds.Headers)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, dupcheck.Record{"CompanyCode": "SG01", "Number": "1001", "Name": "Vendor A"}, ds.Rows[0])
	// Values are not trimmed or coerced.
	assert.Equal(t, " Vendor A ", ds.Rows[1]["Name"])
	assert.Empty(t, ds.Warnings)
}

func TestParse_StripsBOMAndSkipsBlankLines(t *testing.T) {
	input := "\xEF\xBB\xBFID,Name\n\n1,A\n\n\n2,B\n"

	ds, err := Parse(strings.NewReader(input), "ids.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Name"}, ds.Headers)
	assert.Len(t, ds.Rows, 2)
	assert.Equal(t, "2", ds.Rows[1]["ID"])
}

func TestParse_ShortAndLongRows(t *testing.T) {
	input := "A,B,C\n1,2\n1,2,3,4\n"

	ds, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	require.Len(t, ds.Rows, 2)
	_, hasC := ds.Rows[0]["C"]
	assert.False(t, hasC, "short row leaves trailing column absent")
	assert.Equal(t, dupcheck.Record{"A": "1", "B": "2", "C": "3"}, ds.Rows[1])
	assert.Equal(t, []string{
		"line 2: expected 3 fields, got 2",
		"line 3: expected 3 fields, got 4",
	}, ds.Warnings)
}

func TestParse_DuplicateHeaders(t *testing.T) {
	input := "Name,Name,Name_1,Name\na,b,c,d\n"

	ds, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Name_1", "Name_1_1", "Name_2"}, ds.Headers)
	assert.Equal(t, "d", ds.Rows[0]["Name_2"])
}

func TestParse_QuotedFields(t *testing.T) {
	input := "Name,Notes\n\"Vendor, Inc\",\"line one\nline two\"\n"

	ds, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "Vendor, Inc", ds.Rows[0]["Name"])
	assert.Equal(t, "line one\nline two", ds.Rows[0]["Notes"])
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "empty.csv")
	assert.True(t, errors.Is(err, ErrEmptyFile))

	_, err = Parse(strings.NewReader("\n\n"), "blank.csv")
	assert.True(t, errors.Is(err, ErrEmptyFile))
}

func TestParse_HeaderOnly(t *testing.T) {
	ds, err := Parse(strings.NewReader("A,B\n"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ds.Headers)
	assert.NotNil(t, ds.Rows)
	assert.Empty(t, ds.Rows)
}

func TestParse_FeedsDetector(t *testing.T) {
	input := "CompanyCode,Number,Name\nSG01,1001,Vendor A\nsg01 ,1001,VENDOR A\nSG02,1002,Vendor B\n"

	ds, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	result := dupcheck.Detect(ds.Rows, ds.Headers)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, 2, result.Groups[0].Count)
}
