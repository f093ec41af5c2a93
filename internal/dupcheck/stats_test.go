package dupcheck

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Headline(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  string
	}{
		{"none", Stats{}, "No duplicates found"},
		{"single row", Stats{DuplicateRows: 1, GroupCount: 1}, "1 duplicate row across 1 group"},
		{"one group", Stats{DuplicateRows: 3, GroupCount: 1}, "3 duplicate rows across 1 group"},
		{"many", Stats{DuplicateRows: 4, GroupCount: 2}, "4 duplicate rows across 2 groups"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Headline())
		})
	}
}

func TestSummary(t *testing.T) {
	rows := []Record{
		vendor("SG01", "1001", "Vendor A"),
		vendor("SG01", "1001", "Vendor A"),
		vendor("SG02", "1002", "Vendor B"),
	}
	keys := []string{"CompanyCode", "", "Number"}

	stats := Summary(Detect(rows, keys), keys)

	assert.Equal(t, 3, stats.TotalRows)
	assert.Equal(t, 2, stats.DuplicateRows)
	assert.Equal(t, 1, stats.GroupCount)
	assert.True(t, stats.HasDuplicates())
	assert.Equal(t, "CompanyCode, Number", stats.ColumnsLabel())
	assert.Equal(t, "No columns selected", Stats{}.ColumnsLabel())
}

func TestDetector_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	d := NewDetector(nil)
	result := d.Detect([]Record{vendor("SG01", "1", "A"), vendor("SG01", "1", "A")}, []string{"Number"})
	assert.Len(t, result.Groups, 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "dupcheck", entry["component"])
	assert.Equal(t, float64(2), entry["duplicate_rows"])
	assert.Equal(t, float64(1), entry["groups"])
}
