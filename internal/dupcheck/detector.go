package dupcheck

import (
	"time"

	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
)

// Detector wraps Detect with structured logging.
type Detector struct {
	logger *logger.Logger
}

// NewDetector creates a detector that logs through l. A nil l uses a
// "dupcheck" component logger.
func NewDetector(l *logger.Logger) *Detector {
	if l == nil {
		l = logger.New("dupcheck")
	}
	return &Detector{logger: l}
}

// Detect runs Detect and logs the outcome.
func (d *Detector) Detect(rows []Record, keyColumns []string) Result {
	start := time.Now()
	result := Detect(rows, keyColumns)

	stats := Summary(result, keyColumns)
	if len(stats.ComparedColumns) == 0 {
		d.logger.Debug("No key columns selected, skipping duplicate detection",
			"rows", stats.TotalRows)
		return result
	}

	d.logger.Info("Duplicate detection completed",
		"rows", stats.TotalRows,
		"key_columns", len(stats.ComparedColumns),
		"duplicate_rows", stats.DuplicateRows,
		"groups", stats.GroupCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}
