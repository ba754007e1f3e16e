package missing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// Auditor wraps the threshold selectors and logs how many columns or rows
// were flagged. The zero value logs nothing.
type Auditor struct {
	Log *zap.Logger
}

// NewAuditor returns an Auditor; a nil logger is replaced by zap.NewNop.
func NewAuditor(log *zap.Logger) *Auditor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auditor{Log: log}
}

func (a *Auditor) logger() *zap.Logger {
	if a == nil || a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// Columns is ColumnsAboveThreshold plus a "found k columns on m" entry.
func (a *Auditor) Columns(ds *dataset.Dataset, threshold float64) ([]string, Report, error) {
	cols, rep, err := ColumnsAboveThreshold(ds, threshold)
	if err != nil {
		return nil, rep, err
	}
	a.logger().Info("missing columns",
		zap.String("summary", foundMsg(len(cols), ds.Cols(), "columns")),
		zap.Int("found", len(cols)),
		zap.Int("total", ds.Cols()),
		zap.Float64("threshold", threshold),
	)
	return cols, rep, nil
}

// Rows is RowsAboveOrEqualThreshold plus a "found k rows on n" entry.
func (a *Auditor) Rows(ds *dataset.Dataset, threshold float64) ([]int, error) {
	rows, err := RowsAboveOrEqualThreshold(ds, threshold)
	if err != nil {
		return nil, err
	}
	a.logger().Info("missing rows",
		zap.String("summary", foundMsg(len(rows), ds.Rows(), "rows")),
		zap.Int("found", len(rows)),
		zap.Int("total", ds.Rows()),
		zap.Float64("threshold", threshold),
	)
	return rows, nil
}

func foundMsg(k, m int, what string) string {
	return fmt.Sprintf("found %d %s on %d", k, what, m)
}
