// Package excel loads the analytics input tables from a single workbook,
// one sheet per table. Analysts hand these around when neither the
// warehouse nor the CSV fixtures are available.
package excel

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/table"
	"github.com/lilyle-2211/game-analytics-dashboard/internal/logging"
)

// Source reads named tables from sheets of one .xlsx workbook. The sheet
// name must equal the table name.
type Source struct {
	filePath string
}

// New creates an Excel table source for the given workbook path.
func New(filePath string) *Source {
	return &Source{filePath: filePath}
}

func (s *Source) Name() string {
	return "excel"
}

// Load reads the sheet named after the table into a Frame.
func (s *Source) Load(_ context.Context, name string) (*table.Frame, error) {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("excel file not found: %s", s.filePath)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	logging.Default.Debug("sheet %q read in %.2fms (%d rows)",
		name, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("sheet %q has no header row", name)
	}
	return table.FromRecords(rows[0], rows[1:])
}
