// Package csvsource loads the analytics input tables from per-table CSV
// files, the same fixture files the dashboard falls back to when the
// warehouse is unreachable.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/table"
)

// Source maps table names to CSV file paths.
type Source struct {
	files map[string]string
}

// New creates a CSV table source from a name-to-path mapping.
func New(files map[string]string) *Source {
	copied := make(map[string]string, len(files))
	for name, path := range files {
		copied[name] = path
	}
	return &Source{files: copied}
}

func (s *Source) Name() string {
	return "csv"
}

// Load reads the mapped CSV file into a Frame.
func (s *Source) Load(_ context.Context, name string) (*table.Frame, error) {
	path, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("no CSV file mapped for table %q", name)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; the frame pads them
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("CSV file %s has no header row", path)
	}

	return table.FromRecords(records[0], records[1:])
}
