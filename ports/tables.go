package ports

import (
	"context"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/table"
	apperrors "github.com/lilyle-2211/game-analytics-dashboard/internal/errors"
	"github.com/lilyle-2211/game-analytics-dashboard/internal/logging"
)

// Well-known table names, matching the warehouse tables the original
// queries are pointed at.
const (
	TableRevenue   = "revenue_day1_20"
	TableRetention = "retention_rate_day1_20"
)

// TableSource defines the interface for loading named input tables. The
// statistical core only ever sees the materialized Frame; where it came
// from (CSV fixture, workbook, warehouse export) is the adapter's concern.
type TableSource interface {
	// Load materializes the named table. Unknown tables return an error;
	// known tables with missing columns load fine, the frame just reports
	// those columns as absent.
	Load(ctx context.Context, name string) (*table.Frame, error)
	// Name identifies the source for logging.
	Name() string
}

// FallbackSource tries sources in order and returns the first success.
type FallbackSource struct {
	sources []TableSource
}

// NewFallbackSource creates a fallback chain over the given sources.
func NewFallbackSource(sources ...TableSource) *FallbackSource {
	return &FallbackSource{sources: sources}
}

func (f *FallbackSource) Name() string {
	return "fallback"
}

// Load walks the chain, logging each miss; it fails only when every source
// fails.
func (f *FallbackSource) Load(ctx context.Context, name string) (*table.Frame, error) {
	var lastErr error
	for _, source := range f.sources {
		frame, err := source.Load(ctx, name)
		if err == nil {
			return frame, nil
		}
		logging.Default.Warn("source %s could not load %q: %v", source.Name(), name, err)
		lastErr = err
	}
	if lastErr == nil {
		return nil, apperrors.Newf(apperrors.CodeInternal, "no table sources configured")
	}
	return nil, apperrors.Wrapf(lastErr, "all sources failed for table %q", name)
}
