package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lilyle-2211/game-analytics-dashboard/adapters/stats/ltv"
	"github.com/lilyle-2211/game-analytics-dashboard/adapters/stats/survival"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/core"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/retention"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/segment"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/table"
	"github.com/lilyle-2211/game-analytics-dashboard/internal/logging"
	"github.com/lilyle-2211/game-analytics-dashboard/ports"
)

// LtvReportService runs the full LTV pipeline: load the revenue and
// retention tables, segment users into spend tiers, fit the shared
// retention curve, and project per-tier 90-day LTV.
type LtvReportService struct {
	source    ports.TableSource
	segmenter *ltv.Segmenter
	fitter    *survival.Projector
	projector *ltv.Projector
}

// LtvReport is the complete output of one report run. One run corresponds
// to one rendering pass; nothing here is cached or persisted.
type LtvReport struct {
	ReportID    core.ReportID   `json:"report_id"`
	GeneratedAt core.Timestamp  `json:"generated_at"`
	Segments    []segment.Row   `json:"segments"`
	Retention   retention.Curve `json:"retention"`
	RuntimeMs   int64           `json:"runtime_ms"`
}

// NewLtvReportService creates an LTV report service
func NewLtvReportService(source ports.TableSource, horizonDays int) *LtvReportService {
	return &LtvReportService{
		source:    source,
		segmenter: ltv.NewSegmenter(),
		fitter:    survival.NewProjectorWithHorizon(horizonDays),
		projector: ltv.NewProjectorWithHorizon(horizonDays),
	}
}

// BuildReport produces an LtvReport from the configured table source.
// A failed retention fit degrades to actual-only output; only missing
// tables are hard errors.
func (s *LtvReportService) BuildReport(ctx context.Context) (*LtvReport, error) {
	startTime := time.Now()

	// The two input tables are independent, and the calculations hold no
	// shared state, so the loads can overlap.
	var revenueFrame, retentionFrame *table.Frame
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		revenueFrame, err = s.source.Load(gctx, ports.TableRevenue)
		return err
	})
	g.Go(func() error {
		var err error
		retentionFrame, err = s.source.Load(gctx, ports.TableRetention)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows, err := s.segmenter.Segment(revenueFrame)
	if err != nil {
		return nil, err
	}

	observed := RetentionObservations(retentionFrame)
	curve := s.fitter.Curve(observed)
	if !curve.Fitted() {
		logging.Default.Warn("retention fit unavailable; reporting observed data only")
	}

	return &LtvReport{
		ReportID:    core.ReportID(core.NewID()),
		GeneratedAt: core.Now(),
		Segments:    s.projector.ProjectTable(rows, curve),
		Retention:   curve,
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}, nil
}

// RetentionObservations extracts the single-row day_K_retention_pct series
// from the retention table. Missing columns and null cells are skipped, not
// zero-filled; the curve fitter decides whether what remains is enough.
func RetentionObservations(frame *table.Frame) []retention.Point {
	if frame == nil || frame.NumRows() == 0 {
		return nil
	}
	points := make([]retention.Point, 0, survival.ObservedHorizon)
	for day := 1; day <= survival.ObservedHorizon; day++ {
		column := fmt.Sprintf("day_%d_retention_pct", day)
		if pct, ok := frame.Value(0, column); ok {
			points = append(points, retention.Point{Day: day, Pct: pct})
		}
	}
	return points
}
