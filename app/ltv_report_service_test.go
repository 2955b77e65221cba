package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilyle-2211/game-analytics-dashboard/adapters/stats/survival"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/segment"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/table"
	"github.com/lilyle-2211/game-analytics-dashboard/internal/testkit"
	"github.com/lilyle-2211/game-analytics-dashboard/ports"
)

// memorySource serves pre-materialized frames, standing in for the
// CSV/Excel adapters.
type memorySource struct {
	frames map[string]*table.Frame
}

func (m *memorySource) Name() string { return "memory" }

func (m *memorySource) Load(_ context.Context, name string) (*table.Frame, error) {
	frame, ok := m.frames[name]
	if !ok {
		return nil, fmt.Errorf("no frame for table %q", name)
	}
	return frame, nil
}

func cohortSource(t *testing.T) (*memorySource, *testkit.Cohort) {
	t.Helper()
	cohort, err := testkit.GenerateCohort(testkit.DefaultCohortConfig())
	require.NoError(t, err)
	require.Greater(t, cohort.PayerCount, 0)
	return &memorySource{frames: map[string]*table.Frame{
		ports.TableRevenue:   cohort.Revenue,
		ports.TableRetention: cohort.Retention,
	}}, cohort
}

func TestBuildReport_EndToEnd(t *testing.T) {
	source, cohort := cohortSource(t)
	service := NewLtvReportService(source, survival.DefaultHorizon)

	report, err := service.BuildReport(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.Segments)
	assert.False(t, report.ReportID.String() == "")
	assert.False(t, report.GeneratedAt.IsZero())

	// The synthetic retention decay is a noisy Weibull; the fit must land.
	require.True(t, report.Retention.Fitted(), "expected a fitted retention curve")
	assert.Len(t, report.Retention.Observed, 20)
	assert.Len(t, report.Retention.Projected, survival.DefaultHorizon)

	counted := 0
	for _, row := range report.Segments {
		counted += row.UserCount
		if row.Tier == segment.NonPayer {
			assert.Zero(t, row.ProjectedLTV90PerUser)
			assert.Zero(t, row.DailyRevenuePerUser)
			continue
		}
		assert.Greater(t, row.ProjectedLTV90PerUser, row.LTV20DayPerUser,
			"tier %s must accrue projected value beyond day 20", row.Tier)
	}

	// Every generated user with a usable day-20 total lands in exactly
	// one tier.
	totals, ok := cohort.Revenue.Column("revenue_day_20")
	require.True(t, ok)
	assert.Equal(t, len(totals), counted)
}

func TestBuildReport_DegradesWithoutRetentionTable(t *testing.T) {
	source, _ := cohortSource(t)

	// Replace the retention table with one missing most day columns.
	frame, err := table.FromRecords(
		[]string{"day_1_retention_pct", "day_2_retention_pct"},
		[][]string{{"50", "40"}},
	)
	require.NoError(t, err)
	source.frames[ports.TableRetention] = frame

	service := NewLtvReportService(source, survival.DefaultHorizon)
	report, buildErr := service.BuildReport(context.Background())
	require.NoError(t, buildErr, "a failed fit is a soft degradation")

	assert.False(t, report.Retention.Fitted())
	assert.Empty(t, report.Retention.Projected)
	assert.Len(t, report.Retention.Observed, 2)

	for _, row := range report.Segments {
		if row.Tier == segment.NonPayer {
			assert.Zero(t, row.ProjectedLTV90PerUser)
			continue
		}
		// Flat carry-forward policy.
		assert.InDelta(t, row.LTV20DayPerUser, row.ProjectedLTV90PerUser, 1e-9)
	}
}

func TestBuildReport_FailsWhenRevenueTableMissing(t *testing.T) {
	source, _ := cohortSource(t)
	delete(source.frames, ports.TableRevenue)

	service := NewLtvReportService(source, survival.DefaultHorizon)
	_, err := service.BuildReport(context.Background())
	require.Error(t, err, "missing input tables are hard errors")
}

func TestRetentionObservations_SkipsMissingColumns(t *testing.T) {
	frame, err := table.FromRecords(
		[]string{"day_1_retention_pct", "day_3_retention_pct"},
		[][]string{{"50", "35"}},
	)
	require.NoError(t, err)

	points := RetentionObservations(frame)
	require.Len(t, points, 2)
	assert.Equal(t, 1, points[0].Day)
	assert.Equal(t, 3, points[1].Day)

	assert.Empty(t, RetentionObservations(nil))
}
