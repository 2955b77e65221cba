package ltv

import (
	"fmt"
	"math"
	"sort"

	montanastats "github.com/montanaflynn/stats"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/segment"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/table"
)

// ObservedDays is the revenue observation window: revenue_day_1 through
// revenue_day_20 cumulative LTV columns, with revenue_day_20 as the total.
const ObservedDays = 20

// RevenueColumn returns the cumulative-revenue column name for a day.
func RevenueColumn(day int) string {
	return fmt.Sprintf("revenue_day_%d", day)
}

// Segmenter buckets users into spend tiers by day-20 revenue quantile.
// Thresholds are computed over paying users only; Non-Payer is a separate
// catch-all for zero-revenue users, not part of the quantile split.
type Segmenter struct{}

// NewSegmenter creates a new revenue segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment produces one Row per populated tier, in ascending tier order.
// A frame without the day-20 revenue column, or without paying users,
// yields an empty table rather than an error: absent data is tolerated.
func (s *Segmenter) Segment(frame *table.Frame) ([]segment.Row, error) {
	totals, ok := frame.Column(RevenueColumn(ObservedDays))
	if !ok {
		return nil, nil
	}

	// Null totals are absent data: the user is excluded from the split
	// entirely instead of being coerced to zero.
	users := make([]float64, 0, len(totals))
	paying := make([]float64, 0, len(totals))
	for _, total := range totals {
		if math.IsNaN(total) || total < 0 {
			continue
		}
		users = append(users, total)
		if total > 0 {
			paying = append(paying, total)
		}
	}
	if len(paying) == 0 {
		return nil, nil
	}

	thresholds := quantileThresholds(paying)

	byTier := make(map[segment.Tier][]float64, len(segment.Tiers))
	for _, total := range users {
		tier := assignTier(total, thresholds)
		byTier[tier] = append(byTier[tier], total)
	}

	var totalRevenue float64
	for _, total := range users {
		totalRevenue += total
	}

	rows := make([]segment.Row, 0, len(segment.Tiers))
	for _, tier := range segment.Tiers {
		totalsInTier := byTier[tier]
		if len(totalsInTier) == 0 {
			continue
		}
		row, err := buildRow(tier, totalsInTier, len(users), totalRevenue)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// quantileThresholds computes the tier cut points with linear interpolation
// between order statistics, matching how the warehouse-side quantile
// aggregation defines them.
func quantileThresholds(paying []float64) []float64 {
	sorted := make([]float64, len(paying))
	copy(sorted, paying)
	sort.Float64s(sorted)

	thresholds := make([]float64, len(segment.Quantiles))
	for i, q := range segment.Quantiles {
		thresholds[i] = r7Quantile(sorted, q)
	}
	return thresholds
}

// r7Quantile interpolates order statistics at index h = (n-1)q, the R-7
// definition that pandas and numpy default to. gonum's stat.Quantile
// interpolates the empirical CDF instead and lands up to one order
// statistic lower, which would shift every tier cut, so the cut points are
// computed here directly.
func r7Quantile(sorted []float64, q float64) float64 {
	idx := float64(len(sorted)-1) * q
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// assignTier walks the ordered thresholds and returns the first tier whose
// upper bound is not exceeded. Boundary inclusivity (<=) must not change:
// it decides tier membership exactly at each quantile cut.
func assignTier(revenue float64, thresholds []float64) segment.Tier {
	if revenue == 0 {
		return segment.NonPayer
	}
	for i := 1; i < len(thresholds); i++ {
		if revenue <= thresholds[i] {
			return segment.Tiers[i]
		}
	}
	return segment.Whale
}

func buildRow(tier segment.Tier, totals []float64, userCount int, totalRevenue float64) (segment.Row, error) {
	var ltvTotal float64
	for _, t := range totals {
		ltvTotal += t
	}

	mean, err := montanastats.Mean(totals)
	if err != nil {
		return segment.Row{}, err
	}
	median, err := montanastats.Median(totals)
	if err != nil {
		return segment.Row{}, err
	}
	max, err := montanastats.Max(totals)
	if err != nil {
		return segment.Row{}, err
	}

	row := segment.Row{
		Tier:            tier,
		UserCount:       len(totals),
		LTV20DayTotal:   ltvTotal,
		LTV20DayPerUser: mean,
		PctUsers:        100 * float64(len(totals)) / float64(userCount),
		Revenue:         segment.RevenueStats{Mean: mean, Median: median, Max: max},
	}
	if len(totals) > 0 {
		row.DailyRevenuePerUser = ltvTotal / (float64(len(totals)) * ObservedDays)
	}
	if totalRevenue > 0 {
		row.PctLTV20DayShare = 100 * ltvTotal / totalRevenue
	}
	if tier == segment.NonPayer {
		row.DailyRevenuePerUser = 0
	}
	return row, nil
}
