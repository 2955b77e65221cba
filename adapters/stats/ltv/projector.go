package ltv

import (
	"github.com/lilyle-2211/game-analytics-dashboard/adapters/stats/survival"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/retention"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/segment"
)

// Projector combines a fitted retention curve with per-segment observed
// daily revenue to project cumulative per-user lifetime value. Stateless.
type Projector struct {
	horizon int
}

// NewProjector creates a projector for the default 90-day horizon.
func NewProjector() *Projector {
	return &Projector{horizon: survival.DefaultHorizon}
}

// NewProjectorWithHorizon creates a projector for a custom horizon.
func NewProjectorWithHorizon(horizonDays int) *Projector {
	if horizonDays < survival.ObservedHorizon {
		horizonDays = survival.ObservedHorizon
	}
	return &Projector{horizon: horizonDays}
}

// ProjectSegment returns the projected per-user LTV at the horizon.
//
// Revenue accrual is modeled as conditional on continued presence: the
// day-20 cumulative value plus, for each remaining day, the segment's daily
// revenue rate times the damped survival probability for that day.
//
// Non-Payers are short-circuited to zero: the survival fit describes
// active-player retention, not monetization, and applying it to the
// non-paying cohort would conflate the two. With no usable fit the policy
// is a flat carry-forward of the observed day-20 value.
func (p *Projector) ProjectSegment(row segment.Row, fit *retention.FitParams) float64 {
	if row.Tier == segment.NonPayer || row.UserCount == 0 {
		return 0
	}
	if fit == nil || row.DailyRevenuePerUser <= 0 {
		return row.LTV20DayPerUser
	}

	projected := row.LTV20DayPerUser
	for day := survival.ObservedHorizon + 1; day <= p.horizon; day++ {
		projected += row.DailyRevenuePerUser * survival.DampedSurvival(*fit, float64(day))
	}
	return projected
}

// ProjectTable fills ProjectedLTV90PerUser on every row, sharing one
// retention fit across segments. The input rows are not mutated.
func (p *Projector) ProjectTable(rows []segment.Row, curve retention.Curve) []segment.Row {
	out := make([]segment.Row, len(rows))
	for i, row := range rows {
		row.ProjectedLTV90PerUser = p.ProjectSegment(row, curve.Fit)
		out[i] = row
	}
	return out
}
