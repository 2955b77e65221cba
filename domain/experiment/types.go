package experiment

import (
	apperrors "github.com/lilyle-2211/game-analytics-dashboard/internal/errors"
)

// MetricKind selects the test family used to size an experiment.
type MetricKind string

const (
	// MetricProportion sizes a two-sample z-test on a conversion/completion rate.
	MetricProportion MetricKind = "proportion"
	// MetricContinuous sizes a two-sample t-test on a continuous metric mean.
	MetricContinuous MetricKind = "continuous"
)

// Correction selects the multiple-comparison policy for multi-arm designs.
type Correction string

const (
	// CorrectionNone accepts the raw per-comparison alpha; the design-time
	// sample size is not inflated.
	CorrectionNone       Correction = "none"
	CorrectionBonferroni Correction = "bonferroni"
	// CorrectionFDR is applied post-hoc at analysis time; it does not inflate
	// the design-time sample size.
	CorrectionFDR Correction = "fdr"
)

// Effect describes the minimum detectable effect.
//
// For MetricProportion exactly one of AbsoluteDelta / RelativeDelta is set:
// AbsoluteDelta is percentage points expressed as a fraction (0.02 = +2pp),
// RelativeDelta is a fractional lift on the baseline (0.10 = +10%).
// For MetricContinuous, MeanDelta and StdDev are both required.
type Effect struct {
	AbsoluteDelta float64 `json:"absolute_delta,omitempty"`
	RelativeDelta float64 `json:"relative_delta,omitempty"`
	MeanDelta     float64 `json:"mean_delta,omitempty"`
	StdDev        float64 `json:"std_dev,omitempty"`
}

// Parameters is the immutable value object describing one sizing calculation.
//
// INVARIANTS:
// - Alpha and Power strictly inside (0,1)
// - Baseline strictly inside (0,1) for MetricProportion
// - TreatmentShare strictly inside (0,1)
// - ArmCount >= 1; Correction only meaningful when ArmCount > 1
type Parameters struct {
	MetricKind     MetricKind `json:"metric_kind"`
	Alpha          float64    `json:"alpha"`
	Power          float64    `json:"power"`
	Baseline       float64    `json:"baseline"`
	Effect         Effect     `json:"effect"`
	TreatmentShare float64    `json:"treatment_share"`
	ArmCount       int        `json:"arm_count"`
	Correction     Correction `json:"correction,omitempty"`
	DailyTraffic   float64    `json:"daily_traffic"`
}

// TargetRate returns the treated proportion implied by the MDE input mode.
func (p Parameters) TargetRate() float64 {
	if p.Effect.RelativeDelta != 0 {
		return p.Baseline * (1 + p.Effect.RelativeDelta)
	}
	return p.Baseline + p.Effect.AbsoluteDelta
}

// Validate enforces the domain invariants before any computation runs.
// Every violation surfaces as an INVALID_PARAMETER error; nothing partial
// is ever produced from invalid input.
func (p Parameters) Validate() error {
	if p.MetricKind != MetricProportion && p.MetricKind != MetricContinuous {
		return apperrors.InvalidParameter("unknown metric kind %q", p.MetricKind)
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return apperrors.InvalidParameter("alpha must be in (0,1), got %g", p.Alpha)
	}
	if p.Power <= 0 || p.Power >= 1 {
		return apperrors.InvalidParameter("power must be in (0,1), got %g", p.Power)
	}
	if p.TreatmentShare <= 0 || p.TreatmentShare >= 1 {
		return apperrors.InvalidParameter("treatment share must be in (0,1), got %g", p.TreatmentShare)
	}
	if p.ArmCount < 1 {
		return apperrors.InvalidParameter("arm count must be >= 1, got %d", p.ArmCount)
	}
	if p.DailyTraffic <= 0 {
		return apperrors.InvalidParameter("daily traffic must be positive, got %g", p.DailyTraffic)
	}
	switch p.MetricKind {
	case MetricProportion:
		if p.Baseline <= 0 || p.Baseline >= 1 {
			return apperrors.InvalidParameter("baseline rate must be in (0,1), got %g", p.Baseline)
		}
		if p.Effect.AbsoluteDelta == 0 && p.Effect.RelativeDelta == 0 {
			return apperrors.InvalidParameter("proportion metric requires an absolute or relative MDE")
		}
		if p.Effect.AbsoluteDelta != 0 && p.Effect.RelativeDelta != 0 {
			return apperrors.InvalidParameter("specify the MDE as absolute or relative, not both")
		}
		if target := p.TargetRate(); target <= 0 || target >= 1 {
			return apperrors.InvalidParameter("baseline plus MDE must stay in (0,1), got %g", target)
		}
	case MetricContinuous:
		if p.Effect.StdDev <= 0 {
			return apperrors.InvalidParameter("standard deviation must be positive, got %g", p.Effect.StdDev)
		}
		if p.Effect.MeanDelta == 0 {
			return apperrors.InvalidParameter("continuous metric requires a non-zero mean delta")
		}
	}
	switch p.Correction {
	case "", CorrectionNone, CorrectionBonferroni, CorrectionFDR:
	default:
		return apperrors.InvalidParameter("unknown correction %q", p.Correction)
	}
	if p.ArmCount > 1 && p.Correction == "" {
		return apperrors.InvalidParameter("multi-arm designs require an explicit correction policy: none, bonferroni or fdr")
	}
	return nil
}

// Result holds the output of one sizing calculation. Never mutated after
// creation; display formatting is entirely the caller's concern.
type Result struct {
	ControlSize      int     `json:"control_size"`
	PerTreatmentSize int     `json:"per_treatment_size"`
	TotalSize        int     `json:"total_size"`
	DurationDays     int     `json:"duration_days"`
	EffectSize       float64 `json:"effect_size"`
	// AdjustedAlpha is only populated for multi-arm designs.
	AdjustedAlpha float64 `json:"adjusted_alpha,omitempty"`
}
