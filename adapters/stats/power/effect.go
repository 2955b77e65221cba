package power

import (
	"math"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/experiment"
	apperrors "github.com/lilyle-2211/game-analytics-dashboard/internal/errors"
)

// CohenH computes the arcsine-transformed standardized difference between
// two proportions: h = 2*asin(sqrt(p2)) - 2*asin(sqrt(p1)).
//
// Raw proportion differences are not variance-stabilized, so a pooled
// standard-deviation effect size biases power calculations for rates near
// 0 or 1; Cohen's h is the correct effect size for the two-sample z-test.
func CohenH(p1, p2 float64) (float64, error) {
	if p1 <= 0 || p1 >= 1 {
		return 0, apperrors.InvalidParameter("baseline rate must be in (0,1), got %g", p1)
	}
	if p2 <= 0 || p2 >= 1 {
		return 0, apperrors.InvalidParameter("target rate must be in (0,1), got %g", p2)
	}
	return 2*math.Asin(math.Sqrt(p2)) - 2*math.Asin(math.Sqrt(p1)), nil
}

// PooledProportionEffect is the naive pooled-variance standardized
// difference (p2-p1)/sqrt(pbar*(1-pbar)). One historical variant of the
// sizing calculator used this instead of Cohen's h; it is kept only so the
// divergence stays testable against the standard form. Not used for sizing.
func PooledProportionEffect(p1, p2 float64) (float64, error) {
	if p1 <= 0 || p1 >= 1 || p2 <= 0 || p2 >= 1 {
		return 0, apperrors.InvalidParameter("rates must be in (0,1), got %g and %g", p1, p2)
	}
	pbar := (p1 + p2) / 2
	return (p2 - p1) / math.Sqrt(pbar*(1-pbar)), nil
}

// CohenD computes the standardized mean difference delta/sd.
func CohenD(meanDelta, stdDev float64) (float64, error) {
	if stdDev <= 0 {
		return 0, apperrors.InvalidParameter("standard deviation must be positive, got %g", stdDev)
	}
	return meanDelta / stdDev, nil
}

// ComputeEffectSize converts validated experiment parameters into the
// standardized effect size for the parameter's test family.
func ComputeEffectSize(p experiment.Parameters) (float64, error) {
	switch p.MetricKind {
	case experiment.MetricProportion:
		return CohenH(p.Baseline, p.TargetRate())
	case experiment.MetricContinuous:
		return CohenD(p.Effect.MeanDelta, p.Effect.StdDev)
	default:
		return 0, apperrors.InvalidParameter("unknown metric kind %q", p.MetricKind)
	}
}
