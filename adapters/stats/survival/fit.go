package survival

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/retention"
)

// MinObservations is the minimum count of usable retention values, out of
// the last ObservedHorizon days, required before a fit is attempted.
const MinObservations = 15

// Observation weights rise linearly from weightFirst (day 1) to weightLast
// (the observed horizon) so later, more-stable retention values influence
// the fit more than early noisy ones.
const (
	weightFirst = 0.5
	weightLast  = 2.0
)

const maxFitIterations = 500

// FitOutcome is the explicit result of a curve fit. A failed fit is a soft
// degradation, not an error: the Fitted flag replaces absence-of-exception
// as the success signal.
type FitOutcome struct {
	Fitted bool
	Params retention.FitParams
	// Reason is set when Fitted is false.
	Reason string
}

// Projector fits Weibull survival curves to short-horizon retention
// observations and extrapolates them. Stateless; safe for concurrent use.
type Projector struct {
	horizon int
}

// NewProjector creates a projector extrapolating to the default 90-day horizon.
func NewProjector() *Projector {
	return &Projector{horizon: DefaultHorizon}
}

// NewProjectorWithHorizon creates a projector with a custom horizon.
func NewProjectorWithHorizon(horizonDays int) *Projector {
	if horizonDays < ObservedHorizon {
		horizonDays = ObservedHorizon
	}
	return &Projector{horizon: horizonDays}
}

// Fit performs a bounded, weighted nonlinear least-squares fit of the
// Weibull survival function to observed retention percentages.
func (p *Projector) Fit(observed []retention.Point) FitOutcome {
	points := usableObservations(observed)
	if len(points) < MinObservations {
		return FitOutcome{Reason: "insufficient retention observations"}
	}
	if points[len(points)-1].Pct <= 0 {
		return FitOutcome{Reason: "latest observed retention is zero"}
	}

	days := make([]float64, len(points))
	fractions := make([]float64, len(points))
	for i, pt := range points {
		days[i] = float64(pt.Day)
		fractions[i] = pt.Pct / 100
	}
	weights := observationWeights(points)

	objective := func(x []float64) float64 {
		fit := retention.FitParams{
			Scale: boundTransform(x[0], scaleMin, scaleMax),
			Shape: boundTransform(x[1], shapeMin, shapeMax),
		}
		var sum float64
		for i := range days {
			r := weights[i] * (Survival(fit, days[i]) - fractions[i])
			sum += r * r
		}
		return sum
	}

	x0 := []float64{
		boundInverse(initScale, scaleMin, scaleMax),
		boundInverse(initShape, shapeMin, shapeMax),
	}
	settings := &optimize.Settings{MajorIterations: maxFitIterations}
	result, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return FitOutcome{Reason: "optimizer failed: " + err.Error()}
	}
	if result.Status == optimize.IterationLimit || result.Status == optimize.Failure {
		return FitOutcome{Reason: "optimizer did not converge within the iteration budget"}
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return FitOutcome{Reason: "fit diverged"}
	}

	return FitOutcome{
		Fitted: true,
		Params: retention.FitParams{
			Scale: boundTransform(result.X[0], scaleMin, scaleMax),
			Shape: boundTransform(result.X[1], shapeMin, shapeMax),
		},
	}
}

// Curve runs the full fit-then-project pipeline. On fit failure it returns
// only the observed series with no projected tail so the caller can still
// render partial results.
func (p *Projector) Curve(observed []retention.Point) retention.Curve {
	curve := retention.Curve{Observed: usableObservations(observed)}
	outcome := p.Fit(observed)
	if !outcome.Fitted {
		return curve
	}
	params := outcome.Params
	curve.Fit = &params
	curve.Projected = Project(params, p.horizon)
	return curve
}

// usableObservations drops null values and days outside 1..ObservedHorizon,
// returning the remainder in day order.
func usableObservations(observed []retention.Point) []retention.Point {
	points := make([]retention.Point, 0, len(observed))
	for _, pt := range observed {
		if pt.Day < 1 || pt.Day > ObservedHorizon {
			continue
		}
		if math.IsNaN(pt.Pct) || pt.Pct < 0 || pt.Pct > 100 {
			continue
		}
		points = append(points, pt)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points
}

// observationWeights assigns each point the weight of its day on the
// 0.5-at-day-1 to 2.0-at-horizon ramp. Weighting by day rather than by
// position keeps a gapped series from over-weighting whatever point
// happens to come last.
func observationWeights(points []retention.Point) []float64 {
	weights := make([]float64, len(points))
	span := float64(ObservedHorizon - 1)
	for i, pt := range points {
		weights[i] = weightFirst + float64(pt.Day-1)/span*(weightLast-weightFirst)
	}
	return weights
}

// boundTransform maps an unconstrained optimizer variable into (min, max)
// via a logistic squash, which is how the bounded least-squares constraint
// is enforced on an unconstrained method.
func boundTransform(u, min, max float64) float64 {
	return min + (max-min)/(1+math.Exp(-u))
}

func boundInverse(v, min, max float64) float64 {
	frac := (v - min) / (max - min)
	return math.Log(frac / (1 - frac))
}
