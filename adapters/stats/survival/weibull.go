package survival

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/retention"
)

// Model constants. The damping factor applies a 15% compounding haircut per
// 10 days beyond the observed horizon: Weibull extrapolation without
// damping overstates survival far outside the fitted range.
const (
	ObservedHorizon = 20
	DefaultHorizon  = 90

	dampingFactor = 0.85
	dampingWindow = 10.0

	scaleMin = 1.0
	scaleMax = 50.0
	shapeMin = 0.1
	shapeMax = 5.0

	initScale = 10.0
	initShape = 1.2
)

// Survival evaluates the undamped Weibull survival function
// S(t) = exp(-(t/scale)^shape).
func Survival(fit retention.FitParams, day float64) float64 {
	w := distuv.Weibull{K: fit.Shape, Lambda: fit.Scale}
	return w.Survival(day)
}

// DampedSurvival evaluates S(t) with the conservative haircut applied to
// days beyond the observed horizon.
func DampedSurvival(fit retention.FitParams, day float64) float64 {
	s := Survival(fit, day)
	if day > ObservedHorizon {
		s *= math.Pow(dampingFactor, (day-ObservedHorizon)/dampingWindow)
	}
	return s
}

// Project evaluates the damped survival curve for days 1..horizonDays and
// returns it as retention percentages. The output is a pure function of the
// fit parameters, so the sequence can be regenerated deterministically.
func Project(fit retention.FitParams, horizonDays int) []retention.Point {
	points := make([]retention.Point, 0, horizonDays)
	for day := 1; day <= horizonDays; day++ {
		points = append(points, retention.Point{
			Day: day,
			Pct: 100 * DampedSurvival(fit, float64(day)),
		})
	}
	return points
}
