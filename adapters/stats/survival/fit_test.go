package survival

import (
	"math"
	"testing"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/retention"
)

// A realistic cohort decay: steep first week, flattening toward day 20.
var cohortPcts = []float64{50, 40, 35, 30, 27, 25, 23, 22, 21, 20, 19, 18, 18, 17, 17, 16, 16, 15, 15, 15}

func cohortObservations() []retention.Point {
	points := make([]retention.Point, len(cohortPcts))
	for i, pct := range cohortPcts {
		points[i] = retention.Point{Day: i + 1, Pct: pct}
	}
	return points
}

func TestFit_RecoversKnownParameters(t *testing.T) {
	truth := retention.FitParams{Scale: 9.0, Shape: 0.8}
	observed := make([]retention.Point, 0, ObservedHorizon)
	for day := 1; day <= ObservedHorizon; day++ {
		observed = append(observed, retention.Point{Day: day, Pct: 100 * Survival(truth, float64(day))})
	}

	outcome := NewProjector().Fit(observed)
	if !outcome.Fitted {
		t.Fatalf("expected fit to succeed on exact Weibull data: %s", outcome.Reason)
	}
	if math.Abs(outcome.Params.Scale-truth.Scale) > 0.5 {
		t.Fatalf("scale: got %.3f, want ~%.1f", outcome.Params.Scale, truth.Scale)
	}
	if math.Abs(outcome.Params.Shape-truth.Shape) > 0.05 {
		t.Fatalf("shape: got %.3f, want ~%.1f", outcome.Params.Shape, truth.Shape)
	}
}

func TestFit_RoundTripWithinResidualTolerance(t *testing.T) {
	observed := cohortObservations()
	outcome := NewProjector().Fit(observed)
	if !outcome.Fitted {
		t.Fatalf("expected fit to succeed: %s", outcome.Reason)
	}

	// The fit is anchored to the observations. Later days carry more
	// weight, so their residuals are tight; day 1 is the noisiest and is
	// allowed a looser band.
	for _, pt := range observed {
		fitted := 100 * Survival(outcome.Params, float64(pt.Day))
		residual := math.Abs(fitted - pt.Pct)
		limit := 2.0
		if pt.Day <= 3 {
			limit = 6.0
		}
		if residual > limit {
			t.Fatalf("day %d residual %.2fpp exceeds %.0fpp (fitted %.2f, observed %.2f)",
				pt.Day, residual, limit, fitted, pt.Pct)
		}
	}
}

func TestCurve_ProjectsMonotonicDecayTo90Days(t *testing.T) {
	curve := NewProjector().Curve(cohortObservations())
	if !curve.Fitted() {
		t.Fatal("expected a fitted curve")
	}
	if len(curve.Projected) != DefaultHorizon {
		t.Fatalf("expected %d projected points, got %d", DefaultHorizon, len(curve.Projected))
	}

	day90 := curve.Projected[DefaultHorizon-1]
	if day90.Day != DefaultHorizon {
		t.Fatalf("last projected day: got %d, want %d", day90.Day, DefaultHorizon)
	}
	day20Observed := cohortPcts[len(cohortPcts)-1]
	if day90.Pct <= 0 || day90.Pct >= day20Observed {
		t.Fatalf("day-90 projection %.3f%% must be in (0, %.1f)", day90.Pct, day20Observed)
	}

	for i := 1; i < len(curve.Projected); i++ {
		if curve.Projected[i].Pct > curve.Projected[i-1].Pct {
			t.Fatalf("projection rose from day %d to %d (%.4f -> %.4f)",
				curve.Projected[i-1].Day, curve.Projected[i].Day,
				curve.Projected[i-1].Pct, curve.Projected[i].Pct)
		}
	}
}

func TestCurve_DampingBitesBeyondObservedHorizon(t *testing.T) {
	curve := NewProjector().Curve(cohortObservations())
	if !curve.Fitted() {
		t.Fatal("expected a fitted curve")
	}
	fit := *curve.Fit
	day40 := 40.0
	if damped, raw := DampedSurvival(fit, day40), Survival(fit, day40); damped >= raw {
		t.Fatalf("damped survival %.5f must undercut raw Weibull %.5f beyond day 20", damped, raw)
	}
	if damped, raw := DampedSurvival(fit, 10), Survival(fit, 10); damped != raw {
		t.Fatalf("no damping inside the observed window: %.5f vs %.5f", damped, raw)
	}
}

func TestFit_InsufficientObservationsDegradesSoftly(t *testing.T) {
	observed := cohortObservations()[:14]

	projector := NewProjector()
	outcome := projector.Fit(observed)
	if outcome.Fitted {
		t.Fatal("expected fit to be unavailable with 14 observations")
	}
	if outcome.Reason == "" {
		t.Fatal("degraded outcome must carry a reason")
	}

	curve := projector.Curve(observed)
	if curve.Fitted() {
		t.Fatal("degraded curve must not carry fit params")
	}
	if len(curve.Projected) != 0 {
		t.Fatalf("degraded curve must have no projected tail, got %d points", len(curve.Projected))
	}
	if len(curve.Observed) != 14 {
		t.Fatalf("degraded curve keeps the supplied actuals, got %d", len(curve.Observed))
	}
}

func TestFit_NullObservationsAreAbsentNotZero(t *testing.T) {
	observed := cohortObservations()
	observed[4].Pct = math.NaN()
	observed[9].Pct = math.NaN()

	// 18 usable points remain, still above the floor.
	outcome := NewProjector().Fit(observed)
	if !outcome.Fitted {
		t.Fatalf("expected fit with 18 usable observations: %s", outcome.Reason)
	}
}

func TestFit_Deterministic(t *testing.T) {
	projector := NewProjector()
	first := projector.Fit(cohortObservations())
	second := projector.Fit(cohortObservations())
	if first != second {
		t.Fatalf("identical inputs must fit identically: %+v vs %+v", first, second)
	}

	a := Project(first.Params, DefaultHorizon)
	b := Project(first.Params, DefaultHorizon)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("projection must regenerate deterministically at index %d", i)
		}
	}
}

func TestObservationWeights_FollowTheDayAxis(t *testing.T) {
	full := observationWeights(cohortObservations())
	if full[0] != 0.5 || full[len(full)-1] != 2.0 {
		t.Fatalf("full series must span 0.5..2.0, got %g..%g", full[0], full[len(full)-1])
	}

	// A truncated series keeps day weights; day 15 is not the horizon and
	// must not inherit the horizon's weight.
	truncated := observationWeights(cohortObservations()[:15])
	want := 0.5 + 14.0/19.0*1.5
	if math.Abs(truncated[14]-want) > 1e-12 {
		t.Fatalf("day 15 weight: got %g, want %g", truncated[14], want)
	}

	gapped := observationWeights([]retention.Point{
		{Day: 1, Pct: 50}, {Day: 10, Pct: 20}, {Day: 20, Pct: 15},
	})
	for i, want := range []float64{0.5, 0.5 + 9.0/19.0*1.5, 2.0} {
		if math.Abs(gapped[i]-want) > 1e-12 {
			t.Fatalf("gapped weight %d: got %g, want %g", i, gapped[i], want)
		}
	}
}
