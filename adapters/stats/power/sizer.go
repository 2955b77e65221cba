package power

import (
	"math"

	"github.com/lilyle-2211/game-analytics-dashboard/domain/experiment"
)

// Sizer converts experiment design parameters into required per-arm sample
// sizes and a projected test duration. It is stateless: every call is a
// pure, single-shot computation.
type Sizer struct{}

// NewSizer creates a new experiment sizer
func NewSizer() *Sizer {
	return &Sizer{}
}

// Size validates the parameters and dispatches on arm count.
func (s *Sizer) Size(p experiment.Parameters) (experiment.Result, error) {
	if err := p.Validate(); err != nil {
		return experiment.Result{}, err
	}
	if p.ArmCount > 1 {
		return s.SizeMultiTreatment(p)
	}
	return s.SizeSingleTreatment(p)
}

// SizeSingleTreatment sizes a one-control, one-treatment design.
func (s *Sizer) SizeSingleTreatment(p experiment.Parameters) (experiment.Result, error) {
	effectSize, err := ComputeEffectSize(p)
	if err != nil {
		return experiment.Result{}, err
	}

	allocationRatio := p.TreatmentShare / (1 - p.TreatmentShare)
	controlSize, err := SolveRequiredN(p.MetricKind, effectSize, p.Alpha, p.Power, allocationRatio)
	if err != nil {
		return experiment.Result{}, err
	}
	treatmentSize := int(math.Ceil(float64(controlSize) * allocationRatio))

	return experiment.Result{
		ControlSize:      controlSize,
		PerTreatmentSize: treatmentSize,
		TotalSize:        controlSize + treatmentSize,
		DurationDays:     durationDays(controlSize, treatmentSize, p.DailyTraffic, p.TreatmentShare, 1),
		EffectSize:       effectSize,
	}, nil
}

// SizeMultiTreatment sizes a one-control, N-treatment design with equal
// allocation across treatment arms.
//
// Bonferroni inflates the design by testing each arm at alpha/armCount.
// FDR deliberately does not: Benjamini-Hochberg is applied post-hoc at
// analysis time, so the design-time sample size uses the unadjusted alpha.
// An explicit "none" policy likewise leaves alpha untouched.
func (s *Sizer) SizeMultiTreatment(p experiment.Parameters) (experiment.Result, error) {
	effectSize, err := ComputeEffectSize(p)
	if err != nil {
		return experiment.Result{}, err
	}

	adjustedAlpha := p.Alpha
	if p.Correction == experiment.CorrectionBonferroni {
		adjustedAlpha = p.Alpha / float64(p.ArmCount)
	}

	perArmShare := p.TreatmentShare / float64(p.ArmCount)
	allocationRatio := perArmShare / (1 - p.TreatmentShare)

	controlSize, err := SolveRequiredN(p.MetricKind, effectSize, adjustedAlpha, p.Power, allocationRatio)
	if err != nil {
		return experiment.Result{}, err
	}
	perTreatment := int(math.Ceil(float64(controlSize) * allocationRatio))

	return experiment.Result{
		ControlSize:      controlSize,
		PerTreatmentSize: perTreatment,
		TotalSize:        controlSize + perTreatment*p.ArmCount,
		DurationDays:     durationDays(controlSize, perTreatment, p.DailyTraffic, p.TreatmentShare, p.ArmCount),
		EffectSize:       effectSize,
		AdjustedAlpha:    adjustedAlpha,
	}, nil
}

// durationDays computes the projected test length. Both arms must run
// concurrently for the full window to preserve randomization validity, so
// the duration is bounded by whichever arm fills slower.
func durationDays(controlSize, perTreatment int, dailyTraffic, treatmentShare float64, armCount int) int {
	controlPerDay := dailyTraffic * (1 - treatmentShare)
	treatmentPerDayPerArm := dailyTraffic * treatmentShare / float64(armCount)

	daysControl := math.Ceil(float64(controlSize) / controlPerDay)
	daysTreatment := math.Ceil(float64(perTreatment) / treatmentPerDayPerArm)
	return int(math.Max(daysControl, daysTreatment))
}
