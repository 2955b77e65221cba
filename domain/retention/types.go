package retention

// Point is one (day, retention percentage) observation or projection.
type Point struct {
	Day int     `json:"day"`
	Pct float64 `json:"retention_pct"`
}

// FitParams holds the fitted Weibull survival parameters.
// Scale (lambda) and Shape (gamma) are both strictly positive when present.
type FitParams struct {
	Scale float64 `json:"scale"`
	Shape float64 `json:"shape"`
}

// Curve is the full lifecycle object for one cohort's retention: the
// observed short-horizon series, the fit outcome, and (when the fit
// succeeded) the long-horizon projection. Created fresh per query result
// and discarded after the rendering pass that consumes it.
type Curve struct {
	Observed  []Point    `json:"observed"`
	Fit       *FitParams `json:"fit_params,omitempty"`
	Projected []Point    `json:"projected,omitempty"`
}

// Fitted reports whether a usable survival fit is available.
func (c Curve) Fitted() bool {
	return c.Fit != nil
}

// ObservedHorizon returns the last observed day, or 0 for an empty curve.
func (c Curve) ObservedHorizon() int {
	if len(c.Observed) == 0 {
		return 0
	}
	return c.Observed[len(c.Observed)-1].Day
}
