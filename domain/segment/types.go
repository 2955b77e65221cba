package segment

// Tier is an ordered spend tier label. NonPayer is a catch-all for
// zero-revenue users; the remaining tiers partition paying users by
// day-20 revenue quantile.
type Tier string

const (
	NonPayer      Tier = "Non-Payer"
	LowSpender    Tier = "Low Spender"
	MediumSpender Tier = "Medium Spender"
	HighSpender   Tier = "High Spender"
	Premium       Tier = "Premium"
	VIP           Tier = "VIP"
	Whale         Tier = "Whale"
)

// Tiers lists every tier in ascending spend order.
var Tiers = []Tier{NonPayer, LowSpender, MediumSpender, HighSpender, Premium, VIP, Whale}

// Quantiles are the cut points, over paying users only, that bound the six
// paying tiers. Order and inclusivity (revenue <= upper bound) must be
// preserved exactly: a user lands in the first tier whose upper threshold
// is not exceeded.
var Quantiles = []float64{0, 0.25, 0.5, 0.75, 0.90, 0.95, 1.0}

// RevenueStats are descriptive statistics over a tier's day-20 totals.
type RevenueStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Row is one tier's line in the LTV table. All figures are raw numbers;
// currency symbols, rounding etc. belong to the presentation layer.
type Row struct {
	Tier                  Tier         `json:"segment"`
	UserCount             int          `json:"num_user"`
	LTV20DayTotal         float64      `json:"ltv_20_day"`
	DailyRevenuePerUser   float64      `json:"avg_daily_revenue_per_user"`
	LTV20DayPerUser       float64      `json:"avg_ltv_20_day_per_user"`
	ProjectedLTV90PerUser float64      `json:"projected_avg_90_day_per_user"`
	PctUsers              float64      `json:"pct_user"`
	PctLTV20DayShare      float64      `json:"pct_ltv_20_day_per_segment"`
	Revenue               RevenueStats `json:"revenue_stats"`
}
