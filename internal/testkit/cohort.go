// Package testkit generates seeded synthetic cohorts standing in for the
// warehouse tables in tests: a per-user 20-day cumulative revenue table and
// a single-row retention-rate table drawn from a known Weibull decay.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lilyle-2211/game-analytics-dashboard/adapters/stats/ltv"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/retention"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/table"
)

// CohortConfig controls the synthetic cohort.
type CohortConfig struct {
	Users int
	Seed  int64

	// PayerShare is the fraction of users with any spend.
	PayerShare float64

	// TrueScale/TrueShape parameterize the retention decay the generator
	// draws from, so tests can compare recovered fits against truth.
	TrueScale float64
	TrueShape float64

	// RetentionNoisePct adds uniform noise (in percentage points) to each
	// daily retention value.
	RetentionNoisePct float64
}

// DefaultCohortConfig returns a cohort resembling the production game's
// day-20 numbers.
func DefaultCohortConfig() CohortConfig {
	return CohortConfig{
		Users:             2000,
		Seed:              42,
		PayerShare:        0.18,
		TrueScale:         9.0,
		TrueShape:         0.8,
		RetentionNoisePct: 0.6,
	}
}

// Cohort holds the generated tables plus the numeric truth for assertions.
type Cohort struct {
	Revenue   *table.Frame
	Retention *table.Frame

	RetentionPoints []retention.Point
	PayerCount      int
}

// GenerateCohort builds a deterministic synthetic cohort.
func GenerateCohort(cfg CohortConfig) (*Cohort, error) {
	if cfg.Users <= 0 {
		return nil, fmt.Errorf("users must be > 0")
	}
	if cfg.PayerShare < 0 || cfg.PayerShare > 1 {
		return nil, fmt.Errorf("payer share must be in [0,1]")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	revenue, payerCount := generateRevenue(cfg, rng)
	retentionFrame, points := generateRetention(cfg, rng)

	return &Cohort{
		Revenue:         revenue,
		Retention:       retentionFrame,
		RetentionPoints: points,
		PayerCount:      payerCount,
	}, nil
}

func generateRevenue(cfg CohortConfig, rng *rand.Rand) (*table.Frame, int) {
	header := make([]string, 0, ltv.ObservedDays+1)
	header = append(header, "user_id")
	for day := 1; day <= ltv.ObservedDays; day++ {
		header = append(header, ltv.RevenueColumn(day))
	}

	records := make([][]string, cfg.Users)
	payerCount := 0
	for u := 0; u < cfg.Users; u++ {
		record := make([]string, len(header))
		record[0] = fmt.Sprintf("%d", u+1)

		// Spend is lognormal across payers, producing the heavy whale tail
		// the quantile tiers are designed around.
		total := 0.0
		if rng.Float64() < cfg.PayerShare {
			total = math.Exp(rng.NormFloat64()*1.4 + 1.0)
			payerCount++
		}

		// Cumulative daily LTV ramps toward the day-20 total.
		cumulative := 0.0
		for day := 1; day <= ltv.ObservedDays; day++ {
			if total > 0 {
				remaining := total - cumulative
				step := remaining * (0.10 + 0.06*rng.Float64())
				if day == ltv.ObservedDays {
					cumulative = total
				} else {
					cumulative += step
				}
			}
			record[day] = fmt.Sprintf("%.4f", cumulative)
		}
		records[u] = record
	}

	frame, err := table.FromRecords(header, records)
	if err != nil {
		// Header construction is fixed; this cannot fail for valid config.
		panic(err)
	}
	return frame, payerCount
}

func generateRetention(cfg CohortConfig, rng *rand.Rand) (*table.Frame, []retention.Point) {
	header := make([]string, 0, 20)
	record := make([]string, 0, 20)
	points := make([]retention.Point, 0, 20)

	for day := 1; day <= 20; day++ {
		survival := math.Exp(-math.Pow(float64(day)/cfg.TrueScale, cfg.TrueShape))
		pct := 100 * survival
		if cfg.RetentionNoisePct > 0 {
			pct += (rng.Float64()*2 - 1) * cfg.RetentionNoisePct
		}
		pct = math.Max(pct, 0.1)

		header = append(header, fmt.Sprintf("day_%d_retention_pct", day))
		record = append(record, fmt.Sprintf("%.3f", pct))
		points = append(points, retention.Point{Day: day, Pct: pct})
	}

	frame, err := table.FromRecords(header, [][]string{record})
	if err != nil {
		panic(err)
	}
	return frame, points
}
