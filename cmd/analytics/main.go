package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lilyle-2211/game-analytics-dashboard/adapters/csvsource"
	"github.com/lilyle-2211/game-analytics-dashboard/adapters/excel"
	"github.com/lilyle-2211/game-analytics-dashboard/adapters/stats/power"
	"github.com/lilyle-2211/game-analytics-dashboard/app"
	"github.com/lilyle-2211/game-analytics-dashboard/domain/experiment"
	"github.com/lilyle-2211/game-analytics-dashboard/internal/config"
	"github.com/lilyle-2211/game-analytics-dashboard/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Statistical core for the game analytics dashboard: experiment sizing and LTV projection",
	}

	rootCmd.AddCommand(
		newSizeCmd(),
		newLtvCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSizeCmd() *cobra.Command {
	var (
		metric         string
		alpha          float64
		powerTarget    float64
		baseline       float64
		mdeAbs         float64
		mdeRel         float64
		meanDelta      float64
		stdDev         float64
		treatmentShare float64
		arms           int
		correction     string
		dailyTraffic   float64
	)

	cmd := &cobra.Command{
		Use:   "size",
		Short: "Compute required sample sizes and duration for an experiment design",
		Long: `Compute per-arm sample sizes and projected duration for a two-arm or
multi-arm controlled experiment.

Example: analytics size --metric proportion --baseline 0.15 --mde-abs 0.02 --daily-traffic 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := experiment.Parameters{
				MetricKind: experiment.MetricKind(metric),
				Alpha:      alpha,
				Power:      powerTarget,
				Baseline:   baseline,
				Effect: experiment.Effect{
					AbsoluteDelta: mdeAbs,
					RelativeDelta: mdeRel,
					MeanDelta:     meanDelta,
					StdDev:        stdDev,
				},
				TreatmentShare: treatmentShare,
				ArmCount:       arms,
				Correction:     experiment.Correction(correction),
				DailyTraffic:   dailyTraffic,
			}

			result, err := power.NewSizer().Size(params)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "proportion", "metric kind: proportion or continuous")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "two-sided significance level")
	cmd.Flags().Float64Var(&powerTarget, "power", 0.80, "target statistical power")
	cmd.Flags().Float64Var(&baseline, "baseline", 0.15, "control-group rate (proportion) or mean (continuous)")
	cmd.Flags().Float64Var(&mdeAbs, "mde-abs", 0, "absolute MDE for proportions, as a fraction (0.02 = +2pp)")
	cmd.Flags().Float64Var(&mdeRel, "mde-rel", 0, "relative MDE for proportions, as a fraction (0.10 = +10%)")
	cmd.Flags().Float64Var(&meanDelta, "mean-delta", 0, "minimum detectable mean change (continuous)")
	cmd.Flags().Float64Var(&stdDev, "std-dev", 0, "metric standard deviation (continuous)")
	cmd.Flags().Float64Var(&treatmentShare, "treatment-share", 0.5, "fraction of traffic across all treatment arms")
	cmd.Flags().IntVar(&arms, "arms", 1, "number of treatment arms")
	cmd.Flags().StringVar(&correction, "correction", "", "multi-arm correction: none, bonferroni or fdr")
	cmd.Flags().Float64Var(&dailyTraffic, "daily-traffic", 1000, "expected new users per day")

	return cmd
}

func newLtvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ltv",
		Short: "Build the segment LTV report with 90-day retention projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			sources := []ports.TableSource{}
			if cfg.Data.ExcelFile != "" {
				sources = append(sources, excel.New(cfg.Data.ExcelFile))
			}
			sources = append(sources, csvsource.New(cfg.CSVFiles()))

			service := app.NewLtvReportService(ports.NewFallbackSource(sources...), cfg.Projection.HorizonDays)
			report, err := service.BuildReport(context.Background())
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	return cmd
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
