package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/lilyle-2211/game-analytics-dashboard/adapters/stats/survival"
	"github.com/lilyle-2211/game-analytics-dashboard/ports"
)

// Config represents the complete application configuration
type Config struct {
	Data       DataConfig
	Projection ProjectionConfig
}

// DataConfig holds input-table locations
type DataConfig struct {
	// Dir is the base directory for the CSV fixture files.
	Dir string
	// RevenueCSV and RetentionCSV override the per-table file paths.
	RevenueCSV   string
	RetentionCSV string
	// ExcelFile, when set, is tried before the CSV fixtures.
	ExcelFile string
}

// ProjectionConfig holds the LTV projection settings
type ProjectionConfig struct {
	HorizonDays int
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	dataDir := getEnv("ANALYTICS_DATA_DIR", "data")
	cfg := &Config{
		Data: DataConfig{
			Dir:          dataDir,
			RevenueCSV:   getEnv("ANALYTICS_REVENUE_CSV", filepath.Join(dataDir, "revenue_segmentation.csv")),
			RetentionCSV: getEnv("ANALYTICS_RETENTION_CSV", filepath.Join(dataDir, "retention_rate.csv")),
			ExcelFile:    getEnv("ANALYTICS_EXCEL_FILE", ""),
		},
		Projection: ProjectionConfig{
			HorizonDays: getEnvInt("ANALYTICS_PROJECTION_HORIZON", survival.DefaultHorizon),
		},
	}
	return cfg
}

// CSVFiles returns the table-name to file-path mapping for the CSV source.
func (c *Config) CSVFiles() map[string]string {
	return map[string]string{
		ports.TableRevenue:   c.Data.RevenueCSV,
		ports.TableRetention: c.Data.RetentionCSV,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
