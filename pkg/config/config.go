package config

import (
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Dirs          DirConfig
	Schedule      ScheduleConfig
	Observability ObservabilityConfig
}

// DirConfig names the directories of the statement lifecycle: inbound
// PDFs wait in Pending, outputs land in XML/JSON/CSV, and processed
// source files are moved to Parsed.
type DirConfig struct {
	Pending string
	Parsed  string
	XML     string
	JSON    string
	CSV     string
}

// ScheduleConfig controls watch mode, where the pending directory is
// swept on a cron expression instead of once.
type ScheduleConfig struct {
	CronExpr string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Dirs: DirConfig{
			Pending: getEnv("PENDING_DIR", "PDFs_Pending"),
			Parsed:  getEnv("PARSED_DIR", "PDFs_Parsed"),
			XML:     getEnv("XML_DIR", "XML"),
			JSON:    getEnv("JSON_DIR", "JSON"),
			CSV:     getEnv("CSV_DIR", "CSV"),
		},
		Schedule: ScheduleConfig{
			CronExpr: getEnv("SWEEP_SCHEDULE", "*/5 * * * *"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", false),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
