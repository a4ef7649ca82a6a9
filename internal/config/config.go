package config

import (
	"os"
	"strconv"

	"statfit/internal/errors"
)

// DefaultSurveyURL points at the hosted election-survey extract used by the
// logistic analysis. Overridable for mirrors and tests via SURVEY_URL.
const DefaultSurveyURL = "https://raw.githubusercontent.com/statfit/datasets/main/election_survey.csv"

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Report ReportConfig
}

// DataConfig holds dataset source settings
type DataConfig struct {
	SurveyURL string
}

// ReportConfig holds report output settings
type ReportConfig struct {
	Dir        string
	Confidence float64
	WriteHTML  bool
	WriteXLSX  bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			SurveyURL: getEnvOrDefault("SURVEY_URL", DefaultSurveyURL),
		},
		Report: ReportConfig{
			Dir:        getEnvOrDefault("REPORT_DIR", "report"),
			Confidence: getEnvFloatOrDefault("CONFIDENCE_LEVEL", 0.95),
			WriteHTML:  getEnvBoolOrDefault("REPORT_HTML", true),
			WriteXLSX:  getEnvBoolOrDefault("REPORT_XLSX", true),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.SurveyURL == "" {
		return errors.ConfigInvalid("survey dataset URL is required")
	}
	if config.Report.Confidence <= 0 || config.Report.Confidence >= 1 {
		return errors.ConfigInvalid("CONFIDENCE_LEVEL must be strictly between 0 and 1")
	}
	if config.Report.Dir == "" {
		return errors.ConfigInvalid("report directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
