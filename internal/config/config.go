package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"connmat/domain/mats"
	"connmat/domain/stack"
	"connmat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline mats.Options
	Database DatabaseConfig
	Export   ExportConfig
}

// DatabaseConfig holds the optional run-ledger connection settings
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// ExportConfig holds workbook export settings
type ExportConfig struct {
	Path    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pipeline, err := loadPipelineConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load pipeline configuration")
	}

	cfg := &Config{
		Pipeline: pipeline,
		Database: DatabaseConfig{
			URL:     os.Getenv("CONNMAT_DATABASE_URL"),
			Enabled: os.Getenv("CONNMAT_DATABASE_URL") != "",
		},
		Export: ExportConfig{
			Path:    getEnv("CONNMAT_EXPORT_PATH", ""),
			Enabled: os.Getenv("CONNMAT_EXPORT_PATH") != "",
		},
	}
	return cfg, nil
}

// loadPipelineConfig assembles the pipeline options from environment
// variables, starting from the documented defaults.
func loadPipelineConfig() (mats.Options, error) {
	opts := mats.DefaultOptions()

	var err error
	if v := os.Getenv("CONNMAT_MODALITY"); v != "" {
		if opts.Modality, err = mats.ParseModality(v); err != nil {
			return opts, errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	if v := os.Getenv("CONNMAT_DIVISOR"); v != "" {
		if opts.Divisor, err = mats.ParseDivisor(v); err != nil {
			return opts, errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	if v := os.Getenv("CONNMAT_THRESHOLD_BY"); v != "" {
		if opts.Strategy, err = mats.ParseStrategy(v); err != nil {
			return opts, errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	if v := os.Getenv("CONNMAT_ALGO"); v != "" {
		if opts.Algo, err = mats.ParseAlgo(v); err != nil {
			return opts, errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	if v := os.Getenv("CONNMAT_SYMM_BY"); v != "" {
		if opts.SymmetrizeBy, err = stack.ParseSymmetrizeMode(v); err != nil {
			return opts, errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	if v := os.Getenv("CONNMAT_MAT_THRESH"); v != "" {
		if opts.Thresholds, err = parseFloatList(v); err != nil {
			return opts, errors.Wrapf(err, "invalid CONNMAT_MAT_THRESH %q", v)
		}
	}
	if v := os.Getenv("CONNMAT_SUB_THRESH"); v != "" {
		if opts.SubThresh, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.Wrapf(err, "invalid CONNMAT_SUB_THRESH %q", v)
		}
	}
	if v := os.Getenv("CONNMAT_SAMPLES"); v != "" {
		if opts.Samples, err = strconv.Atoi(v); err != nil {
			return opts, errors.Wrapf(err, "invalid CONNMAT_SAMPLES %q", v)
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return opts, nil
}

// parseFloatList parses a comma-separated list of threshold values
func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// getEnv returns the environment value or a default
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
