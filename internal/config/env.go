package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names for overrides.
const (
	EnvConfig           = "GDOCS_CONFIG"
	EnvValueInputOption = "GDOCS_VALUE_INPUT_OPTION"
	EnvExportMimeType   = "GDOCS_EXPORT_MIME_TYPE"
	EnvMetricsEnabled   = "GDOCS_METRICS_ENABLED"
	EnvMetricsAddr      = "GDOCS_METRICS_ADDR"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath       string // GDOCS_CONFIG
	ValueInputOption string // GDOCS_VALUE_INPUT_OPTION
	ExportMimeType   string // GDOCS_EXPORT_MIME_TYPE
	MetricsEnabled   string // GDOCS_METRICS_ENABLED
	MetricsAddr      string // GDOCS_METRICS_ADDR
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:       os.Getenv(EnvConfig),
		ValueInputOption: os.Getenv(EnvValueInputOption),
		ExportMimeType:   os.Getenv(EnvExportMimeType),
		MetricsEnabled:   os.Getenv(EnvMetricsEnabled),
		MetricsAddr:      os.Getenv(EnvMetricsAddr),
	}
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are given. Variables already set in the environment win. Missing files are
// not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
