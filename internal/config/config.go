package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teemow/gdocs/internal/google"
)

// Defaults.
const (
	DefaultExportMimeType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	DefaultValueInputOption = "RAW"
	DefaultMetricsAddr      = ":9090"
)

// Config is the content of the config file.
type Config struct {
	// ServiceAccountFile is the service-account key used when no explicit
	// credentials are passed.
	ServiceAccountFile string `toml:"service_account_file"`

	// ExportMimeType is the default target type of document exports.
	ExportMimeType string `toml:"export_mime_type"`

	// ValueInputOption is the default for spreadsheet writes: RAW or USER_ENTERED.
	ValueInputOption string `toml:"value_input_option"`

	Metrics MetricsConfig `toml:"metrics"`
}

// MetricsConfig controls the Prometheus metrics server of `gdocs serve`.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		ExportMimeType:   DefaultExportMimeType,
		ValueInputOption: DefaultValueInputOption,
		Metrics: MetricsConfig{
			Addr: DefaultMetricsAddr,
		},
	}
}

// Validate checks the config for values the rest of the program cannot use.
func Validate(cfg *Config) error {
	var errs []error

	switch strings.ToUpper(cfg.ValueInputOption) {
	case "RAW", "USER_ENTERED":
	default:
		errs = append(errs, fmt.Errorf("value_input_option: must be RAW or USER_ENTERED, got %q", cfg.ValueInputOption))
	}

	if !strings.Contains(cfg.ExportMimeType, "/") {
		errs = append(errs, fmt.Errorf("export_mime_type: %q is not a mime type", cfg.ExportMimeType))
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics.addr: required when metrics are enabled"))
	}

	return errors.Join(errs...)
}

// Resolved is the effective configuration after all layers are applied.
type Resolved struct {
	Config

	// ConfigPath is the config file that was considered, whether or not it exists.
	ConfigPath string

	// CredentialsOverride is the key file passed on the command line.
	CredentialsOverride string
}

// CredentialSource returns the credential precedence chain for these settings.
func (r *Resolved) CredentialSource() google.CredentialSource {
	return google.CredentialSource{
		Override: r.CredentialsOverride,
		File:     r.ServiceAccountFile,
	}
}
