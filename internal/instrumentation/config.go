package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Exporter names a telemetry backend.
type Exporter string

const (
	ExporterPrometheus Exporter = "prometheus"
	ExporterOTLP       Exporter = "otlp"
	ExporterStdout     Exporter = "stdout"
	ExporterNone       Exporter = "none"
)

// metricInterval is the push interval of the OTLP and stdout metric readers.
const metricInterval = 10 * time.Second

// Config selects what the Provider records and where it sends it.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// InstanceID defaults to the hostname.
	InstanceID string

	// Enabled turns metrics and tracing on. A disabled Provider hands out
	// a zero Metrics and leaves the global OpenTelemetry providers alone.
	Enabled bool

	Metrics Exporter
	Traces  Exporter

	// OTLPEndpoint is host:port of an OTLP/HTTP collector.
	OTLPEndpoint string
	OTLPInsecure bool

	// SampleRatio is the share of root traces kept, 0 to 1.
	SampleRatio float64

	// MimeTypeLabels labels export metrics by mime type.
	MimeTypeLabels bool

	Audit AuditConfig
}

// AuditConfig controls the audit records written for tool calls.
type AuditConfig struct {
	Enabled bool
	// IncludeIDs adds file and spreadsheet ids to each record.
	IncludeIDs bool
}

// DefaultConfig returns the built-in defaults: Prometheus metrics, no
// traces and audit records with ids.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "gdocs",
		ServiceVersion: "unknown",
		Enabled:        true,
		Metrics:        ExporterPrometheus,
		Traces:         ExporterNone,
		SampleRatio:    0.1,
		Audit:          AuditConfig{Enabled: true, IncludeIDs: true},
	}
}

// ConfigFromEnv returns DefaultConfig overlaid with the process environment.
func ConfigFromEnv() (Config, error) {
	c := DefaultConfig()
	err := c.ApplyEnv(os.LookupEnv)
	return c, err
}

// ApplyEnv overlays the variables found by lookup onto c. Unparsable values
// are reported together and leave the corresponding field unchanged.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	exporter := func(key string, dst *Exporter) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = Exporter(v)
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}

	str("OTEL_SERVICE_NAME", &c.ServiceName)
	str("OTEL_SERVICE_INSTANCE_ID", &c.InstanceID)
	boolean("INSTRUMENTATION_ENABLED", &c.Enabled)
	exporter("METRICS_EXPORTER", &c.Metrics)
	exporter("TRACING_EXPORTER", &c.Traces)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.OTLPEndpoint)
	boolean("OTEL_EXPORTER_OTLP_INSECURE", &c.OTLPInsecure)
	boolean("METRICS_DETAILED_LABELS", &c.MimeTypeLabels)
	boolean("AUDIT_LOGGING_ENABLED", &c.Audit.Enabled)
	boolean("AUDIT_LOGGING_INCLUDE_IDS", &c.Audit.IncludeIDs)

	if v, ok := lookup("OTEL_TRACES_SAMPLER_ARG"); ok && v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG: %w", err))
		} else {
			c.SampleRatio = ratio
		}
	}

	return errors.Join(errs...)
}

// Validate reports every inconsistency in c at once.
func (c Config) Validate() error {
	var errs []error

	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("trace sample ratio %g is outside [0, 1]", c.SampleRatio))
	}

	switch c.Metrics {
	case ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics exporter %q (want prometheus, otlp or stdout)", c.Metrics))
	}

	switch c.Traces {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		errs = append(errs, fmt.Errorf("unknown tracing exporter %q (want otlp, stdout or none)", c.Traces))
	}

	if c.OTLPEndpoint == "" && (c.Metrics == ExporterOTLP || c.Traces == ExporterOTLP) {
		errs = append(errs, errors.New("an OTLP exporter needs OTEL_EXPORTER_OTLP_ENDPOINT"))
	}

	return errors.Join(errs...)
}
