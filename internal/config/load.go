package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// CLIOverrides holds values passed as command line flags.
type CLIOverrides struct {
	ConfigPath       string
	Credentials      string
	ValueInputOption string
	ExportMimeType   string
}

// Load reads and parses a TOML config file and validates it. Unknown keys
// are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve applies defaults -> config file -> environment -> CLI flags and
// returns the validated result.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}
	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	if env.ValueInputOption != "" {
		cfg.ValueInputOption = env.ValueInputOption
	}
	if env.ExportMimeType != "" {
		cfg.ExportMimeType = env.ExportMimeType
	}
	if env.MetricsEnabled != "" {
		enabled, err := strconv.ParseBool(env.MetricsEnabled)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMetricsEnabled, err)
		}
		cfg.Metrics.Enabled = enabled
	}
	if env.MetricsAddr != "" {
		cfg.Metrics.Addr = env.MetricsAddr
	}

	if cli.ValueInputOption != "" {
		cfg.ValueInputOption = cli.ValueInputOption
	}
	if cli.ExportMimeType != "" {
		cfg.ExportMimeType = cli.ExportMimeType
	}

	cfg.ValueInputOption = strings.ToUpper(cfg.ValueInputOption)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &Resolved{
		Config:              *cfg,
		ConfigPath:          cfgPath,
		CredentialsOverride: cli.Credentials,
	}, nil
}
