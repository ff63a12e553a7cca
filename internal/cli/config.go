package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2webui/internal/emitter/webuiemitter"
)

// Config captures all inputs that influence a generation run after merging
// defaults, config file values, and CLI overrides.
type Config struct {
	Source     string
	OutputName string
	OutDir     string
	Timeout    time.Duration
	ConfigPath string
	Verbose    bool
}

func defaultConfig() Config {
	return Config{
		OutDir:  webuiemitter.DefaultOutDir,
		Timeout: 30 * time.Second,
	}
}

func (c *Config) normalize() {
	c.Source = strings.TrimSpace(c.Source)
	c.OutputName = strings.TrimSpace(c.OutputName)
	c.OutDir = strings.TrimSpace(c.OutDir)
}

func (c *Config) validate() error {
	if c.Source == "" {
		return newUsageError("a schema source (local path or http(s) URL) is required")
	}
	if c.Timeout < 0 {
		return newUsageError("--timeout must not be negative")
	}
	return nil
}

func applyFlagOverrides(flags *pflag.FlagSet, cfg *Config) error {
	if flags.Changed("out-dir") {
		value, err := flags.GetString("out-dir")
		if err != nil {
			return err
		}
		cfg.OutDir = strings.TrimSpace(value)
	}
	if flags.Changed("timeout") {
		value, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}
	return nil
}

func applyConfigFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		switch normalizeKey(key) {
		case "outdir":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.OutDir = str
		case "timeout":
			d, err := valueAsDuration(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Timeout = d
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Verbose = val
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}
	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", val)
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected duration string or seconds, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
