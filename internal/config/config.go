// Package config loads the sprout configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-backed configuration. CLI flags override it.
type Config struct {
	// LedgerURL is the JSON-RPC endpoint of the ledger node.
	LedgerURL string `yaml:"ledger_url"`
	// ProgramID is the base58 address of the badge program expected to
	// own every derived resource account.
	ProgramID string `yaml:"program_id"`
	// MinBalance is the lamport funding threshold for the root account.
	MinBalance uint64 `yaml:"min_balance"`

	ProbeTimeout Duration `yaml:"probe_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`

	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`

	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LedgerURL:    "http://127.0.0.1:8899",
		MinBalance:   1_000_000,
		ProbeTimeout: Duration(15 * time.Second),
		WriteTimeout: Duration(90 * time.Second),
		RedisPrefix:  "sprout:session:",
		Port:         "8080",
		LogLevel:     "info",
	}
}

// Load reads the YAML file at path, layered over defaults. A missing file
// is not an error: defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Duration accepts "15s" style values in YAML, which time.Duration alone
// does not.
type Duration time.Duration

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.Std().String(), nil
}

// SlogLevel maps the configured level name to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
