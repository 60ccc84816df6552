package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. KEYBEAR_OUTPUT_FORMAT.
const EnvPrefix = "KEYBEAR"

type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type OutputConfig struct {
	// Format is text, json or yaml.
	Format string `mapstructure:"format"`
	// PSK adds the hex WPA pre-shared key next to each passphrase.
	PSK bool `mapstructure:"psk"`
	// History is the JSON history file; empty disables history.
	History string `mapstructure:"history"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:  "text",
			History: DefaultHistoryPath(),
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultHistoryPath is history.json under the user config directory, or
// empty when the platform has none.
func DefaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keybear", "history.json")
}

// SetDefaults registers DefaultConfig values on v so file, env and flag
// layers override them key by key.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.psk", d.Output.PSK)
	v.SetDefault("output.history", d.Output.History)
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load overlays the optional config file at path and KEYBEAR_* variables
// on the defaults. Flags bound to v before the call take precedence.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Output.Format) {
	case "text", "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("output.format: %q is not text, json or yaml", c.Output.Format))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers: must be positive, got %d", c.Batch.Workers))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: %q is not console or json", c.Logging.Format))
	}
	return errors.Join(errs...)
}
