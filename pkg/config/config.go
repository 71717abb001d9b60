// Package config loads piihunter settings from defaults, a config file,
// the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment overrides, e.g. PIIHUNTER_TYPES.
const EnvPrefix = "PIIHUNTER"

// Config is the resolved scan configuration.
type Config struct {
	Types         string    `mapstructure:"types"`
	Path          string    `mapstructure:"path"`
	Output        string    `mapstructure:"output"`
	Format        string    `mapstructure:"format"`
	Workers       int       `mapstructure:"workers"`
	MaxFileSize   int64     `mapstructure:"max_file_size"`
	IncludeHidden bool      `mapstructure:"include_hidden"`
	Gitignore     bool      `mapstructure:"gitignore"`
	DB            string    `mapstructure:"db"`
	Color         string    `mapstructure:"color"`
	Log           LogConfig `mapstructure:"log"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"types":          "types",
	"path":           "path",
	"output":         "output",
	"format":         "format",
	"workers":        "workers",
	"max-file-size":  "max_file_size",
	"include-hidden": "include_hidden",
	"gitignore":      "gitignore",
	"db":             "db",
	"color":          "color",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// setDefaults registers every key so environment overrides apply.
func setDefaults(v *viper.Viper) {
	v.SetDefault("types", "")
	v.SetDefault("path", ".")
	v.SetDefault("output", "PII_Report.txt")
	v.SetDefault("format", "text")
	v.SetDefault("workers", 0)
	v.SetDefault("max_file_size", 0)
	v.SetDefault("include_hidden", false)
	v.SetDefault("gitignore", false)
	v.SetDefault("db", "")
	v.SetDefault("color", "auto")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// Load resolves the configuration. configPath names an explicit config
// file; when empty, piihunter.yaml is looked up in the working directory
// and $HOME/.piihunter. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("piihunter")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.piihunter")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks field values that the loaders cannot.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json", "sarif":
	default:
		return fmt.Errorf("invalid format: %s (must be text, json, or sarif)", c.Format)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode: %s (must be auto, always, or never)", c.Color)
	}

	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}

	if c.MaxFileSize < 0 {
		return fmt.Errorf("invalid max file size: %d", c.MaxFileSize)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Log.Format)
	}

	return nil
}
