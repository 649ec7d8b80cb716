// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/report"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Unlisted manufacturer ordering policies.
const (
	UnlistedAlphabetical = "alphabetical"
	UnlistedFirstSeen    = "first_seen"
	UnlistedOther        = "other"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Input struct {
		SkipRows int    `mapstructure:"skip_rows" yaml:"skip_rows"`
		Sheet    string `mapstructure:"sheet" yaml:"sheet"`
	} `mapstructure:"input" yaml:"input"`

	Manufacturers struct {
		Priority      []string `mapstructure:"priority" yaml:"priority"`
		UnlistedOrder string   `mapstructure:"unlisted_order" yaml:"unlisted_order"`
		OtherLabel    string   `mapstructure:"other_label" yaml:"other_label"`
	} `mapstructure:"manufacturers" yaml:"manufacturers"`

	Classification struct {
		PermanentLower float64 `mapstructure:"permanent_lower" yaml:"permanent_lower"`
		PermanentUpper float64 `mapstructure:"permanent_upper" yaml:"permanent_upper"`
		Tolerance      float64 `mapstructure:"tolerance" yaml:"tolerance"`
	} `mapstructure:"classification" yaml:"classification"`

	Document struct {
		OpeningTemplate string `mapstructure:"opening_template" yaml:"opening_template"`
	} `mapstructure:"document" yaml:"document"`

	History struct {
		File   string `mapstructure:"file" yaml:"file"`
		Update bool   `mapstructure:"update" yaml:"update"`
	} `mapstructure:"history" yaml:"history"`

	Output struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
		WriteCSV  bool   `mapstructure:"write_csv" yaml:"write_csv"`
	} `mapstructure:"output" yaml:"output"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// When configFile is non-empty it is read instead of searching the default locations.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.tbs-price-summary")
		v.AddConfigPath(".tbs-price-summary")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("TBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless explicitly requested)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// LOG_LEVEL is honoured without prefix, as main sets it up before config loads
	if err := v.BindEnv("log.level", "TBS_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level environment variable: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Unmarshalling defaults into the struct cannot fail.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("input.skip_rows", 6)
	v.SetDefault("input.sheet", "")

	v.SetDefault("manufacturers.priority", []string{"LABATT", "MOLSON", "SLEEMAN"})
	v.SetDefault("manufacturers.unlisted_order", UnlistedAlphabetical)
	v.SetDefault("manufacturers.other_label", "OTHER")

	v.SetDefault("classification.permanent_lower", 96.0)
	v.SetDefault("classification.permanent_upper", 104.0)
	v.SetDefault("classification.tolerance", 0.01)

	v.SetDefault("document.opening_template", report.DefaultOpeningTemplate)

	v.SetDefault("history.file", "")
	v.SetDefault("history.update", false)

	v.SetDefault("output.directory", "")
	v.SetDefault("output.write_csv", false)

	v.SetDefault("batch.workers", 4)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Input.SkipRows < 0 {
		return fmt.Errorf("input.skip_rows must not be negative, got: %d", config.Input.SkipRows)
	}

	switch config.Manufacturers.UnlistedOrder {
	case UnlistedAlphabetical, UnlistedFirstSeen, UnlistedOther:
	default:
		return fmt.Errorf("manufacturers.unlisted_order must be one of %s, %s, %s, got: %s",
			UnlistedAlphabetical, UnlistedFirstSeen, UnlistedOther, config.Manufacturers.UnlistedOrder)
	}

	if config.Manufacturers.UnlistedOrder == UnlistedOther && strings.TrimSpace(config.Manufacturers.OtherLabel) == "" {
		return fmt.Errorf("manufacturers.other_label is required when unlisted_order is %s", UnlistedOther)
	}

	lower, upper := config.Classification.PermanentLower, config.Classification.PermanentUpper
	if lower <= 0 || upper <= 0 || lower > 100 || upper < 100 {
		return fmt.Errorf("classification band must satisfy 0 < permanent_lower <= 100 <= permanent_upper, got: %v..%v", lower, upper)
	}

	if config.Classification.Tolerance < 0 {
		return fmt.Errorf("classification.tolerance must not be negative, got: %v", config.Classification.Tolerance)
	}

	if strings.TrimSpace(config.Document.OpeningTemplate) == "" {
		return fmt.Errorf("document.opening_template must not be empty")
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	return nil
}

// PermanentBand returns the inclusive permanent-change band as decimals.
func (c *Config) PermanentBand() (decimal.Decimal, decimal.Decimal) {
	return decimal.NewFromFloat(c.Classification.PermanentLower), decimal.NewFromFloat(c.Classification.PermanentUpper)
}

// ToleranceDecimal returns the price comparison tolerance as a decimal.
func (c *Config) ToleranceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Classification.Tolerance)
}

// ConfigureLoggingFromConfig returns a logrus logger set up from log.level and log.format.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrusLogger(config.Log.Level, config.Log.Format, nil)
}
