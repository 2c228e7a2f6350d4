// Package config loads the research CLI configuration from an optional YAML
// file and applies defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/researchmesh/logging"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "research.yaml"

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the research CLI configuration.
type Config struct {
	// Provider selects the model backend. Empty infers it from Model.
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
	BaseURL     string  `yaml:"base_url"`

	KeepLast           int  `yaml:"keep_last"`
	SummarizeThreshold int  `yaml:"summarize_threshold"`
	DisableWebSearch   bool `yaml:"disable_web_search"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Model:              "gpt-4o",
		Temperature:        0.7,
		MaxTokens:          4096,
		KeepLast:           2,
		SummarizeThreshold: 5000,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load reads research.yaml from the working directory. A missing file
// yields the defaults.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get working directory: %w", err)
	}

	cfg, err := LoadFile(filepath.Join(wd, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// LoadFile reads path on top of the defaults. Fields present in the YAML
// override the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error loading config %s: %w", path, err)
	}

	return cfg, nil
}

// ResolvedProvider returns Provider, or the provider inferred from the model
// name ("claude*" models are Anthropic, everything else OpenAI).
func (c *Config) ResolvedProvider() string {
	if c.Provider != "" {
		return strings.ToLower(c.Provider)
	}
	if strings.HasPrefix(strings.ToLower(c.Model), "claude") {
		return ProviderAnthropic
	}
	return ProviderOpenAI
}

// Validate rejects unknown providers, levels and formats and negative
// numbers.
func (c *Config) Validate() error {
	var errs []error

	switch c.ResolvedProvider() {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}

	if c.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if c.Temperature < 0 {
		errs = append(errs, fmt.Errorf("temperature must not be negative, got %v", c.Temperature))
	}
	if c.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("max_tokens must not be negative, got %d", c.MaxTokens))
	}
	if c.KeepLast < 0 {
		errs = append(errs, fmt.Errorf("keep_last must not be negative, got %d", c.KeepLast))
	}
	if c.SummarizeThreshold <= 0 {
		errs = append(errs, fmt.Errorf("summarize_threshold must be positive, got %d", c.SummarizeThreshold))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// LoggerConfig maps the log settings onto a logging.LoggerConfig writing to
// out.
func (c *Config) LoggerConfig(out io.Writer) *logging.LoggerConfig {
	level, _ := logging.ParseLevel(c.LogLevel)

	format := c.LogFormat
	if format == "" {
		format = "text"
	}

	return &logging.LoggerConfig{Level: level, Format: format, Output: out}
}
