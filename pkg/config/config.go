package config

import (
	"fmt"
	"strings"
	"time"

	"cmdprobe/pkg/log"
	"cmdprobe/pkg/model"
	"cmdprobe/pkg/system"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when it exists and no --config flag is given.
const DefaultFile = "./cmdprobe.yaml"

// Config holds the parsed cmdprobe configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Shell      string   `yaml:"shell"`      // defaults to sh
	Dir        string   `yaml:"dir"`        // working directory for commands
	RawTimeout string   `yaml:"timeout"`    // e.g. "30s"; empty waits forever
	StripANSI  *bool    `yaml:"strip_ansi"` // strip escape sequences from logged output, default true
	LogLevel   string   `yaml:"log_level"`
	Env        []string `yaml:"env"` // KEY=VALUE pairs added to the inherited environment
}

// Timeout returns the configured bounded wait, or zero for none.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// ShellOrDefault returns the configured shell or system.DefaultShell.
func (c *Config) ShellOrDefault() string {
	if c.Shell != "" {
		return c.Shell
	}
	return system.DefaultShell
}

// ShouldStripANSI reports whether logged output is stripped of escape sequences.
func (c *Config) ShouldStripANSI() bool {
	if c.StripANSI != nil {
		return *c.StripANSI
	}
	return true
}

// NewRunner builds a host-shell runner from the configuration.
func (c *Config) NewRunner(logger log.Logger) *system.LiveCommandRunner {
	return &system.LiveCommandRunner{
		Shell:   c.ShellOrDefault(),
		Dir:     c.Dir,
		Env:     c.Env,
		Timeout: c.Timeout(),
		Logger:  logger,
	}
}

func (c *Config) Validate() model.ValidationErrors {
	var errs model.ValidationErrors

	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err != nil {
			errs = append(errs, model.ValidationError{Field: "timeout", Message: fmt.Sprintf("invalid duration '%s'", c.RawTimeout)})
		} else if d < 0 {
			errs = append(errs, model.ValidationError{Field: "timeout", Message: "timeout cannot be negative"})
		}
	}

	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, model.ValidationError{Field: "log_level", Message: err.Error()})
		}
	}

	for i, kv := range c.Env {
		key, _, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			errs = append(errs, model.ValidationError{Field: fmt.Sprintf("env[%d]", i), Message: "entry must have the form KEY=VALUE"})
		}
	}

	return errs
}

// LoadConfig reads and validates a configuration file from system.AppFs.
func LoadConfig(filename string, logger log.Logger) (*Config, error) {
	f, err := afero.ReadFile(system.AppFs, filename)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logger.Debug("Loaded configuration", "file", filename, "shell", cfg.ShellOrDefault(), "timeout", cfg.Timeout())
	return &cfg, nil
}

// LoadOptional loads filename when it exists and returns the defaults otherwise.
func LoadOptional(filename string, logger log.Logger) (*Config, error) {
	exists, err := afero.Exists(system.AppFs, filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &Config{}, nil
	}
	return LoadConfig(filename, logger)
}

// validate returns the validation errors of v as an error, or nil when there are none.
func validate(v model.Validator) error {
	if errs := v.Validate(); len(errs) > 0 {
		return errs
	}
	return nil
}
