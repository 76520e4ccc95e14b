package alloc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/poolkit/internal/logger"
	"github.com/joshuapare/poolkit/pool"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "POOLKIT"

// Config is the file/environment form of the allocator options.
type Config struct {
	Backing   string `envconfig:"BACKING"    yaml:"backing"`   // "heap" or "mmap"
	Trace     bool   `envconfig:"TRACE"      yaml:"trace"`     // debug record per operation
	Log       bool   `envconfig:"LOG"        yaml:"log"`       // enable logging to stderr
	LogLevel  string `envconfig:"LOG_LEVEL"  yaml:"logLevel"`  // debug, info, warn, error
	LogFormat string `envconfig:"LOG_FORMAT" yaml:"logFormat"` // text or json
}

// LoadConfig reads the YAML file at path, if path is non-empty, and then
// applies POOLKIT_* environment variables on top. Unknown YAML keys are
// rejected.
func LoadConfig(path string) (*Config, error) {
	var c Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every enumerated field holds a known value.
func (c *Config) Validate() error {
	if _, err := pool.ParseBacking(c.Backing); err != nil {
		return fmt.Errorf("invalid configuration: backing / %s_BACKING: %w", EnvPrefix, err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid configuration: logLevel / %s_LOG_LEVEL: %w", EnvPrefix, err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("invalid configuration: logFormat / %s_LOG_FORMAT: %w", EnvPrefix, err)
	}
	return nil
}

// Options converts the configuration into allocator options.
func (c *Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	backing, _ := pool.ParseBacking(c.Backing)
	level, _ := logger.ParseLevel(c.LogLevel)
	format, _ := logger.ParseFormat(c.LogFormat)

	return []Option{
		WithBacking(backing),
		WithTrace(c.Trace),
		WithLogger(logger.New(logger.Options{
			Enabled: c.Log,
			Format:  format,
			Level:   level,
		})),
	}, nil
}

// NewFromConfig creates an uninitialized allocator from c.
func NewFromConfig(c *Config) (*Allocator, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return New(opts...), nil
}
