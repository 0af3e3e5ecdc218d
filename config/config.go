package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/spider/commons"
	"github.com/katalvlaran/spider/library"
)

// ErrInvalidConfig wraps every decoding and validation failure.
var ErrInvalidConfig = errors.New("config: invalid run configuration")

var validate = validator.New()

// Config describes one generation run.
type Config struct {
	// Complexity is the budget passed to the generator.
	Complexity int `yaml:"complexity" validate:"required,min=1"`

	// Observables replaces the default rho/v pair when non-empty.
	Observables []ObservableConfig `yaml:"observables" validate:"omitempty,unique=Name,dive"`

	// MaxObservables and MaxRho are optional caps per term.
	MaxObservables *int `yaml:"max_observables" validate:"omitempty,min=0"`
	MaxRho         *int `yaml:"max_rho" validate:"omitempty,min=0"`

	// Workers is the partition-level parallelism; 0 uses every CPU.
	Workers *int `yaml:"workers" validate:"omitempty,min=0"`

	// NoCache disables canonical-form memoization.
	NoCache bool `yaml:"no_cache"`

	// LogLevel enables logging to stderr at the given level.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// ObservableConfig is one field of the run.
type ObservableConfig struct {
	Name string `yaml:"name" validate:"required"`
	Rank int    `yaml:"rank" validate:"min=0,max=1"`
}

// Parse decodes and validates a YAML run description.
//
// Errors:
//   - ErrInvalidConfig - malformed YAML, unknown keys, or a failed rule.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("Parse: empty document: %w", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("Parse: %w: %v", ErrInvalidConfig, err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("Parse: %w: %v", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	return Parse(data)
}

// Options converts c into generator options. Logging goes to stderr.
func (c *Config) Options() []library.Option {
	return c.options(os.Stderr)
}

func (c *Config) options(logOut io.Writer) []library.Option {
	var opts []library.Option
	if len(c.Observables) > 0 {
		obs := make([]commons.Observable, len(c.Observables))
		for i, o := range c.Observables {
			obs[i] = commons.Observable{Name: o.Name, Rank: o.Rank}
		}
		opts = append(opts, library.WithObservables(obs...))
	}
	if c.MaxObservables != nil {
		opts = append(opts, library.WithMaxObservables(*c.MaxObservables))
	}
	if c.MaxRho != nil {
		opts = append(opts, library.WithMaxRho(*c.MaxRho))
	}
	if c.Workers != nil {
		opts = append(opts, library.WithWorkers(*c.Workers))
	}
	if c.NoCache {
		opts = append(opts, library.WithCache(nil))
	}
	if c.LogLevel != "" {
		var level slog.Level
		// oneof validation guarantees a known name
		_ = level.UnmarshalText([]byte(c.LogLevel))
		h := slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})
		opts = append(opts, library.WithLogger(slog.New(h)))
	}

	return opts
}

// Generate runs the generator described by c.
func (c *Config) Generate() ([]library.Term, error) {
	return library.GenerateTermsTo(c.Complexity, c.Options()...)
}
