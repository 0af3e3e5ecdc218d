// SPDX-License-Identifier: MIT

// Package library: functional configuration for the term generator.
// This file defines:
//   - Option (functional option over an unexported generatorConfig),
//   - documented defaults (constants and the default observables),
//   - WithX constructors that panic on nonsensical values,
//   - gatherOptions, which applies options over the defaults.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Every option changes observable behavior and is covered by tests.
//   - Panic only on invalid parameters (programmer error); algorithms return
//     sentinel errors for everything else.
package library

import (
	"io"
	"log/slog"
	"runtime"
	"slices"

	"github.com/katalvlaran/spider/commons"
)

// ---------- Defaults (single source of truth) ----------

// Default observables: a scalar density and a vector velocity.
var (
	// Rho is the scalar density field.
	Rho = commons.Observable{Name: "rho", Rank: 0}

	// V is the vector velocity field.
	V = commons.Observable{Name: "v", Rank: 1}
)

const (
	// DefaultMaxObservables caps the observables per term. The default is
	// large enough to never bind in practice.
	DefaultMaxObservables = 999

	// DefaultMaxRho caps the coarse-graining operators per term.
	DefaultMaxRho = 999

	// DefaultWorkers runs generation on the calling goroutine.
	DefaultWorkers = 1
)

// complexityEpsilon absorbs float noise when comparing a tensor complexity
// against the integer budget.
const complexityEpsilon = 1e-9

// ---------- Internal panic messages ----------

const (
	panicMaxObservablesNegative = "library: WithMaxObservables: cap must be non-negative"
	panicMaxRhoNegative         = "library: WithMaxRho: cap must be non-negative"
	panicLoggerNil              = "library: WithLogger: logger must not be nil"
	panicWorkersNegative        = "library: WithWorkers: worker count must be non-negative"
)

// ---------- Option type ----------

// Option configures a Generator.
type Option func(*generatorConfig)

// generatorConfig is the resolved configuration of a Generator.
type generatorConfig struct {
	observables    []commons.Observable // [Rho, V]
	maxObservables int                  // DefaultMaxObservables
	maxRho         int                  // DefaultMaxRho
	cache          *Cache               // fresh per generator; nil disables memoization
	logger         *slog.Logger         // discards
	workers        int                  // DefaultWorkers
}

func defaultConfig() generatorConfig {
	return generatorConfig{
		observables:    []commons.Observable{Rho, V},
		maxObservables: DefaultMaxObservables,
		maxRho:         DefaultMaxRho,
		cache:          NewCache(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:        DefaultWorkers,
	}
}

func gatherOptions(opts ...Option) generatorConfig {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// ---------- Constructors (WithX) ----------

// WithObservables replaces the default field set. Order does not matter;
// the generator sorts its own copy. Ranks and duplicates are checked when
// generation starts.
func WithObservables(obs ...commons.Observable) Option {
	obs = slices.Clone(obs)

	return func(c *generatorConfig) { c.observables = obs }
}

// WithMaxObservables caps the total number of observables in one term.
// Panics if n < 0.
func WithMaxObservables(n int) Option {
	if n < 0 {
		panic(panicMaxObservablesNegative)
	}

	return func(c *generatorConfig) { c.maxObservables = n }
}

// WithMaxRho caps the number of coarse-graining operators (factors) in one
// term. Panics if n < 0.
func WithMaxRho(n int) Option {
	if n < 0 {
		panic(panicMaxRhoNegative)
	}

	return func(c *generatorConfig) { c.maxRho = n }
}

// WithCache shares a canonicalization cache with the generator, e.g. to keep
// Dt/Dx results of the generated terms consistent with generation, or to
// reuse work across runs. A nil cache disables memoization.
func WithCache(cache *Cache) Option {
	return func(c *generatorConfig) { c.cache = cache }
}

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(c *generatorConfig) { c.logger = l }
}

// WithWorkers sets how many admissible partitions are expanded concurrently.
// Zero selects runtime.GOMAXPROCS(0). Results are merged in partition order,
// so the output matches the sequential run. Panics if n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersNegative)
	}
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}

	return func(c *generatorConfig) { c.workers = n }
}
