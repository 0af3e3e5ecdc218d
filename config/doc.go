// Package config loads term-library runs from YAML.
//
// A run file names the complexity budget and, optionally, the observables,
// the caps on observables and operators per term, the worker count and the
// log level:
//
//	complexity: 4
//	observables:
//	  - {name: rho, rank: 0}
//	  - {name: v, rank: 1}
//	max_rho: 2
//	workers: 4
//	log_level: debug
//
// Parse and Load decode strictly (unknown keys are rejected) and validate
// with go-playground/validator. Options converts a Config into library
// options; Generate runs it.
package config
