// Package config holds the inverter's small set of compile-time
// constants and test-mode toggles.
package config

// StrictFallback, when true, makes internal/invert.Invert panic
// instead of silently returning the Cartesian-product fallback. It
// exists purely as a development/test convenience for catching
// accidental fallbacks in fixtures that are supposed to invert
// cleanly; production callers always leave it false — Invert is total
// and never raises.
var StrictFallback = false

// IsTestMode is a test-mode flag for test binaries that want
// deterministic, normalized output. No package in this module
// currently reads it.
var IsTestMode = false

// Names of the two built-in combinators the inverter emits references
// to; the names and types are the contract with the evaluator.
const (
	TabulateName = "List.tabulate"
	IterateName  = "iterate"
)
