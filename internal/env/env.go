// Package env is the minimal environment abstraction the inverter
// consumes: a read-only map from in-scope variable identity to the
// Generator already computed for it. The inverter only ever consults
// it for the variables the caller passes as in scope.
package env

import "github.com/funvibe/funql/internal/genalgebra"

// Scope is the in-scope generator map passed into
// internal/invert.Invert.
type Scope struct {
	generators map[string]genalgebra.Generator
}

// New builds an empty Scope.
func New() *Scope {
	return &Scope{generators: make(map[string]genalgebra.Generator)}
}

// Bind records that varKey already has generator g available in
// scope (e.g. a previously-processed scan step, or a goal variable
// whose only known generator is its type's Infinite extent).
func (s *Scope) Bind(varKey string, g genalgebra.Generator) *Scope {
	s.generators[varKey] = g
	return s
}

// Lookup returns the Generator bound to varKey, if any.
func (s *Scope) Lookup(varKey string) (genalgebra.Generator, bool) {
	g, ok := s.generators[varKey]
	return g, ok
}

// Bound reports which variable keys currently have a generator bound,
// as the set the conjunction combinator needs for its ordering pass.
func (s *Scope) Bound() map[string]bool {
	out := make(map[string]bool, len(s.generators))
	for k := range s.generators {
		out[k] = true
	}
	return out
}
