package genalgebra

import "github.com/funvibe/funql/internal/ast"

// Result is one inversion's outcome: a Generator together with an
// ordered list of residual filter expressions still to be evaluated
// at runtime. The list is empty iff the inversion is total.
type Result struct {
	Generator Generator
	Residuals []ast.Expression
}

// Total reports whether r needs no runtime residual filtering.
func (r Result) Total() bool { return len(r.Residuals) == 0 }

// WithResidual appends cond to r's residual list (if non-nil) and
// keeps the Generator's own Residual field in sync; the two are
// maintained in lockstep everywhere.
func (r Result) WithResidual(cond ast.Expression) Result {
	if cond == nil {
		return r
	}
	r.Residuals = append(r.Residuals, cond)
	r.Generator = r.Generator.WithResidual(cond)
	return r
}

// NewTotal builds a Result with no residual.
func NewTotal(g Generator) Result {
	return Result{Generator: g}
}
