// Package invert is the single public façade the rest of the compiler
// calls, total and exception-free, wiring together internal/atomic,
// internal/recursive (via internal/registry), and internal/combinator,
// with an internal/trace session recording the call stack so tests
// can assert no user function is ever inverted reentrantly.
package invert

import (
	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/atomic"
	"github.com/funvibe/funql/internal/combinator"
	"github.com/funvibe/funql/internal/config"
	"github.com/funvibe/funql/internal/env"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/registry"
	"github.com/funvibe/funql/internal/simplifier"
	"github.com/funvibe/funql/internal/trace"
	"github.com/funvibe/funql/internal/types"
)

// InversionResult is the top-level output of Invert: one Generator
// per requested goal variable plus the combined residual.
type InversionResult struct {
	Generators map[string]genalgebra.Generator
	Residual   ast.Expression
	Total      bool
}

// Invert is the public entry point. predicate is the Boolean
// expression to invert; goalVars are the free variables the caller
// needs a generator for (e.g. the pattern variables of a `from p
// where P(p)` query); scope supplies generators already available for
// any other free variable of predicate; reg is the compile-time
// function registry, already fully populated.
//
// Invert never panics and never returns an error: on any decline it
// falls back to the Cartesian product of each goal variable's
// in-scope generator with the whole predicate as residual, unless
// config.StrictFallback is set, in which case a fallback panics
// instead — a development aid only.
func Invert(predicate ast.Expression, goalVars []string, goalTypes map[string]types.Type, scope *env.Scope, reg *registry.Registry) InversionResult {
	session := trace.NewSession()
	result, ok := tryInvert(predicate, goalVars, goalTypes, scope, reg, session)
	if ok {
		return result
	}
	return fallback(predicate, goalVars, goalTypes, scope)
}

func tryInvert(predicate ast.Expression, goalVars []string, goalTypes map[string]types.Type, scope *env.Scope, reg *registry.Registry, session *trace.Session) (InversionResult, bool) {
	predicate = simplifier.Simplify(predicate)

	// Case expressions are never inverted.
	if containsCase(predicate) {
		return InversionResult{}, false
	}

	if or, ok := predicate.(*ast.OrElse); ok {
		return tryDisjunction(or, goalVars, goalTypes, scope, reg, session)
	}

	conjuncts := ast.Conjuncts(predicate)

	// A call to a Recursive function only inverts as a whole tuple,
	// never one goal variable at a time.
	// Recognize that shape up front, before the per-goal-var Conjunction
	// pass below — which calls invertOne once per variable and so can
	// never satisfy InvertCall's whole-tuple precondition.
	if len(conjuncts) == 1 {
		if result, ok := tryRecursiveWholeTuple(conjuncts[0], goalVars, reg, session); ok {
			return result, true
		}
	}

	// The shared-variable join special case: exactly two relation
	// conjuncts sharing one variable (edge(x,z) andalso next(z,y))
	// become a nested scan with a where-equality. Like the recursive
	// whole-tuple case above, this covers all goal variables at once
	// and so must run before the per-goal-var pass.
	if len(conjuncts) == 2 {
		if result, ok := trySharedJoin(conjuncts, goalVars, reg); ok {
			return result, true
		}
	}

	// bound grows as each goal variable's pass produces it; scopeVars
	// stays the outer-scope set so the combinator can tell a filter on
	// scope-supplied values from a fellow goal variable's producer.
	bound := scope.Bound()
	scopeVars := scope.Bound()
	generators := make(map[string]genalgebra.Generator, len(goalVars))
	var residual ast.Expression
	total := true

	invertOne := makeInvertOne(reg, session, scope)

	for _, gv := range goalVars {
		gt := goalTypes[gv]
		r, ok := combinator.Conjunction(conjuncts, gv, gt, bound, scopeVars, invertOne)
		if !ok {
			return InversionResult{}, false
		}
		generators[gv] = r.Generator
		bound[gv] = true
		if !r.Total() {
			total = false
			if residual == nil {
				residual = r.Generator.Residual
			} else {
				residual = &ast.AndAlso{Left: residual, Right: r.Generator.Residual}
			}
		}
	}

	return InversionResult{Generators: generators, Residual: residual, Total: total}, true
}

func tryDisjunction(or *ast.OrElse, goalVars []string, goalTypes map[string]types.Type, scope *env.Scope, reg *registry.Registry, session *trace.Session) (InversionResult, bool) {
	left, leftOK := tryInvert(or.Left, goalVars, goalTypes, scope, reg, session)
	right, rightOK := tryInvert(or.Right, goalVars, goalTypes, scope, reg, session)
	if !leftOK || !rightOK {
		return InversionResult{}, false
	}
	merged := make(map[string]genalgebra.Generator, len(goalVars))
	allTotal := true
	var residual ast.Expression
	for _, gv := range goalVars {
		extent := genalgebra.ExtentOf(gv, goalTypes[gv])
		res := combinator.Disjunction(resultOf(left.Generators[gv]), resultOf(right.Generators[gv]), gv, or, extent)
		merged[gv] = res.Generator
		if !res.Total() {
			allTotal = false
			if residual == nil {
				residual = res.Generator.Residual
			} else {
				residual = &ast.AndAlso{Left: residual, Right: res.Generator.Residual}
			}
		}
	}
	return InversionResult{Generators: merged, Residual: residual, Total: allTotal}, true
}

// resultOf wraps an already-built Generator as a Result without
// re-attaching its Residual (WithResidual would AndAlso it onto
// itself); the residual list mirrors the generator's own field.
func resultOf(g genalgebra.Generator) genalgebra.Result {
	r := genalgebra.Result{Generator: g}
	if g.Residual != nil {
		r.Residuals = []ast.Expression{g.Residual}
	}
	return r
}

// tryRecursiveWholeTuple recognizes call as a call to a Recursive
// registry entry whose producible variables are exactly goalVars (as
// a set), and if so inverts it in one InvertCall rather than through
// the per-goal-var Conjunction pass.
func tryRecursiveWholeTuple(call ast.Expression, goalVars []string, reg *registry.Registry, session *trace.Session) (InversionResult, bool) {
	app, ok := call.(*ast.Application)
	if !ok {
		return InversionResult{}, false
	}
	id, ok := app.Func.(*ast.Identifier)
	if !ok {
		return InversionResult{}, false
	}
	entry, ok := reg.Lookup(id.Name)
	if !ok || entry.Status != registry.Recursive {
		return InversionResult{}, false
	}
	if !sameVarSet(entry.Producible, goalVars) {
		return InversionResult{}, false
	}

	leave := session.Enter(id.Name)
	defer leave()
	if !session.NoSelfCallOnStack() {
		return InversionResult{}, false
	}

	r, ok := entry.Recursion.InvertCall(goalVars)
	if !ok {
		return InversionResult{}, false
	}
	generators := make(map[string]genalgebra.Generator, len(goalVars))
	for _, gv := range goalVars {
		generators[gv] = r.Generator
	}
	return InversionResult{Generators: generators, Residual: r.Generator.Residual, Total: r.Total()}, true
}

// trySharedJoin resolves both conjuncts to relation generators over
// their call-site argument identifiers and hands them to
// combinator.SharedScanJoin. A conjunct resolves if it is either a
// call to an Invertible registry entry with an identifier-tuple
// argument, or a direct "tuple-of-identifiers elem L" membership test.
func trySharedJoin(conjuncts []ast.Expression, goalVars []string, reg *registry.Registry) (InversionResult, bool) {
	left, ok := relConjunctOf(conjuncts[0], reg)
	if !ok {
		return InversionResult{}, false
	}
	right, ok := relConjunctOf(conjuncts[1], reg)
	if !ok {
		return InversionResult{}, false
	}
	r, ok := combinator.SharedScanJoin(left, right, goalVars)
	if !ok {
		return InversionResult{}, false
	}
	generators := make(map[string]genalgebra.Generator, len(goalVars))
	for _, gv := range goalVars {
		generators[gv] = r.Generator
	}
	return InversionResult{Generators: generators, Residual: r.Generator.Residual, Total: r.Total()}, true
}

func relConjunctOf(c ast.Expression, reg *registry.Registry) (combinator.RelConjunct, bool) {
	switch n := c.(type) {
	case *ast.Application:
		id, ok := n.Func.(*ast.Identifier)
		if !ok {
			return combinator.RelConjunct{}, false
		}
		entry, ok := reg.Lookup(id.Name)
		if !ok || entry.Status != registry.Invertible {
			return combinator.RelConjunct{}, false
		}
		args, ok := identTuple(n.Arg)
		if !ok || len(args) != len(entry.Producible) {
			return combinator.RelConjunct{}, false
		}
		return combinator.RelConjunct{Gen: entry.Base.WithProduced(identKeys(args)), Args: args}, true
	case *ast.BinOp:
		if n.Op != "elem" {
			return combinator.RelConjunct{}, false
		}
		args, ok := identTuple(n.Left)
		if !ok {
			return combinator.RelConjunct{}, false
		}
		keys := identKeys(args)
		g := genalgebra.NewFinite(n.Right, keys)
		for _, f := range g.Free {
			for _, k := range keys {
				if f == k {
					return combinator.RelConjunct{}, false
				}
			}
		}
		return combinator.RelConjunct{Gen: g, Args: args}, true
	}
	return combinator.RelConjunct{}, false
}

func identTuple(e ast.Expression) ([]*ast.Identifier, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		return []*ast.Identifier{n}, true
	case *ast.TupleExpr:
		out := make([]*ast.Identifier, len(n.Elements))
		for i, el := range n.Elements {
			id, ok := el.(*ast.Identifier)
			if !ok {
				return nil, false
			}
			out[i] = id
		}
		return out, true
	}
	return nil, false
}

func identKeys(ids []*ast.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Key()
	}
	return out
}

func sameVarSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}

// makeInvertOne builds the combinator.InvertOne callback: try a
// user-function call against the registry first (Invertible direct,
// Recursive via iterate), otherwise fall through to the built-in
// atomic dispatch table.
func makeInvertOne(reg *registry.Registry, session *trace.Session, scope *env.Scope) combinator.InvertOne {
	return func(call ast.Expression, goalVar string) (genalgebra.Result, bool) {
		if app, ok := call.(*ast.Application); ok {
			if id, ok := app.Func.(*ast.Identifier); ok {
				if entry, ok := reg.Lookup(id.Name); ok {
					switch entry.Status {
					case registry.Recursive:
						leave := session.Enter(id.Name)
						defer leave()
						if !session.NoSelfCallOnStack() {
							return genalgebra.Result{}, false
						}
						return entry.Recursion.InvertCall([]string{goalVar})
					case registry.Invertible:
						// The cached base generator is recorded against the
						// function's formal parameter names; rebind it to
						// the call site's own argument variables.
						args, ok := identTuple(app.Arg)
						if !ok || len(args) != len(entry.Producible) {
							return genalgebra.Result{}, false
						}
						keys := identKeys(args)
						for _, k := range keys {
							if k == goalVar {
								return genalgebra.NewTotal(entry.Base.WithProduced(keys)), true
							}
						}
						return genalgebra.Result{}, false
					default:
						return genalgebra.Result{}, false
					}
				}
			}
		}
		return atomic.Invert(call, goalVar, scope)
	}
}

// fallback is the always-available default: the Cartesian product of
// every goal variable's in-scope generator
// (usually the type extent, unless an outer scan already narrowed it),
// with the original (unsimplified-for-this-purpose) predicate as one
// residual filter.
func fallback(predicate ast.Expression, goalVars []string, goalTypes map[string]types.Type, scope *env.Scope) InversionResult {
	if config.StrictFallback {
		panic("invert: predicate declined inversion and fell back to Cartesian product")
	}
	generators := make(map[string]genalgebra.Generator, len(goalVars))
	for _, gv := range goalVars {
		if g, ok := scope.Lookup(gv); ok {
			generators[gv] = g
			continue
		}
		generators[gv] = genalgebra.ExtentOf(gv, goalTypes[gv])
	}
	return InversionResult{Generators: generators, Residual: predicate, Total: false}
}

func containsCase(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.Case:
		return true
	case *ast.AndAlso:
		return containsCase(n.Left) || containsCase(n.Right)
	case *ast.OrElse:
		return containsCase(n.Left) || containsCase(n.Right)
	default:
		return false
	}
}
