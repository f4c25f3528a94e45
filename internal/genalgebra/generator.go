// Package genalgebra defines the Generator value type returned by
// every inversion, and the cardinality lattice (Single ⊑ Finite ⊑
// Infinite) its combinators join over.
package genalgebra

import (
	"sort"

	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Cardinality classifies how many values a Generator's expression
// produces.
type Cardinality int

const (
	// Single: expression evaluates to exactly one value.
	Single Cardinality = iota
	// Finite: evaluates to a bag/list known finite per binding of the
	// free variables.
	Finite
	// Infinite: it is the type-extent of the produced variable(s).
	Infinite
)

func (c Cardinality) String() string {
	switch c {
	case Single:
		return "Single"
	case Finite:
		return "Finite"
	default:
		return "Infinite"
	}
}

// Join computes the lattice join of two cardinalities: Single ⊑
// Finite ⊑ Infinite.
func Join(a, b Cardinality) Cardinality {
	if a > b {
		return a
	}
	return b
}

// Generator is the inverter's central output record: an expression
// together with cardinality, residual constraint, and free-variable
// set.
type Generator struct {
	Expression ast.Expression
	Cardinality
	// Residual is the constraint still to be filtered at runtime, or
	// nil for the trivial `true`.
	Residual ast.Expression
	// Produced is the set of variable keys this generator's
	// Expression, once scanned, binds (the goal variables it serves).
	Produced []string
	// Free is the set of variable keys referenced by Expression that
	// are not among Produced.
	Free []string
}

// NewSingle constructs a Generator over exactly one value.
func NewSingle(expr ast.Expression, produced []string) Generator {
	return Generator{Expression: expr, Cardinality: Single, Produced: produced, Free: freeVarsOf(expr, produced)}
}

// NewFinite constructs a Generator whose expression is known finite per
// binding of its free variables.
func NewFinite(expr ast.Expression, produced []string) Generator {
	return Generator{Expression: expr, Cardinality: Finite, Produced: produced, Free: freeVarsOf(expr, produced)}
}

// NewInfinite constructs a Generator whose expression, extent, is the
// type-extent of the produced variable(s).
func NewInfinite(extent ast.Expression, produced []string) Generator {
	return Generator{Expression: extent, Cardinality: Infinite, Produced: produced, Free: freeVarsOf(extent, produced)}
}

// WithResidual attaches a residual constraint. Attaching a residual
// to a Finite generator keeps it Finite: the constraint becomes a
// post-filter, not a change in cardinality.
func (g Generator) WithResidual(cond ast.Expression) Generator {
	if cond == nil {
		return g
	}
	if g.Residual == nil {
		g.Residual = cond
	} else {
		g.Residual = &ast.AndAlso{Left: g.Residual, Right: cond}
	}
	return g
}

// WithProduced rebinds g to the call-site variable keys produced,
// recomputing the free-variable set. Used when an Invertible registry
// entry's cached base generator (recorded against the function's
// formal parameter names) is applied at a call site that uses
// different variable names.
func (g Generator) WithProduced(produced []string) Generator {
	g.Produced = produced
	g.Free = freeVarsOf(g.Expression, produced)
	return g
}

// freeVarsOf walks e collecting Identifier references not in produced.
// It is a shallow, best-effort scan: it does not need to be exact for
// every possible AST shape, only for expressions this module itself
// constructs or receives as atomic-inverter input.
func freeVarsOf(e ast.Expression, produced []string) []string {
	producedSet := make(map[string]bool, len(produced))
	for _, p := range produced {
		producedSet[p] = true
	}
	found := map[string]bool{}
	var walk func(ast.Expression)
	walk = func(e ast.Expression) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.Identifier:
			if !producedSet[n.Key()] {
				found[n.Key()] = true
			}
		case *ast.TupleExpr:
			for _, el := range n.Elements {
				walk(el)
			}
		case *ast.RecordExpr:
			for _, el := range n.Fields {
				walk(el)
			}
		case *ast.Application:
			walk(n.Func)
			walk(n.Arg)
		case *ast.BinOp:
			walk(n.Left)
			walk(n.Right)
		case *ast.AndAlso:
			walk(n.Left)
			walk(n.Right)
		case *ast.OrElse:
			walk(n.Left)
			walk(n.Right)
		case *ast.Lambda:
			walk(n.Body)
		case *ast.From:
			for _, s := range n.Steps {
				switch st := s.(type) {
				case *ast.ScanStep:
					walk(st.Source)
				case *ast.WhereStep:
					walk(st.Condition)
				case *ast.YieldStep:
					walk(st.Result)
				}
			}
		}
	}
	walk(e)
	out := maps.Keys(found)
	slices.Sort(out)
	return out
}

// JoinOn combines two Generators over a shared variable for a
// Cartesian product or join: the result's cardinality is the
// lattice join of the inputs', unless the shared variable "fully
// determines" an Infinite side, in which case the result stays
// at the other side's cardinality. "Fully determines" here means: the
// Infinite side produces the shared variable and nothing else. The
// other side's produced variables and the Infinite side's free
// variables are not examined.
func JoinOn(a, b Generator, sharedVar string) Cardinality {
	if a.Cardinality != Infinite && b.Cardinality == Infinite {
		if len(b.Produced) == 1 && b.Produced[0] == sharedVar {
			return a.Cardinality
		}
	}
	if b.Cardinality != Infinite && a.Cardinality == Infinite {
		if len(a.Produced) == 1 && a.Produced[0] == sharedVar {
			return b.Cardinality
		}
	}
	return Join(a.Cardinality, b.Cardinality)
}

// SortedFree returns a sorted copy of g.Free, a convenience for
// deterministic test output.
func (g Generator) SortedFree() []string {
	out := append([]string(nil), g.Free...)
	sort.Strings(out)
	return out
}

// IsBound reports whether every one of g's free variables is present
// in bound — the precondition the conjunction combinator enforces by
// ordering before using a generator.
func (g Generator) IsBound(bound map[string]bool) bool {
	for _, f := range g.Free {
		if !bound[f] {
			return false
		}
	}
	return true
}

// ExtentOf builds the trivial Infinite generator for goalVar of type
// t: the type's extent, the default generator for an unconstrained
// variable.
func ExtentOf(goalVar string, t types.Type) Generator {
	extent := &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: t}}
	return NewInfinite(extent, []string{goalVar})
}
