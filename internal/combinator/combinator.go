// Package combinator turns an ordered list of already-inverted
// conjuncts into one Generator (ordering by free-variable
// availability, plus the paired-bounds and shared-join special
// cases), and combines two disjunct Results into one.
package combinator

import (
	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/atomic"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/simplifier"
	"github.com/funvibe/funql/internal/types"
)

// InvertOne is the signature internal/invert supplies for inverting a
// single conjunct against one goal variable — usually
// atomic.Invert, but the caller may also route through the registry
// for a user-function call first and fall back to atomic.Invert.
type InvertOne func(call ast.Expression, goalVar string) (genalgebra.Result, bool)

// Conjunction runs the ordering pass over conjuncts, a flat AndAlso
// chain already split by ast.Conjuncts. goalVar is the single
// variable this conjunction must produce; a multi-variable goal is
// handled by internal/invert calling Conjunction once per goal
// variable. bound is the set of variables already available (outer
// scope plus goal variables produced by earlier Conjunction passes);
// scopeVars is just the outer-scope subset, used to tell a genuine
// filter on scope-supplied values from a fellow goal variable's
// producer.
//
// Only a conjunct that actually produces goalVar can become the
// primary generator — a pure filter like "y > 0" inverts to a
// Single [()] result with an empty produced set and must never be
// scanned in goalVar's place. When several producers are available at
// once, Single is preferred over Finite over Infinite; source order
// only breaks ties.
func Conjunction(conjuncts []ast.Expression, goalVar string, goalType types.Type, bound, scopeVars map[string]bool, invertOne InvertOne) (genalgebra.Result, bool) {
	if r, ok := pairedBounds(conjuncts, goalVar, goalType); ok {
		return r, true
	}

	remaining := append([]ast.Expression(nil), conjuncts...)
	boundNow := copyBound(bound)
	var best genalgebra.Result
	haveAny := false
	var filters []ast.Expression

	for len(remaining) > 0 {
		// Among the conjuncts that invert to a producer of goalVar
		// with their free variables already bound, pick the one with
		// the lowest cardinality.
		bestIdx := -1
		var cand genalgebra.Result
		for i, c := range remaining {
			r, ok := invertOne(c, goalVar)
			if !ok || !r.Generator.IsBound(boundNow) {
				continue
			}
			if !produces(r.Generator, goalVar) {
				continue
			}
			if bestIdx == -1 || r.Generator.Cardinality < cand.Generator.Cardinality {
				bestIdx, cand = i, r
			}
		}
		if bestIdx != -1 {
			c := remaining[bestIdx]
			if !haveAny {
				best = cand
				haveAny = true
			} else if membership, ok := membershipFilter(cand.Generator, goalVar); ok {
				// goalVar is already produced; a second producing
				// conjunct ("x elem L1 andalso x elem L2") narrows it to
				// the intersection via a membership post-filter rather
				// than a second scan.
				best = best.WithResidual(membership)
				for _, res := range cand.Residuals {
					best = best.WithResidual(res)
				}
			} else {
				// The conjunct produces goalVar, but not from a
				// membership-checkable collection; keep the conjunct
				// itself as the filter so the result stays sound.
				best = best.WithResidual(c)
			}
			for _, p := range cand.Generator.Produced {
				boundNow[p] = true
			}
			remaining = append(remaining[:bestIdx:bestIdx], remaining[bestIdx+1:]...)
			continue
		}

		// No producer of goalVar is available this round. Clear one
		// non-producing conjunct: an independent producer of another
		// non-scope variable belongs to that variable's own
		// Conjunction pass and is dropped without residual; anything
		// else that inverts is a pure filter, kept for the residual.
		cleared := false
		for i, c := range remaining {
			r, ok := invertOne(c, goalVar)
			if !ok || !r.Generator.IsBound(boundNow) || produces(r.Generator, goalVar) {
				continue
			}
			if !producesOther(c, goalVar, scopeVars, invertOne) {
				filters = append(filters, c)
			}
			remaining = append(remaining[:i:i], remaining[i+1:]...)
			cleared = true
			break
		}
		if !cleared {
			break
		}
	}

	if !haveAny {
		return genalgebra.Result{}, false
	}
	// Filters, and any conjuncts that never resolved at all, are
	// checked at runtime once goalVar (and everything else) is bound,
	// matching invertPureNonGoal's handling of a closed predicate.
	for _, c := range filters {
		best = best.WithResidual(c)
	}
	for _, c := range remaining {
		best = best.WithResidual(c)
	}
	return best, true
}

func produces(g genalgebra.Generator, v string) bool {
	for _, p := range g.Produced {
		if p == v {
			return true
		}
	}
	return false
}

// producesOther reports whether c independently produces some
// variable other than goalVar and outside the outer scope (e.g.
// "y elem L2" while solving for x, with y a fellow goal variable).
// Such a conjunct is handled by that variable's own Conjunction pass;
// residualizing it here would mark the inversion non-total even
// though every variable ends up fully produced. A conjunct producing
// an outer-scope variable is not skipped: nothing else will check it,
// so it must stay a residual filter.
func producesOther(c ast.Expression, goalVar string, scopeVars map[string]bool, invertOne InvertOne) bool {
	for _, v := range genalgebra.NewSingle(c, nil).Free {
		if v == goalVar || scopeVars[v] {
			continue
		}
		if r, ok := invertOne(c, v); ok && produces(r.Generator, v) {
			return true
		}
	}
	return false
}

func copyBound(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound))
	for k := range bound {
		out[k] = true
	}
	return out
}

// membershipFilter turns a second producer of goalVar into the
// equivalent post-filter "goalVar elem <its collection>", applicable
// only when g produces goalVar alone from a non-Infinite collection
// expression.
func membershipFilter(g genalgebra.Generator, goalVar string) (ast.Expression, bool) {
	if g.Cardinality == genalgebra.Infinite {
		return nil, false
	}
	if len(g.Produced) != 1 || g.Produced[0] != goalVar {
		return nil, false
	}
	elemType, ok := types.CollectionElem(g.Expression.Type())
	if !ok {
		return nil, false
	}
	return &ast.BinOp{
		Op:    "elem",
		Left:  &ast.Identifier{Name: goalVar, Typ: elemType},
		Right: g.Expression,
		Typ:   types.Bool,
	}, true
}

// pairedBounds recognizes the paired-comparison-bounds special case
// across two conjuncts (one lower, one upper linear bound on
// goalVar) and dispatches to atomic.InvertRange. It must run before
// the generic per-conjunct pass because neither bound is individually
// invertible (each is a lone comparison, declined by atomic.Invert).
func pairedBounds(conjuncts []ast.Expression, goalVar string, goalType types.Type) (genalgebra.Result, bool) {
	var lower, upper *simplifier.LinearBound
	for _, c := range conjuncts {
		b, ok := simplifier.AsLinearBound(simplifier.Simplify(c), goalVar)
		if !ok {
			continue
		}
		switch b.Op {
		case ">", ">=":
			if lower == nil {
				lb := b
				lower = &lb
			}
		case "<", "<=":
			if upper == nil {
				ub := b
				upper = &ub
			}
		}
	}
	if lower == nil || upper == nil {
		return genalgebra.Result{}, false
	}
	return atomic.InvertRange(goalVar, goalType, *lower, *upper)
}

// Disjunction combines the two sides of an OrElse: the bag union of
// both sides' generators when both are Finite/Single, keeping the
// result Finite; if either side is Infinite, the whole disjunction
// falls back to the Infinite extent with the full predicate as
// residual (a disjunction can't be narrower than its widest disjunct).
func Disjunction(left, right genalgebra.Result, goalVar string, fullPredicate ast.Expression, extent genalgebra.Generator) genalgebra.Result {
	if left.Generator.Cardinality == genalgebra.Infinite || right.Generator.Cardinality == genalgebra.Infinite {
		return genalgebra.NewTotal(extent).WithResidual(fullPredicate)
	}
	union := &ast.BinOp{Op: "@", Left: left.Generator.Expression, Right: right.Generator.Expression, Typ: left.Generator.Expression.Type()}
	g := genalgebra.NewFinite(union, []string{goalVar})
	result := genalgebra.NewTotal(g)
	if !left.Total() || !right.Total() {
		// Either side still needs runtime filtering: the union must be
		// filtered by "was this element produced by a disjunct whose
		// residual it still satisfies", i.e. the original predicate.
		result = result.WithResidual(fullPredicate)
	}
	return result
}
