package recursive

import (
	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/config"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/types"
)

// InvertCall inverts a call to a function already classified
// Recursive. goalVars must cover exactly the recursive function's own
// producible variables; partial instantiation of a recursive call,
// e.g. path(1, y) with only y as goal, is declined — only whole-tuple
// goals are supported.
//
// The synthesized expression is:
//
//	iterate(Gbase)(Step)
//
// where Gbase is the cached base generator's own expression and Step
// is the cached semi-naive step lambda from Recognize. The step never
// deduplicates: the combinator removes already-accumulated tuples from
// each step's output (set-minus by structural equality), and it is
// total and terminates once step adds nothing new; this
// function does not itself run the fixed point, it only builds the
// call expression the evaluator will run it through.
func (e Entry) InvertCall(goalVars []string) (genalgebra.Result, bool) {
	if len(goalVars) != len(e.ProducibleVars) {
		return genalgebra.Result{}, false
	}
	want := make(map[string]bool, len(goalVars))
	for _, v := range goalVars {
		want[v] = true
	}
	for _, p := range e.ProducibleVars {
		if !want[p] {
			return genalgebra.Result{}, false
		}
	}

	elemType, ok := types.CollectionElem(e.Base.Expression.Type())
	if !ok {
		if config.StrictFallback {
			panic("recursive.InvertCall: base generator expression has no collection element type")
		}
		return genalgebra.Result{}, false
	}
	bagType := types.Bag{Elem: elemType}

	iterateFn := &ast.Identifier{
		Name: config.IterateName,
		Typ:  types.Func{Param: bagType, Result: types.Func{Param: e.Step.Typ, Result: bagType}},
	}
	appliedToBase := ast.NewApplication(iterateFn, e.Base.Expression, types.Func{Param: e.Step.Typ, Result: bagType})
	call := ast.NewApplication(appliedToBase, e.Step, bagType)

	return genalgebra.NewTotal(genalgebra.NewFinite(call, e.ProducibleVars)), true
}
