// Package atomic maps built-in predicate operators (elem, =, the
// comparison operators, String.isPrefix) to small, closed-form
// inversion rules.
package atomic

import (
	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/config"
	"github.com/funvibe/funql/internal/env"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/simplifier"
	"github.com/funvibe/funql/internal/types"
)

// Invert dispatches call (already simplified) on its top-level
// built-in operator and returns an Inversion Result for goalVar, or
// ok=false if call does not match any rule in this package. Rules
// operate on the simplified form of the predicate.
func Invert(call ast.Expression, goalVar string, scope *env.Scope) (genalgebra.Result, bool) {
	call = simplifier.Simplify(call)
	switch n := call.(type) {
	case *ast.BinOp:
		switch n.Op {
		case "elem":
			if r, ok := invertElem(n, goalVar, scope); ok {
				return r, true
			}
		case "=":
			if r, ok := invertEq(n, goalVar, scope); ok {
				return r, true
			}
		case ">", "<", ">=", "<=":
			// A lone comparison binds nothing finite by itself; it is
			// only invertible paired with its complementary bound,
			// which internal/combinator recognizes across conjuncts.
			// Decline here so the caller can fall through to that
			// combinator pass or to the pure-non-goal rule below.
		}
	case *ast.Application:
		if isStringIsPrefix(n) {
			if r, ok := invertIsPrefix(n, goalVar, scope); ok {
				return r, true
			}
		}
	}
	return invertPureNonGoal(call, goalVar)
}

// isGoalRef reports whether e is exactly a reference to goalVar.
func isGoalRef(e ast.Expression, goalVar string) bool {
	id, ok := e.(*ast.Identifier)
	return ok && id.Key() == goalVar
}

// hasFreeVar reports whether goalVar occurs free in e, using the same
// conservative walk genalgebra uses for free-variable bookkeeping.
func hasFreeVar(e ast.Expression, goalVar string) bool {
	g := genalgebra.NewSingle(e, nil)
	for _, f := range g.Free {
		if f == goalVar {
			return true
		}
	}
	return false
}

// invertElem implements "v elem L (v is goal, L has no free goal
// vars)": generator = L, Finite, residual = ∅.
func invertElem(n *ast.BinOp, goalVar string, scope *env.Scope) (genalgebra.Result, bool) {
	if !isGoalRef(n.Left, goalVar) {
		return genalgebra.Result{}, false
	}
	if hasFreeVar(n.Right, goalVar) {
		return genalgebra.Result{}, false
	}
	return genalgebra.NewTotal(genalgebra.NewFinite(n.Right, []string{goalVar})), true
}

// invertEq implements "v = e (e closed over non-goals)": generator =
// [e], Single.
func invertEq(n *ast.BinOp, goalVar string, scope *env.Scope) (genalgebra.Result, bool) {
	var other ast.Expression
	switch {
	case isGoalRef(n.Left, goalVar) && !hasFreeVar(n.Right, goalVar):
		other = n.Right
	case isGoalRef(n.Right, goalVar) && !hasFreeVar(n.Left, goalVar):
		other = n.Left
	default:
		return genalgebra.Result{}, false
	}
	list := &ast.ListLiteral{Elements: []ast.Expression{other}, Typ: types.List{Elem: other.Type()}}
	return genalgebra.NewTotal(genalgebra.NewSingle(list, []string{goalVar})), true
}

// isStringIsPrefix reports whether n calls the String.isPrefix
// built-in. The (p, s) argument shape is checked by invertIsPrefix.
func isStringIsPrefix(n *ast.Application) bool {
	id, ok := n.Func.(*ast.Identifier)
	return ok && id.Name == "String.isPrefix"
}

// invertIsPrefix inverts String.isPrefix(p, s) for the prefix side.
// When s (the subject string) is already bound and goalVar is p, it
// builds the tabulate-of-prefixes generator. When p is bound and
// goalVar is s, it declines (infinite suffix space).
func invertIsPrefix(n *ast.Application, goalVar string, scope *env.Scope) (genalgebra.Result, bool) {
	args, ok := argsOf(n.Arg, 2)
	if !ok {
		return genalgebra.Result{}, false
	}
	p, s := args[0], args[1]
	if isGoalRef(s, goalVar) {
		// p known, s goal: decline (infinite suffix space).
		return genalgebra.Result{}, false
	}
	if !isGoalRef(p, goalVar) {
		return genalgebra.Result{}, false
	}
	if hasFreeVar(s, goalVar) {
		return genalgebra.Result{}, false
	}
	sizeCall := &ast.Application{
		Func: &ast.Identifier{Name: "size", Typ: types.Func{Param: types.String, Result: types.Int}},
		Arg:  s,
		Typ:  types.Int,
	}
	count := &ast.BinOp{Op: "+", Left: sizeCall, Right: &ast.IntLiteral{Value: 1}, Typ: types.Int}
	i := ast.NewIdent("i", 0, types.Int)
	substr := &ast.Application{
		Func: &ast.Identifier{Name: "substring", Typ: types.Func{Param: types.Tuple{Elements: []types.Type{types.String, types.Int, types.Int}}, Result: types.String}},
		Arg:  ast.NewTuple(s, &ast.IntLiteral{Value: 0}, i),
		Typ:  types.String,
	}
	fn := ast.NewLambda(ast.NewTuplePattern(ast.Ident2Pattern(i)), substr, types.Int)
	tabulate := &ast.Application{
		Func: &ast.Identifier{Name: config.TabulateName, Typ: types.Func{Result: types.List{Elem: types.String}}},
		Arg:  ast.NewTuple(count, fn),
		Typ:  types.List{Elem: types.String},
	}
	return genalgebra.NewTotal(genalgebra.NewFinite(tabulate, []string{goalVar})), true
}

// invertPureNonGoal is the last-resort rule: a predicate with no free
// occurrence of goalVar is Single [()] with the predicate itself as
// residual — it constrains nothing, it only filters.
func invertPureNonGoal(call ast.Expression, goalVar string) (genalgebra.Result, bool) {
	if hasFreeVar(call, goalVar) {
		return genalgebra.Result{}, false
	}
	unit := &ast.ListLiteral{Elements: []ast.Expression{&ast.TupleExpr{Typ: types.Unit}}, Typ: types.List{Elem: types.Unit}}
	g := genalgebra.NewSingle(unit, nil)
	return genalgebra.NewTotal(g).WithResidual(call), true
}

func argsOf(arg ast.Expression, n int) ([]ast.Expression, bool) {
	if n == 1 {
		return []ast.Expression{arg}, true
	}
	tup, ok := arg.(*ast.TupleExpr)
	if !ok || len(tup.Elements) != n {
		return nil, false
	}
	return tup.Elements, true
}
