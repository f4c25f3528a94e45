package atomic

import (
	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/config"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/simplifier"
	"github.com/funvibe/funql/internal/types"
)

// InvertRange inverts a pair of complementary integer bounds:
//
//	v > a andalso v < b      -> List.tabulate(b-a-1, fn k => a+1+k), Finite
//	v >= a andalso v <= b    -> List.tabulate(b-a+1, fn k => a+k), Finite
//
// lower and upper are the two simplified LinearBound values recognized
// by internal/simplifier for the same goal variable; InvertRange
// requires both to be present and both offsets to resolve to a closed
// (non-goal) expression. goalType must be types.Int; any other type
// declines, since only integer ranges enumerate.
func InvertRange(goalVar string, goalType types.Type, lower, upper simplifier.LinearBound) (genalgebra.Result, bool) {
	if goalType.Shape() != types.ShapeInt {
		return genalgebra.Result{}, false
	}
	if lower.VarKey != goalVar || upper.VarKey != goalVar {
		return genalgebra.Result{}, false
	}
	var (
		lowerExclusive bool
		upperExclusive bool
	)
	switch lower.Op {
	case ">":
		lowerExclusive = true
	case ">=":
		lowerExclusive = false
	default:
		return genalgebra.Result{}, false
	}
	switch upper.Op {
	case "<":
		upperExclusive = true
	case "<=":
		upperExclusive = false
	default:
		return genalgebra.Result{}, false
	}

	aExpr := boundExpr(lower)
	bExpr := boundExpr(upper)

	// count = (b - a) + adjust, start = a + startAdjust
	startAdjust := int64(0)
	if lowerExclusive {
		startAdjust = 1
	}
	countAdjust := int64(1) - startAdjust // 0 if exclusive lower, 1 if inclusive
	if upperExclusive {
		countAdjust--
	}

	diff := &ast.BinOp{Op: "-", Left: bExpr, Right: aExpr, Typ: types.Int}
	count := addConst(diff, countAdjust)
	start := addConst(aExpr, startAdjust)

	k := ast.NewIdent("k", 0, types.Int)
	elem := &ast.BinOp{Op: "+", Left: start, Right: k, Typ: types.Int}
	fn := ast.NewLambda(ast.NewTuplePattern(ast.Ident2Pattern(k)), elem, types.Int)
	tabulate := &ast.Application{
		Func: &ast.Identifier{Name: config.TabulateName, Typ: types.Func{Result: types.List{Elem: types.Int}}},
		Arg:  ast.NewTuple(count, fn),
		Typ:  types.List{Elem: types.Int},
	}
	return genalgebra.NewTotal(genalgebra.NewFinite(tabulate, []string{goalVar})), true
}

func boundExpr(b simplifier.LinearBound) ast.Expression {
	lit := ast.Expression(&ast.IntLiteral{Value: b.Offset})
	if b.OffsetVar == "" {
		return lit
	}
	v := ast.NewIdent(b.OffsetVar, 0, types.Int)
	if b.Offset == 0 {
		return v
	}
	if b.Offset > 0 {
		return &ast.BinOp{Op: "+", Left: v, Right: &ast.IntLiteral{Value: b.Offset}, Typ: types.Int}
	}
	return &ast.BinOp{Op: "-", Left: v, Right: &ast.IntLiteral{Value: -b.Offset}, Typ: types.Int}
}

func addConst(e ast.Expression, k int64) ast.Expression {
	if k == 0 {
		return e
	}
	if k > 0 {
		return simplifier.Simplify(&ast.BinOp{Op: "+", Left: e, Right: &ast.IntLiteral{Value: k}, Typ: types.Int})
	}
	return simplifier.Simplify(&ast.BinOp{Op: "-", Left: e, Right: &ast.IntLiteral{Value: -k}, Typ: types.Int})
}
