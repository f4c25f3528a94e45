package simplifier

import (
	"testing"

	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/types"
)

func intLit(v int64) *ast.IntLiteral { return &ast.IntLiteral{Value: v} }
func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name, Typ: types.Int} }

func TestSimplifyConstantFolding(t *testing.T) {
	// (10 + 5) - 3 has no free variable, simplifies to a pure constant.
	e := &ast.BinOp{Op: "-", Typ: types.Int,
		Left:  &ast.BinOp{Op: "+", Left: intLit(10), Right: intLit(5), Typ: types.Int},
		Right: intLit(3),
	}
	got := Simplify(e)
	lit, ok := got.(*ast.IntLiteral)
	if !ok || lit.Value != 12 {
		t.Errorf("Simplify(10+5-3) = %#v, want IntLiteral{12}", got)
	}
}

func TestSimplifyVariableCancellation(t *testing.T) {
	// (y + 10) - y should cancel y entirely down to the constant 10.
	y := ident("y")
	e := &ast.BinOp{Op: "-", Typ: types.Int,
		Left:  &ast.BinOp{Op: "+", Left: y, Right: intLit(10), Typ: types.Int},
		Right: y,
	}
	got := Simplify(e)
	lit, ok := got.(*ast.IntLiteral)
	if !ok || lit.Value != 10 {
		t.Errorf("Simplify((y+10)-y) = %#v, want IntLiteral{10}", got)
	}
}

func TestSimplifyCombinesOffsets(t *testing.T) {
	// (y + 1) + 3 combines to y + 4.
	y := ident("y")
	e := &ast.BinOp{Op: "+", Typ: types.Int,
		Left:  &ast.BinOp{Op: "+", Left: y, Right: intLit(1), Typ: types.Int},
		Right: intLit(3),
	}
	got := Simplify(e)
	bin, ok := got.(*ast.BinOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("Simplify((y+1)+3) = %#v, want a BinOp +", got)
	}
	if id, ok := bin.Left.(*ast.Identifier); !ok || id.Key() != "y" {
		t.Errorf("left operand = %#v, want identifier y", bin.Left)
	}
	if lit, ok := bin.Right.(*ast.IntLiteral); !ok || lit.Value != 4 {
		t.Errorf("right operand = %#v, want IntLiteral{4}", bin.Right)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	y := ident("y")
	e := &ast.BinOp{Op: "+", Typ: types.Int,
		Left:  &ast.BinOp{Op: "+", Left: y, Right: intLit(1), Typ: types.Int},
		Right: intLit(3),
	}
	once := Simplify(e)
	twice := Simplify(once)
	if dumpForTest(once) != dumpForTest(twice) {
		t.Errorf("Simplify is not idempotent: once=%s twice=%s", dumpForTest(once), dumpForTest(twice))
	}
}

func TestSimplifyDeclinesTwoDistinctVariables(t *testing.T) {
	// x + y has two distinct free variables: the single-variable linTerm
	// canonicalization must decline and leave the BinOp shape intact.
	e := &ast.BinOp{Op: "+", Left: ident("x"), Right: ident("y"), Typ: types.Int}
	got := Simplify(e)
	bin, ok := got.(*ast.BinOp)
	if !ok || bin.Op != "+" {
		t.Errorf("Simplify(x+y) = %#v, want unchanged BinOp +", got)
	}
}

func TestAsLinearBound(t *testing.T) {
	// x > y + 10, already simplified.
	x := ident("x")
	y := ident("y")
	e := &ast.BinOp{Op: ">", Left: x, Right: &ast.BinOp{Op: "+", Left: y, Right: intLit(10), Typ: types.Int}, Typ: types.Bool}
	bound, ok := AsLinearBound(e, "x")
	if !ok {
		t.Fatal("expected AsLinearBound to recognize x > y + 10")
	}
	if bound.Op != ">" || bound.OffsetVar != "y" || bound.Offset != 10 {
		t.Errorf("AsLinearBound = %+v, want {Op: >, OffsetVar: y, Offset: 10}", bound)
	}
}

func TestAsLinearBoundPureLiteral(t *testing.T) {
	x := ident("x")
	e := &ast.BinOp{Op: "<", Left: x, Right: intLit(5), Typ: types.Bool}
	bound, ok := AsLinearBound(e, "x")
	if !ok || bound.OffsetVar != "" || bound.Offset != 5 {
		t.Errorf("AsLinearBound(x < 5) = %+v, %v, want {Offset: 5, OffsetVar: \"\"}, true", bound, ok)
	}
}

func TestAsLinearBoundRejectsWrongVariable(t *testing.T) {
	e := &ast.BinOp{Op: "<", Left: ident("x"), Right: intLit(5), Typ: types.Bool}
	if _, ok := AsLinearBound(e, "z"); ok {
		t.Error("expected AsLinearBound to reject a bound on a different variable")
	}
}

// dumpForTest is a tiny local equality helper so the idempotence test
// doesn't need a full pretty-printer; it's good enough for the flat
// shapes Simplify produces here.
func dumpForTest(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return "int"
	case *ast.Identifier:
		return "id:" + n.Key()
	case *ast.BinOp:
		return "(" + dumpForTest(n.Left) + n.Op + dumpForTest(n.Right) + ")"
	default:
		return "?"
	}
}
