package ast

import (
	"testing"

	"github.com/funvibe/funql/internal/types"
)

func TestNewApplicationN(t *testing.T) {
	x := NewIdent("x", 0, types.Int)
	single := NewApplicationN(&Identifier{Name: "f"}, types.Bool, x)
	if single.Arg != Expression(x) {
		t.Errorf("NewApplicationN with one arg should pass it directly, got %T", single.Arg)
	}

	y := NewIdent("y", 0, types.Int)
	pair := NewApplicationN(&Identifier{Name: "f"}, types.Bool, x, y)
	tup, ok := pair.Arg.(*TupleExpr)
	if !ok || len(tup.Elements) != 2 {
		t.Errorf("NewApplicationN with two args should tuple them, got %T", pair.Arg)
	}
}

func TestIdent2PatternRoundTrip(t *testing.T) {
	x := NewIdent("x", 3, types.Int)
	pat := Ident2Pattern(x)
	back := NewIdentFromPattern(pat)
	if back.Key() != x.Key() {
		t.Errorf("Ident2Pattern/NewIdentFromPattern round trip changed key: %q != %q", back.Key(), x.Key())
	}
}

func TestNewFromElemType(t *testing.T) {
	x := NewIdent("x", 0, types.Int)
	from := NewFrom(types.Int, NewScan(Ident2Pattern(x), &Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}))
	bag, ok := from.Type().(types.Bag)
	if !ok || bag.Elem != types.Int {
		t.Errorf("NewFrom(Int, ...).Type() = %v, want Bag{Int}", from.Type())
	}
}

func TestFromAsExists(t *testing.T) {
	z := NewIdent("z", 0, types.Int)
	edgeCall := &Application{Func: &Identifier{Name: "edge"}, Arg: NewTuple(z, z), Typ: types.Bool}

	existsBody := NewFrom(types.Unit,
		NewScan(Ident2Pattern(z), &Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		NewWhere(edgeCall),
	)
	scans, conjuncts, ok := existsBody.AsExists()
	if !ok {
		t.Fatal("expected AsExists to recognize a single-scan, single-where From")
	}
	if len(scans) != 1 || len(conjuncts) != 1 {
		t.Errorf("AsExists() = %d scans, %d conjuncts, want 1, 1", len(scans), len(conjuncts))
	}
}

func TestFromAsExistsRejectsExplicitNonIdentityYield(t *testing.T) {
	z := NewIdent("z", 0, types.Int)
	w := NewIdent("w", 0, types.Int)
	edgeCall := &Application{Func: &Identifier{Name: "edge"}, Arg: NewTuple(z, z), Typ: types.Bool}
	withYield := NewFrom(types.Int,
		NewScan(Ident2Pattern(z), &Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		NewWhere(edgeCall),
		NewYield(w),
	)
	if _, _, ok := withYield.AsExists(); ok {
		t.Error("expected AsExists to reject a From whose yield isn't the identity re-tupling of its scans")
	}
}

func TestFromAsExistsRejectsMultipleWhere(t *testing.T) {
	z := NewIdent("z", 0, types.Int)
	edgeCall := &Application{Func: &Identifier{Name: "edge"}, Arg: NewTuple(z, z), Typ: types.Bool}
	twoWheres := NewFrom(types.Unit,
		NewScan(Ident2Pattern(z), &Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		NewWhere(edgeCall),
		NewWhere(edgeCall),
	)
	if _, _, ok := twoWheres.AsExists(); ok {
		t.Error("expected AsExists to reject a From with more than one where step")
	}
}
