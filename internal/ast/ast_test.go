package ast

import (
	"testing"

	"github.com/funvibe/funql/internal/token"
	"github.com/funvibe/funql/internal/types"
)

func TestConjunctsAndMakeAndAlso(t *testing.T) {
	a := &Identifier{Name: "a", Typ: types.Bool}
	b := &Identifier{Name: "b", Typ: types.Bool}
	c := &Identifier{Name: "c", Typ: types.Bool}

	chain := &AndAlso{Left: &AndAlso{Left: a, Right: b}, Right: c}
	got := Conjuncts(chain)
	if len(got) != 3 || got[0] != Expression(a) || got[1] != Expression(b) || got[2] != Expression(c) {
		t.Fatalf("Conjuncts() = %v, want [a b c]", got)
	}

	rebuilt := MakeAndAlso(token.Token{}, []Expression{a, b, c})
	if len(Conjuncts(rebuilt)) != 3 {
		t.Errorf("MakeAndAlso round-trip produced %d conjuncts, want 3", len(Conjuncts(rebuilt)))
	}

	single := Conjuncts(a)
	if len(single) != 1 || single[0] != Expression(a) {
		t.Errorf("Conjuncts(non-AndAlso) = %v, want [a]", single)
	}

	empty := MakeAndAlso(token.Token{}, nil)
	if _, ok := empty.(*BoolLiteral); !ok {
		t.Errorf("MakeAndAlso(nil) = %T, want *BoolLiteral true", empty)
	}
}

func TestIdentifierKey(t *testing.T) {
	plain := &Identifier{Name: "x"}
	if plain.Key() != "x" {
		t.Errorf("Key() = %q, want %q", plain.Key(), "x")
	}
	disamb := &Identifier{Name: "x", Disambiguator: 2}
	if disamb.Key() != "x#2" {
		t.Errorf("Key() = %q, want %q", disamb.Key(), "x#2")
	}
}

func TestPatternVars(t *testing.T) {
	x := &IdentifierPattern{Name: "x"}
	y := &IdentifierPattern{Name: "y"}
	tup := &TuplePattern{Elements: []Pattern{x, y}}
	vars := tup.Vars()
	if len(vars) != 2 || vars[0].Name != "x" || vars[1].Name != "y" {
		t.Errorf("TuplePattern.Vars() = %v, want [x y]", vars)
	}

	rec := &RecordPattern{Fields: map[string]Pattern{"1": x, "2": y}, Order: []string{"1", "2"}}
	asTup, ok := rec.AsTuplePattern()
	if !ok || len(asTup.Elements) != 2 {
		t.Errorf("RecordPattern.AsTuplePattern() = %v, %v, want 2-element tuple", asTup, ok)
	}
}

func TestPatternCoversVars(t *testing.T) {
	x := &IdentifierPattern{Name: "x"}
	y := &IdentifierPattern{Name: "y"}
	tup := &TuplePattern{Elements: []Pattern{x, y}}
	if !PatternCoversVars(tup, []*IdentifierPattern{x, y}) {
		t.Error("expected tup to cover [x, y]")
	}
	if PatternCoversVars(tup, []*IdentifierPattern{x}) {
		t.Error("expected tup to NOT cover just [x]")
	}
}
