package env

import (
	"testing"

	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/genalgebra"
)

func TestScopeBindLookup(t *testing.T) {
	s := New()
	if _, ok := s.Lookup("y"); ok {
		t.Fatal("expected Lookup on empty scope to fail")
	}
	g := genalgebra.NewFinite(&ast.ListLiteral{}, []string{"y"})
	s.Bind("y", g)
	got, ok := s.Lookup("y")
	if !ok || got.Cardinality != genalgebra.Finite {
		t.Errorf("Lookup(y) = %v, %v, want the bound Finite generator", got, ok)
	}
}

func TestScopeBound(t *testing.T) {
	s := New()
	s.Bind("y", genalgebra.NewSingle(&ast.ListLiteral{}, nil))
	s.Bind("z", genalgebra.NewSingle(&ast.ListLiteral{}, nil))
	bound := s.Bound()
	if !bound["y"] || !bound["z"] || len(bound) != 2 {
		t.Errorf("Bound() = %v, want {y: true, z: true}", bound)
	}
}
