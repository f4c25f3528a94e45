package recursive

import (
	"testing"

	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/types"
)

var pairType = types.Tuple{Elements: []types.Type{types.Int, types.Int}}

func edgesLiteral() *ast.ListLiteral {
	return &ast.ListLiteral{
		Elements: []ast.Expression{
			ast.NewTuple(&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}),
			ast.NewTuple(&ast.IntLiteral{Value: 2}, &ast.IntLiteral{Value: 3}),
		},
		Typ: types.List{Elem: pairType},
	}
}

func callOf(name string, a, b ast.Expression) *ast.Application {
	return ast.NewApplication(&ast.Identifier{Name: name, Typ: types.Func{Param: pairType, Result: types.Bool}}, ast.NewTuple(a, b), types.Bool)
}

func edgeLookup(edgeBase genalgebra.Generator) InvertibleLookup {
	return func(name string) (genalgebra.Generator, []string, bool) {
		if name == "edge" {
			return edgeBase, []string{"x", "y"}, true
		}
		return genalgebra.Generator{}, nil, false
	}
}

func TestRecognizeCanonicalTransitiveClosure(t *testing.T) {
	x := ast.NewIdent("x", 0, types.Int)
	y := ast.NewIdent("y", 0, types.Int)
	z := ast.NewIdent("z", 0, types.Int)
	pat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))

	edgeBase := genalgebra.NewFinite(edgesLiteral(), []string{"x", "y"})

	// path(x,y) = edge(x,y) orelse (exists z where edge(x,z) andalso path(z,y))
	existsBody := ast.NewFrom(types.Unit,
		ast.NewScan(ast.Ident2Pattern(z), &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		ast.NewWhere(&ast.AndAlso{Left: callOf("edge", x, z), Right: callOf("path", z, y)}),
	)
	body := &ast.OrElse{Left: callOf("edge", x, y), Right: existsBody}

	entry, ok := Recognize("path", pat, body, edgeLookup(edgeBase))
	if !ok {
		t.Fatal("expected Recognize to accept the canonical transitive-closure shape")
	}
	if entry.JoinVar != "z" {
		t.Errorf("JoinVar = %q, want %q", entry.JoinVar, "z")
	}
	if len(entry.ProducibleVars) != 2 || entry.ProducibleVars[0] != "x" || entry.ProducibleVars[1] != "y" {
		t.Errorf("ProducibleVars = %v, want [x y]", entry.ProducibleVars)
	}
	if entry.Step == nil {
		t.Fatal("expected a synthesized step lambda")
	}
	from, ok := entry.Step.Body.(*ast.From)
	if !ok {
		t.Fatalf("step body = %T, want *ast.From", entry.Step.Body)
	}
	if len(from.Scans()) != 2 {
		t.Errorf("step body has %d scans, want 2 (new and base)", len(from.Scans()))
	}
	if len(from.Wheres()) != 1 {
		t.Errorf("step body has %d where steps, want 1 (the join condition)", len(from.Wheres()))
	}
}

func TestRecognizeSwappedConjunctOrder(t *testing.T) {
	x := ast.NewIdent("x", 0, types.Int)
	y := ast.NewIdent("y", 0, types.Int)
	z := ast.NewIdent("z", 0, types.Int)
	pat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))

	edgeBase := genalgebra.NewFinite(edgesLiteral(), []string{"x", "y"})

	// path(x,y) = edge(x,y) orelse (exists z where path(x,z) andalso edge(z,y))
	existsBody := ast.NewFrom(types.Unit,
		ast.NewScan(ast.Ident2Pattern(z), &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		ast.NewWhere(&ast.AndAlso{Left: callOf("path", x, z), Right: callOf("edge", z, y)}),
	)
	body := &ast.OrElse{Left: callOf("edge", x, y), Right: existsBody}

	entry, ok := Recognize("path", pat, body, edgeLookup(edgeBase))
	if !ok {
		t.Fatal("expected Recognize to accept the swapped-conjunct-order shape")
	}
	if entry.JoinVar != "z" {
		t.Errorf("JoinVar = %q, want %q", entry.JoinVar, "z")
	}
}

func TestRecognizeDeclinesWrongArity(t *testing.T) {
	x := ast.NewIdent("x", 0, types.Int)
	pat := ast.NewTuplePattern(ast.Ident2Pattern(x))
	body := &ast.OrElse{Left: &ast.BoolLiteral{Value: true}, Right: &ast.BoolLiteral{Value: false}}
	if _, ok := Recognize("f", pat, body, edgeLookup(genalgebra.Generator{})); ok {
		t.Error("expected Recognize to decline a non-arity-two pattern")
	}
}

func TestRecognizeDeclinesMultipleSelfCalls(t *testing.T) {
	x := ast.NewIdent("x", 0, types.Int)
	y := ast.NewIdent("y", 0, types.Int)
	z := ast.NewIdent("z", 0, types.Int)
	pat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))
	edgeBase := genalgebra.NewFinite(edgesLiteral(), []string{"x", "y"})

	existsBody := ast.NewFrom(types.Unit,
		ast.NewScan(ast.Ident2Pattern(z), &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		ast.NewWhere(&ast.AndAlso{Left: callOf("path", x, z), Right: callOf("path", z, y)}),
	)
	body := &ast.OrElse{Left: callOf("edge", x, y), Right: existsBody}

	if _, ok := Recognize("path", pat, body, edgeLookup(edgeBase)); ok {
		t.Error("expected Recognize to decline a body with two self-calls")
	}
}

func TestRecognizeDeclinesInfiniteBase(t *testing.T) {
	x := ast.NewIdent("x", 0, types.Int)
	y := ast.NewIdent("y", 0, types.Int)
	z := ast.NewIdent("z", 0, types.Int)
	pat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))
	infiniteBase := genalgebra.NewInfinite(&ast.Identifier{Name: "$extent"}, []string{"x", "y"})

	existsBody := ast.NewFrom(types.Unit,
		ast.NewScan(ast.Ident2Pattern(z), &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		ast.NewWhere(&ast.AndAlso{Left: callOf("edge", x, z), Right: callOf("path", z, y)}),
	)
	body := &ast.OrElse{Left: callOf("edge", x, y), Right: existsBody}

	if _, ok := Recognize("path", pat, body, edgeLookup(infiniteBase)); ok {
		t.Error("expected Recognize to refuse recursion over an Infinite base generator")
	}
}

func TestInvertCallBuildsIterateExpression(t *testing.T) {
	x := ast.NewIdent("x", 0, types.Int)
	y := ast.NewIdent("y", 0, types.Int)
	z := ast.NewIdent("z", 0, types.Int)
	pat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))
	edgeBase := genalgebra.NewFinite(edgesLiteral(), []string{"x", "y"})

	existsBody := ast.NewFrom(types.Unit,
		ast.NewScan(ast.Ident2Pattern(z), &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		ast.NewWhere(&ast.AndAlso{Left: callOf("edge", x, z), Right: callOf("path", z, y)}),
	)
	body := &ast.OrElse{Left: callOf("edge", x, y), Right: existsBody}
	entry, ok := Recognize("path", pat, body, edgeLookup(edgeBase))
	if !ok {
		t.Fatal("expected Recognize to succeed")
	}

	r, ok := entry.InvertCall([]string{"x", "y"})
	if !ok {
		t.Fatal("expected InvertCall to succeed for a whole-tuple goal")
	}
	if r.Generator.Cardinality != genalgebra.Finite {
		t.Errorf("cardinality = %v, want Finite", r.Generator.Cardinality)
	}
	outer, ok := r.Generator.Expression.(*ast.Application)
	if !ok {
		t.Fatalf("expression = %T, want *ast.Application (iterate(...)(...))", r.Generator.Expression)
	}
	inner, ok := outer.Func.(*ast.Application)
	if !ok {
		t.Fatalf("expression.Func = %T, want *ast.Application (iterate(Gbase))", outer.Func)
	}
	iterIdent, ok := inner.Func.(*ast.Identifier)
	if !ok || iterIdent.Name != "iterate" {
		t.Errorf("innermost function = %#v, want identifier \"iterate\"", inner.Func)
	}
}

func TestInvertCallDeclinesPartialGoal(t *testing.T) {
	x := ast.NewIdent("x", 0, types.Int)
	y := ast.NewIdent("y", 0, types.Int)
	z := ast.NewIdent("z", 0, types.Int)
	pat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))
	edgeBase := genalgebra.NewFinite(edgesLiteral(), []string{"x", "y"})

	existsBody := ast.NewFrom(types.Unit,
		ast.NewScan(ast.Ident2Pattern(z), &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		ast.NewWhere(&ast.AndAlso{Left: callOf("edge", x, z), Right: callOf("path", z, y)}),
	)
	body := &ast.OrElse{Left: callOf("edge", x, y), Right: existsBody}
	entry, ok := Recognize("path", pat, body, edgeLookup(edgeBase))
	if !ok {
		t.Fatal("expected Recognize to succeed")
	}

	if _, ok := entry.InvertCall([]string{"x"}); ok {
		t.Error("expected InvertCall to decline a partial (non-whole-tuple) goal")
	}
}
