// Command invertdump is a small demonstration CLI for the predicate
// inverter: it registers the canonical edge/path example from the
// transitive-closure scenarios, inverts a handful of sample
// predicates, and prints the resulting generator expressions as
// s-expressions, colorized when stdout is a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/env"
	"github.com/funvibe/funql/internal/fixtures"
	"github.com/funvibe/funql/internal/invert"
	"github.com/funvibe/funql/internal/registry"
	"github.com/funvibe/funql/internal/types"
	"github.com/mattn/go-isatty"
)

const (
	ansiBold   = "\x1b[1m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func color(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-list" {
		listScenarios()
		return
	}
	runDemo()
}

func listScenarios() {
	data, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "invertdump: %s\n", err)
		os.Exit(1)
	}
	cat, err := fixtures.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invertdump: %s\n", err)
		os.Exit(1)
	}
	for _, s := range cat.Scenarios {
		fmt.Printf("%s  %s\n", color(ansiBold, s.Name), s.Description)
	}
}

// pairType is the (Int, Int) tuple type the edge/path example ranges over.
var pairType = types.Tuple{Elements: []types.Type{types.Int, types.Int}}

func edges() ast.Expression {
	return &ast.ListLiteral{
		Elements: []ast.Expression{
			ast.NewTuple(&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}),
			ast.NewTuple(&ast.IntLiteral{Value: 2}, &ast.IntLiteral{Value: 3}),
		},
		Typ: types.List{Elem: pairType},
	}
}

func buildRegistry() *registry.Registry {
	reg := registry.New()

	x := ast.NewIdent("x", 0, types.Int)
	y := ast.NewIdent("y", 0, types.Int)
	edgePat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))
	edgeBody := &ast.BinOp{Op: "elem", Left: ast.NewTuple(x, y), Right: edges(), Typ: types.Bool}
	reg.RegisterFunction("edge", edgePat, edgeBody)

	z := ast.NewIdent("z", 0, types.Int)
	pathPat := ast.NewTuplePattern(ast.Ident2Pattern(x), ast.Ident2Pattern(y))
	edgeCall := func(a, b ast.Expression) ast.Expression {
		return ast.NewApplication(&ast.Identifier{Name: "edge", Typ: types.Func{Param: pairType, Result: types.Bool}}, ast.NewTuple(a, b), types.Bool)
	}
	pathCall := func(a, b ast.Expression) ast.Expression {
		return ast.NewApplication(&ast.Identifier{Name: "path", Typ: types.Func{Param: pairType, Result: types.Bool}}, ast.NewTuple(a, b), types.Bool)
	}
	existsBody := ast.NewFrom(types.Unit,
		ast.NewScan(ast.Ident2Pattern(z), &ast.Identifier{Name: "$extent", Typ: types.Bag{Elem: types.Int}}),
		ast.NewWhere(&ast.AndAlso{Left: edgeCall(x, z), Right: pathCall(z, y)}),
	)
	pathBody := &ast.OrElse{Left: edgeCall(x, y), Right: existsBody}
	reg.RegisterFunction("path", pathPat, pathBody)

	return reg
}

func runDemo() {
	reg := buildRegistry()
	scope := env.New()

	x := ast.NewIdent("x", 0, types.Int)
	predicate := &ast.BinOp{Op: "elem", Left: x, Right: &ast.ListLiteral{Elements: []ast.Expression{
		&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}, &ast.IntLiteral{Value: 3},
	}, Typ: types.List{Elem: types.Int}}, Typ: types.Bool}

	result := invert.Invert(predicate, []string{"x"}, map[string]types.Type{"x": types.Int}, scope, reg)
	printResult("x elem [1,2,3]", result)

	pathEntry, ok := reg.Lookup("path")
	if !ok || pathEntry.Status != registry.Recursive {
		fmt.Fprintln(os.Stderr, "invertdump: path was not classified Recursive")
		os.Exit(1)
	}
	pr, ok := pathEntry.Recursion.InvertCall([]string{"x", "y"})
	if !ok {
		fmt.Fprintln(os.Stderr, "invertdump: path(x,y) declined inversion")
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println(color(ansiBold, "path(x, y)"))
	fmt.Println("  " + color(ansiGreen, pr.Generator.Cardinality.String()) + "  " + dumpExpr(pr.Generator.Expression))
}

func printResult(label string, r invert.InversionResult) {
	fmt.Println(color(ansiBold, label))
	for name, g := range r.Generators {
		fmt.Printf("  %s: %s  %s\n", name, color(ansiGreen, g.Cardinality.String()), dumpExpr(g.Expression))
	}
	if r.Residual != nil {
		fmt.Println("  residual: " + color(ansiYellow, dumpExpr(r.Residual)))
	}
}
