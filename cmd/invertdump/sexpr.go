package main

import (
	"fmt"
	"strings"

	"github.com/funvibe/funql/internal/ast"
)

// dumpExpr renders e as a small s-expression, a terse inspection
// format for debugging output rather than the source language's own
// surface syntax (which this tool has no printer for).
func dumpExpr(e ast.Expression) string {
	if e == nil {
		return "()"
	}
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.IntLiteral:
		return fmt.Sprintf("%d", n.Value)
	case *ast.RealLiteral:
		return fmt.Sprintf("%g", n.Value)
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)
	case *ast.BoolLiteral:
		return fmt.Sprintf("%t", n.Value)
	case *ast.ListLiteral:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = dumpExpr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.TupleExpr:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = dumpExpr(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", dumpExpr(n.Left), n.Op, dumpExpr(n.Right))
	case *ast.AndAlso:
		return fmt.Sprintf("(%s andalso %s)", dumpExpr(n.Left), dumpExpr(n.Right))
	case *ast.OrElse:
		return fmt.Sprintf("(%s orelse %s)", dumpExpr(n.Left), dumpExpr(n.Right))
	case *ast.Application:
		return fmt.Sprintf("(%s %s)", dumpExpr(n.Func), dumpExpr(n.Arg))
	case *ast.Lambda:
		return fmt.Sprintf("(fn %s => %s)", dumpPattern(n.Param), dumpExpr(n.Body))
	case *ast.From:
		var parts []string
		for _, s := range n.Steps {
			switch st := s.(type) {
			case *ast.ScanStep:
				parts = append(parts, fmt.Sprintf("%s in %s", dumpPattern(st.Pattern), dumpExpr(st.Source)))
			case *ast.WhereStep:
				parts = append(parts, "where "+dumpExpr(st.Condition))
			case *ast.YieldStep:
				parts = append(parts, "yield "+dumpExpr(st.Result))
			}
		}
		return "(from " + strings.Join(parts, ", ") + ")"
	default:
		return "<?>"
	}
}

func dumpPattern(p ast.Pattern) string {
	switch n := p.(type) {
	case *ast.IdentifierPattern:
		return n.Name
	case *ast.TuplePattern:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = dumpPattern(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.WildcardPattern:
		return "_"
	default:
		return "?"
	}
}
