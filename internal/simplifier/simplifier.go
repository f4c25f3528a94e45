// Package simplifier canonicalizes linear-arithmetic subexpressions
// so that bound-pattern matching in the atomic inverters and
// recursive recognizer is stable. It never changes an expression's
// type, is idempotent, and never fails — a sub-expression it cannot
// simplify is returned unchanged.
package simplifier

import "github.com/funvibe/funql/internal/ast"

// Simplify canonicalizes e. Properties: idempotent,
// meaning-preserving under integer arithmetic, constant-folding,
// cancellation, and combination of literal integer offsets.
func Simplify(e ast.Expression) ast.Expression {
	switch n := e.(type) {
	case *ast.BinOp:
		return simplifyBinOp(n)
	case *ast.AndAlso:
		return &ast.AndAlso{Token: n.Token, Left: Simplify(n.Left), Right: Simplify(n.Right)}
	case *ast.OrElse:
		return &ast.OrElse{Token: n.Token, Left: Simplify(n.Left), Right: Simplify(n.Right)}
	case *ast.Application:
		return &ast.Application{Token: n.Token, Func: n.Func, Arg: Simplify(n.Arg), Typ: n.Typ}
	case *ast.TupleExpr:
		elems := make([]ast.Expression, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = Simplify(el)
		}
		return &ast.TupleExpr{Token: n.Token, Elements: elems, Typ: n.Typ}
	case *ast.From:
		steps := make([]ast.Step, len(n.Steps))
		for i, s := range n.Steps {
			steps[i] = simplifyStep(s)
		}
		return &ast.From{Token: n.Token, Steps: steps, Typ: n.Typ}
	default:
		return e
	}
}

func simplifyStep(s ast.Step) ast.Step {
	switch st := s.(type) {
	case *ast.ScanStep:
		return &ast.ScanStep{Token: st.Token, Pattern: st.Pattern, Source: Simplify(st.Source)}
	case *ast.WhereStep:
		return &ast.WhereStep{Token: st.Token, Condition: Simplify(st.Condition)}
	case *ast.YieldStep:
		return &ast.YieldStep{Token: st.Token, Result: Simplify(st.Result)}
	default:
		return s
	}
}

// linTerm is a canonical linear term over a single free identifier:
// coeff*var + constant. A pure constant has hasVar == false.
type linTerm struct {
	hasVar bool
	varKey string
	varTyp ast.Expression // representative Identifier expression for the var
	coeff  int64
	konst  int64
}

func simplifyBinOp(n *ast.BinOp) ast.Expression {
	left := Simplify(n.Left)
	right := Simplify(n.Right)
	switch n.Op {
	case "+", "-":
		if lt, ok := asLinTerm(left); ok {
			if rt, ok := asLinTerm(right); ok {
				combined, ok := combineLin(lt, rt, n.Op)
				if ok {
					return linTermToExpr(n, combined)
				}
			}
		}
	}
	return &ast.BinOp{Token: n.Token, Op: n.Op, Left: left, Right: right, Typ: n.Typ}
}

func asLinTerm(e ast.Expression) (linTerm, bool) {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return linTerm{konst: v.Value}, true
	case *ast.Identifier:
		return linTerm{hasVar: true, varKey: v.Key(), varTyp: v, coeff: 1}, true
	case *ast.BinOp:
		if v.Op != "+" && v.Op != "-" {
			return linTerm{}, false
		}
		lt, ok := asLinTerm(v.Left)
		if !ok {
			return linTerm{}, false
		}
		rt, ok := asLinTerm(v.Right)
		if !ok {
			return linTerm{}, false
		}
		return combineLin(lt, rt, v.Op)
	default:
		return linTerm{}, false
	}
}

func combineLin(a, b linTerm, op string) (linTerm, bool) {
	sign := int64(1)
	if op == "-" {
		sign = -1
	}
	out := linTerm{konst: a.konst + sign*b.konst}
	switch {
	case !a.hasVar && !b.hasVar:
		// pure constant
	case a.hasVar && !b.hasVar:
		out.hasVar, out.varKey, out.varTyp, out.coeff = true, a.varKey, a.varTyp, a.coeff
	case !a.hasVar && b.hasVar:
		out.hasVar, out.varKey, out.varTyp, out.coeff = true, b.varKey, b.varTyp, sign*b.coeff
	default:
		if a.varKey != b.varKey {
			// Two distinct free variables: the result is still linear
			// but not representable as this single-variable linTerm;
			// decline (the simplifier only canonicalizes the
			// single-variable case the atomic inverters need).
			return linTerm{}, false
		}
		out.hasVar, out.varKey, out.varTyp = true, a.varKey, a.varTyp
		out.coeff = a.coeff + sign*b.coeff
	}
	return out, true
}

func linTermToExpr(orig *ast.BinOp, t linTerm) ast.Expression {
	mkInt := func(v int64) ast.Expression {
		return &ast.IntLiteral{Token: orig.Token, Value: v}
	}
	if !t.hasVar || t.coeff == 0 {
		return mkInt(t.konst)
	}
	var varExpr ast.Expression = t.varTyp
	if t.coeff != 1 {
		varExpr = &ast.BinOp{Token: orig.Token, Op: "*", Left: mkInt(t.coeff), Right: t.varTyp, Typ: orig.Typ}
	}
	if t.konst == 0 {
		return varExpr
	}
	if t.konst > 0 {
		return &ast.BinOp{Token: orig.Token, Op: "+", Left: varExpr, Right: mkInt(t.konst), Typ: orig.Typ}
	}
	return &ast.BinOp{Token: orig.Token, Op: "-", Left: varExpr, Right: mkInt(-t.konst), Typ: orig.Typ}
}

// LinearBound describes a simplified "var OP literal-bound" shape,
// e.g. "x > y + 10" becomes {VarKey: "x", Op: ">", OffsetVar: "y",
// Offset: 10}. Used by internal/atomic's range rules.
type LinearBound struct {
	VarKey    string
	Op        string // one of >, <, >=, <=
	OffsetVar string // "" if the bound side is a pure literal
	Offset    int64
}

// AsLinearBound recognizes e (already simplified) as "v OP (offsetVar
// + offset)" where v is the distinguished goal variable goalKey.
func AsLinearBound(e ast.Expression, goalKey string) (LinearBound, bool) {
	b, ok := e.(*ast.BinOp)
	if !ok {
		return LinearBound{}, false
	}
	switch b.Op {
	case ">", "<", ">=", "<=":
	default:
		return LinearBound{}, false
	}
	id, ok := b.Left.(*ast.Identifier)
	if !ok || id.Key() != goalKey {
		return LinearBound{}, false
	}
	lt, ok := asLinTerm(Simplify(b.Right))
	if !ok {
		return LinearBound{}, false
	}
	bound := LinearBound{VarKey: goalKey, Op: b.Op, Offset: lt.konst}
	if lt.hasVar {
		bound.OffsetVar = lt.varKey
	}
	return bound, true
}
