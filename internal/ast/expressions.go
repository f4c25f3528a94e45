package ast

import (
	"github.com/funvibe/funql/internal/token"
	"github.com/funvibe/funql/internal/types"
)

func (*Identifier) expressionNode()     {}
func (*IntLiteral) expressionNode()     {}
func (*RealLiteral) expressionNode()    {}
func (*StringLiteral) expressionNode()  {}
func (*CharLiteral) expressionNode()    {}
func (*BoolLiteral) expressionNode()    {}
func (*TupleExpr) expressionNode()      {}
func (*RecordExpr) expressionNode()     {}
func (*Application) expressionNode()    {}
func (*Lambda) expressionNode()         {}
func (*Case) expressionNode()           {}
func (*From) expressionNode()           {}
func (*OrElse) expressionNode()         {}
func (*AndAlso) expressionNode()        {}
func (*Let) expressionNode()            {}
func (*BinOp) expressionNode()          {}

// Identifier references a bound variable or a user/built-in function
// by name. Disambiguator distinguishes identically-named variables
// bound at different scopes; references carry the same disambiguator
// as the pattern that bound them.
type Identifier struct {
	Token         token.Token
	Name          string
	Disambiguator int
	Typ           types.Type
}

func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) Type() types.Type      { return i.Typ }

// Key returns the identity used for variable-equality throughout the
// inverter (name plus disambiguator, never the *Identifier pointer,
// since expressions may be structurally shared).
func (i *Identifier) Key() string {
	if i.Disambiguator == 0 {
		return i.Name
	}
	return i.Name + "#" + itoa(i.Disambiguator)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

type IntLiteral struct {
	Token token.Token
	Value int64
}

func (l *IntLiteral) GetToken() token.Token { return l.Token }
func (l *IntLiteral) Accept(v Visitor)      { v.VisitIntLiteral(l) }
func (l *IntLiteral) Type() types.Type      { return types.Int }

type RealLiteral struct {
	Token token.Token
	Value float64
}

func (l *RealLiteral) GetToken() token.Token { return l.Token }
func (l *RealLiteral) Accept(v Visitor)      { v.VisitRealLiteral(l) }
func (l *RealLiteral) Type() types.Type      { return types.Real }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (l *StringLiteral) GetToken() token.Token { return l.Token }
func (l *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(l) }
func (l *StringLiteral) Type() types.Type      { return types.String }

type CharLiteral struct {
	Token token.Token
	Value rune
}

func (l *CharLiteral) GetToken() token.Token { return l.Token }
func (l *CharLiteral) Accept(v Visitor)      { v.VisitCharLiteral(l) }
func (l *CharLiteral) Type() types.Type      { return types.Char }

type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (l *BoolLiteral) GetToken() token.Token { return l.Token }
func (l *BoolLiteral) Accept(v Visitor)      { v.VisitBoolLiteral(l) }
func (l *BoolLiteral) Type() types.Type      { return types.Bool }

// ListLiteral constructs a list/bag value, e.g. [1, 2, 3].
type ListLiteral struct {
	Token    token.Token
	Elements []Expression
	Typ      types.Type
}

func (l *ListLiteral) GetToken() token.Token { return l.Token }
func (l *ListLiteral) Accept(v Visitor)      {}
func (l *ListLiteral) Type() types.Type      { return l.Typ }
func (*ListLiteral) expressionNode()         {}

// TupleExpr constructs a tuple value, e.g. (x, y).
type TupleExpr struct {
	Token    token.Token
	Elements []Expression
	Typ      types.Type
}

func (t *TupleExpr) GetToken() token.Token { return t.Token }
func (t *TupleExpr) Accept(v Visitor)      { v.VisitTupleExpr(t) }
func (t *TupleExpr) Type() types.Type      { return t.Typ }

// RecordExpr constructs a record value, e.g. {x = 1, y = 2}.
type RecordExpr struct {
	Token  token.Token
	Fields map[string]Expression
	Order  []string
	Typ    types.Type
}

func (r *RecordExpr) GetToken() token.Token { return r.Token }
func (r *RecordExpr) Accept(v Visitor)      { v.VisitRecordExpr(r) }
func (r *RecordExpr) Type() types.Type      { return r.Typ }

// Application is a function call: Func applied to Arg. Named built-in
// predicates (String.isPrefix, ...) and user-function calls are both
// represented as Application with Func an Identifier; the distinction
// is made by looking the callee up (in the registry or the
// atomic-inverter dispatch table), not by a separate AST shape. Infix
// relations such as elem, = and < are BinOp nodes instead.
type Application struct {
	Token token.Token
	Func  Expression
	Arg   Expression
	Typ   types.Type
}

func (a *Application) GetToken() token.Token { return a.Token }
func (a *Application) Accept(v Visitor)      { v.VisitApplication(a) }
func (a *Application) Type() types.Type      { return a.Typ }

// BinOp represents an infix built-in operator or relation (elem, =,
// <, >, <=, >=, *, +, -, and @ for bag union). Kept distinct from Application because the atomic inverters
// and the simplifier pattern-match on operator shape far more often
// than on arbitrary applications.
type BinOp struct {
	Token token.Token
	Op    string
	Left  Expression
	Right Expression
	Typ   types.Type
}

func (b *BinOp) GetToken() token.Token { return b.Token }
func (b *BinOp) Accept(v Visitor)      { v.VisitBinOp(b) }
func (b *BinOp) Type() types.Type      { return b.Typ }

// Lambda is a one-parameter function literal (parameter pattern +
// body), e.g. fn (x, y) => x + y.
type Lambda struct {
	Token   token.Token
	Param   Pattern
	Body    Expression
	Typ     types.Type
}

func (l *Lambda) GetToken() token.Token { return l.Token }
func (l *Lambda) Accept(v Visitor)      { v.VisitLambda(l) }
func (l *Lambda) Type() types.Type      { return l.Typ }

// MatchArm is a single arm of a Case expression.
type MatchArm struct {
	Pattern Pattern
	Body    Expression
}

// Case is a pattern match over a scrutinee. The inverter declines to
// invert any predicate containing Case; it is retained in the IR
// because the type checker and evaluator need it even though this
// compiler phase does not act on it.
type Case struct {
	Token     token.Token
	Scrutinee Expression
	Arms      []MatchArm
	Typ       types.Type
}

func (c *Case) GetToken() token.Token { return c.Token }
func (c *Case) Accept(v Visitor)      { v.VisitCase(c) }
func (c *Case) Type() types.Type      { return c.Typ }

// OrElse is short-circuit Boolean disjunction: Left orelse Right.
type OrElse struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (o *OrElse) GetToken() token.Token { return o.Token }
func (o *OrElse) Accept(v Visitor)      { v.VisitOrElse(o) }
func (o *OrElse) Type() types.Type      { return types.Bool }

// AndAlso is short-circuit Boolean conjunction: Left andalso Right.
type AndAlso struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (a *AndAlso) GetToken() token.Token { return a.Token }
func (a *AndAlso) Accept(v Visitor)      { v.VisitAndAlso(a) }
func (a *AndAlso) Type() types.Type      { return types.Bool }

// Let binds Pattern to Value within the scope of Body.
type Let struct {
	Token   token.Token
	Pattern Pattern
	Value   Expression
	Body    Expression
}

func (l *Let) GetToken() token.Token { return l.Token }
func (l *Let) Accept(v Visitor)      { v.VisitLet(l) }
func (l *Let) Type() types.Type      { return l.Body.Type() }

// Conjuncts flattens a right- or left-nested chain of AndAlso nodes
// into an ordered slice of conjuncts, e.g. "a andalso b andalso c" ->
// [a, b, c].
func Conjuncts(e Expression) []Expression {
	and, ok := e.(*AndAlso)
	if !ok {
		return []Expression{e}
	}
	return append(Conjuncts(and.Left), Conjuncts(and.Right)...)
}

// MakeAndAlso rebuilds a left-nested AndAlso chain from conjuncts,
// the inverse of Conjuncts for conjuncts with len >= 1. Used when a
// combinator needs to re-emit a residual filter expression.
func MakeAndAlso(tok token.Token, conjuncts []Expression) Expression {
	if len(conjuncts) == 0 {
		return &BoolLiteral{Token: tok, Value: true}
	}
	result := conjuncts[0]
	for _, c := range conjuncts[1:] {
		result = &AndAlso{Token: tok, Left: result, Right: c}
	}
	return result
}
