package ast

import (
	"github.com/funvibe/funql/internal/token"
	"github.com/funvibe/funql/internal/types"
)

// The functions below stand in for the expression builder library the
// enclosing compiler would own: constructors for identifier
// references, literals, tuples, applications, lambdas, and
// from-expressions with scan/where/yield. The real compiler owns a
// shared, thread-safe builder; these plain constructors are this
// module's local substitute, used by internal/recursive to synthesize
// the step lambda and the iterate call.

// NewIdent builds an Identifier reference.
func NewIdent(name string, disambiguator int, typ types.Type) *Identifier {
	return &Identifier{Name: name, Disambiguator: disambiguator, Typ: typ}
}

// NewIdentFromPattern builds an Identifier reference to the variable
// bound by p.
func NewIdentFromPattern(p *IdentifierPattern) *Identifier {
	return &Identifier{Name: p.Name, Disambiguator: p.Disambiguator, Typ: p.Typ}
}

// NewTuple builds a TupleExpr over elems, inferring its type from
// each element's already-resolved Type().
func NewTuple(elems ...Expression) *TupleExpr {
	ts := make([]types.Type, len(elems))
	for i, e := range elems {
		ts[i] = e.Type()
	}
	return &TupleExpr{Elements: elems, Typ: types.Tuple{Elements: ts}}
}

// NewApplication builds a curried-looking single-argument Application
// node: fn applied to arg.
func NewApplication(fn Expression, arg Expression, resultType types.Type) *Application {
	return &Application{Func: fn, Arg: arg, Typ: resultType}
}

// NewApplicationN builds the conventional n-ary call shape used
// throughout this module: Func applied to a single TupleExpr argument
// when there is more than one value to pass, or to the sole value
// directly when there is one (matching how the source language
// desugars f(a, b) to f applied to the tuple (a, b)).
func NewApplicationN(fn Expression, resultType types.Type, args ...Expression) *Application {
	var arg Expression
	if len(args) == 1 {
		arg = args[0]
	} else {
		arg = NewTuple(args...)
	}
	return NewApplication(fn, arg, resultType)
}

// NewLambda builds a one-parameter lambda: fn (param) => body.
func NewLambda(param Pattern, body Expression, paramType types.Type) *Lambda {
	return &Lambda{
		Param: param,
		Body:  body,
		Typ:   types.Func{Param: paramType, Result: body.Type()},
	}
}

// NewScan builds a scan step: pattern <- source.
func NewScan(pattern Pattern, source Expression) *ScanStep {
	return &ScanStep{Pattern: pattern, Source: source}
}

// NewWhere builds a where step filtering on cond.
func NewWhere(cond Expression) *WhereStep {
	return &WhereStep{Condition: cond}
}

// NewYield builds a yield step projecting through result.
func NewYield(result Expression) *YieldStep {
	return &YieldStep{Result: result}
}

// NewFrom assembles an ordered From expression from steps. Its type
// is bag-of elemType, which the caller computes (the final yield's
// type, or the implicit tuple of bound variables' type); the steps
// themselves are not inspected.
func NewFrom(elemType types.Type, steps ...Step) *From {
	return &From{Steps: steps, Typ: types.Bag{Elem: elemType}}
}

// Ident2Pattern builds an IdentifierPattern sharing name/disambiguator
// with the given Identifier — used when the recognizer needs to turn
// an expression-position reference back into a binding-position
// pattern (e.g. re-threading a self-call's argument variable as a
// scan pattern in the step lambda).
func Ident2Pattern(id *Identifier) *IdentifierPattern {
	return &IdentifierPattern{Name: id.Name, Disambiguator: id.Disambiguator, Typ: id.Typ}
}

// NewTuplePattern builds a TuplePattern over the given element patterns.
func NewTuplePattern(elements ...Pattern) *TuplePattern {
	return &TuplePattern{Elements: elements}
}

// Tok is a convenience constructor for a synthesized token carrying
// no real source position, used for nodes the inverter itself builds
// (as opposed to ones copied from the input predicate).
func Tok(typ token.Type, lexeme string) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme}
}
