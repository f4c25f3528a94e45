package ast

import (
	"github.com/funvibe/funql/internal/token"
	"github.com/funvibe/funql/internal/types"
)

// Step is one element of a From expression's ordered step sequence:
// scan (pattern <- generator expression), where (filter expression),
// or yield (projection expression).
type Step interface {
	stepNode()
	GetToken() token.Token
}

func (*ScanStep) stepNode()  {}
func (*WhereStep) stepNode() {}
func (*YieldStep) stepNode() {}

// ScanStep binds Pattern to successive elements of Source.
type ScanStep struct {
	Token   token.Token
	Pattern Pattern
	Source  Expression
}

func (s *ScanStep) GetToken() token.Token { return s.Token }

// WhereStep filters the current candidate bindings by Condition.
type WhereStep struct {
	Token     token.Token
	Condition Expression
}

func (s *WhereStep) GetToken() token.Token { return s.Token }

// YieldStep projects the current bindings through Result. A From
// with no explicit YieldStep implicitly yields a tuple of all
// currently bound variables.
type YieldStep struct {
	Token  token.Token
	Result Expression
}

func (s *YieldStep) GetToken() token.Token { return s.Token }

// From is an ordered sequence of Steps, read left to right exactly
// like the source language's "from p1 <- g1, where c1, ..." syntax.
// Used both as a top-level comprehension and as the body of an
// "exists z where C1 andalso ... andalso Cn" existential, in
// which case it has no ScanStep binding the outer goal variables (only
// fresh existentials) and no explicit yield.
type From struct {
	Token token.Token
	Steps []Step
	Typ   types.Type
}

func (f *From) GetToken() token.Token { return f.Token }
func (f *From) Accept(v Visitor)      { v.VisitFrom(f) }
func (f *From) Type() types.Type      { return f.Typ }

// Scans returns the ScanSteps of f, in order.
func (f *From) Scans() []*ScanStep {
	var out []*ScanStep
	for _, s := range f.Steps {
		if sc, ok := s.(*ScanStep); ok {
			out = append(out, sc)
		}
	}
	return out
}

// Wheres returns the WhereSteps of f, in order.
func (f *From) Wheres() []*WhereStep {
	var out []*WhereStep
	for _, s := range f.Steps {
		if w, ok := s.(*WhereStep); ok {
			out = append(out, w)
		}
	}
	return out
}

// Yield returns the explicit YieldStep of f, or nil if f relies on
// the implicit "tuple of all bound variables" yield.
func (f *From) Yield() *YieldStep {
	for _, s := range f.Steps {
		if y, ok := s.(*YieldStep); ok {
			return y
		}
	}
	return nil
}

// AsExists recognizes f as the existential shape the recursive
// recognizer needs: one or more ScanSteps binding fresh existential variables,
// a single WhereStep, and no explicit yield (or an identity yield).
// On success it returns the bound existential patterns and the
// where-condition, flattened to its conjuncts (so Exactly-one-self-call
// recognition in internal/recursive can scan them); ok is false if f
// does not have this shape.
func (f *From) AsExists() (scans []*ScanStep, conjuncts []Expression, ok bool) {
	scans = f.Scans()
	if len(scans) == 0 {
		return nil, nil, false
	}
	wheres := f.Wheres()
	if len(wheres) != 1 {
		return nil, nil, false
	}
	if y := f.Yield(); y != nil {
		if !isIdentityYield(y, scans) {
			return nil, nil, false
		}
	}
	if len(f.Steps) != len(scans)+1 && f.Yield() == nil {
		return nil, nil, false
	}
	return scans, Conjuncts(wheres[0].Condition), true
}

// isIdentityYield reports whether y just re-tuples the variables
// bound by scans, i.e. contributes no information beyond the implicit
// yield it could have omitted.
func isIdentityYield(y *YieldStep, scans []*ScanStep) bool {
	tup, ok := y.Result.(*TupleExpr)
	if !ok {
		if len(scans) != 1 {
			return false
		}
		id, ok := y.Result.(*Identifier)
		return ok && len(scans[0].Pattern.Vars()) == 1 && id.Key() == scans[0].Pattern.Vars()[0].Key()
	}
	if len(tup.Elements) != len(scans) {
		return false
	}
	for i, el := range tup.Elements {
		id, ok := el.(*Identifier)
		if !ok {
			return false
		}
		vars := scans[i].Pattern.Vars()
		if len(vars) != 1 || id.Key() != vars[0].Key() {
			return false
		}
	}
	return true
}
