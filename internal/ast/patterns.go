package ast

import (
	"github.com/funvibe/funql/internal/token"
	"github.com/funvibe/funql/internal/types"
)

func (*IdentifierPattern) patternNode() {}
func (*TuplePattern) patternNode()      {}
func (*RecordPattern) patternNode()     {}
func (*LiteralPattern) patternNode()    {}
func (*WildcardPattern) patternNode()   {}

// IdentifierPattern binds a single variable of a given type.
type IdentifierPattern struct {
	Token         token.Token
	Name          string
	Disambiguator int
	Typ           types.Type
}

func (p *IdentifierPattern) GetToken() token.Token { return p.Token }
func (p *IdentifierPattern) Accept(v Visitor)      {}
func (p *IdentifierPattern) Vars() []*IdentifierPattern {
	return []*IdentifierPattern{p}
}

// Key mirrors Identifier.Key, the canonical name+disambiguator
// identity used for variable equality.
func (p *IdentifierPattern) Key() string {
	if p.Disambiguator == 0 {
		return p.Name
	}
	return p.Name + "#" + itoa(p.Disambiguator)
}

// TuplePattern destructures a tuple positionally: (p1, p2, ...).
type TuplePattern struct {
	Token    token.Token
	Elements []Pattern
}

func (p *TuplePattern) GetToken() token.Token { return p.Token }
func (p *TuplePattern) Accept(v Visitor)      {}
func (p *TuplePattern) Vars() []*IdentifierPattern {
	var out []*IdentifierPattern
	for _, e := range p.Elements {
		out = append(out, e.Vars()...)
	}
	return out
}

// RecordPattern destructures a record by field name. A RecordPattern
// whose Fields are exactly "1".."n" is treated by internal/recursive
// as equivalent to a TuplePattern of the same width, mirroring the
// record/tuple observational equality in the type system.
type RecordPattern struct {
	Token  token.Token
	Fields map[string]Pattern
	Order  []string
}

func (p *RecordPattern) GetToken() token.Token { return p.Token }
func (p *RecordPattern) Accept(v Visitor)      {}
func (p *RecordPattern) Vars() []*IdentifierPattern {
	var out []*IdentifierPattern
	order := p.Order
	if order == nil {
		for k := range p.Fields {
			order = append(order, k)
		}
	}
	for _, name := range order {
		out = append(out, p.Fields[name].Vars()...)
	}
	return out
}

// AsTuplePattern returns the equivalent TuplePattern when Fields are
// exactly the numeric names "1".."n".
func (p *RecordPattern) AsTuplePattern() (*TuplePattern, bool) {
	n := len(p.Fields)
	elems := make([]Pattern, n)
	for i := 1; i <= n; i++ {
		key := itoa(i)
		f, ok := p.Fields[key]
		if !ok {
			return nil, false
		}
		elems[i-1] = f
	}
	return &TuplePattern{Token: p.Token, Elements: elems}, true
}

// LiteralPattern matches a constant literal value exactly.
type LiteralPattern struct {
	Token token.Token
	Value interface{}
}

func (p *LiteralPattern) GetToken() token.Token          { return p.Token }
func (p *LiteralPattern) Accept(v Visitor)               {}
func (p *LiteralPattern) Vars() []*IdentifierPattern     { return nil }

// WildcardPattern matches anything and binds nothing: _.
type WildcardPattern struct {
	Token token.Token
}

func (p *WildcardPattern) GetToken() token.Token      { return p.Token }
func (p *WildcardPattern) Accept(v Visitor)           {}
func (p *WildcardPattern) Vars() []*IdentifierPattern { return nil }

// PatternCoversVars reports whether pat binds exactly the variable
// keys in want (order-independent) — whether a candidate base case
// can produce every variable of the function's formal parameter.
func PatternCoversVars(pat Pattern, want []*IdentifierPattern) bool {
	have := make(map[string]bool)
	for _, v := range pat.Vars() {
		have[v.Key()] = true
	}
	if len(have) != len(want) {
		return false
	}
	for _, w := range want {
		if !have[w.Key()] {
			return false
		}
	}
	return true
}
