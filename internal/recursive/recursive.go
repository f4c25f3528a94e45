// Package recursive inverts self-referential predicates: it detects
// the transitive-closure pattern during registry population,
// synthesizes the semi-naive fixed-point step lambda, and emits the
// iterate(...) call when a call to a Recursive function is later
// inverted.
//
// Design principle carried through every function here: this package
// never recurses structurally into a function's own body.
// Cross-function information — "is edge invertible, and what is its
// base generator?" — arrives exclusively through the callback type
// below, which the caller backs with registry lookups. No self-call
// ever appears on this package's own Go call stack.
package recursive

import (
	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/simplifier"
	"github.com/funvibe/funql/internal/types"
)

// InvertibleLookup resolves a user function's cached base generator
// and producible variables, but only if that function is already
// classified Invertible in the registry — a Recursive or
// NotInvertible sub-call can never serve as a base case.
type InvertibleLookup func(funcName string) (base genalgebra.Generator, producible []string, ok bool)

// Entry is the recursive-specific slice of a function registry entry:
// the cached base generator and step lambda a later call to this
// function reuses.
type Entry struct {
	Base           genalgebra.Generator
	Step           *ast.Lambda
	ProducibleVars []string // pattern vars of the function's formal parameter, in declared order
	JoinVar        string
}

// Recognize detects the transitive-closure shape
//
//	f(x, y) = B(x, y) orelse (exists z where C andalso f(...))
//
// in a candidate function body, run once during registry population.
// selfName is the function's own name (how it refers to itself in a
// self-call); pat is its formal parameter pattern (must be exactly
// arity two); body is the candidate body. baseLookup resolves whether
// a named sub-call is itself Invertible.
//
// Pattern failures are silent: Recognize returns ok=false, the caller
// marks the function NotInvertible and moves on — this function never
// panics or returns an error.
func Recognize(selfName string, pat ast.Pattern, body ast.Expression, baseLookup InvertibleLookup) (Entry, bool) {
	body = simplifier.Simplify(body)

	patVars := pat.Vars()
	if len(patVars) != 2 {
		// Only binary relations are recognized; higher and lower
		// arities decline cleanly rather than guess at which position
		// threads the recursion.
		return Entry{}, false
	}

	or, ok := body.(*ast.OrElse)
	if !ok {
		return Entry{}, false
	}

	baseGen, baseCallee, ok := recognizeBase(or.Left, pat, baseLookup)
	if !ok {
		return Entry{}, false
	}
	if baseGen.Cardinality == genalgebra.Infinite {
		// The fixed point only terminates on a finite carrier; refuse
		// recursion over an Infinite base generator.
		return Entry{}, false
	}

	from, ok := or.Right.(*ast.From)
	if !ok {
		return Entry{}, false
	}
	scans, conjuncts, ok := from.AsExists()
	if !ok {
		return Entry{}, false
	}
	existentialKeys := make(map[string]bool, len(scans))
	for _, s := range scans {
		for _, v := range s.Pattern.Vars() {
			existentialKeys[v.Key()] = true
		}
	}

	selfCall, selfIdx, ok := findSelfCall(conjuncts, selfName, len(patVars))
	if !ok {
		return Entry{}, false
	}
	selfArgs := selfCall.Arg.(*ast.TupleExpr).Elements

	remaining := make([]ast.Expression, 0, len(conjuncts)-1)
	for i, c := range conjuncts {
		if i != selfIdx {
			remaining = append(remaining, c)
		}
	}
	joinConjunct, ok := findJoinConjunct(remaining, baseCallee, existentialKeys)
	if !ok {
		return Entry{}, false
	}

	join, ok := deriveJoin(selfArgs, joinConjunct, patVars, existentialKeys)
	if !ok {
		return Entry{}, false
	}

	step := synthesizeStep(pat, patVars, selfArgs, join, baseGen)

	producible := make([]string, len(patVars))
	for i, v := range patVars {
		producible[i] = v.Key()
	}
	return Entry{Base: baseGen, Step: step, ProducibleVars: producible, JoinVar: join.zKey}, true
}

// recognizeBase classifies a candidate base case B: either B is the
// direct `pat elem L` shape, or B is a call to an already-Invertible
// function whose argument tuple matches pat positionally. Returns the
// callee name too (empty for the direct-elem shape) so the caller can
// check that the join conjunct reuses the same relation whose cached
// generator becomes Gbase.
func recognizeBase(b ast.Expression, pat ast.Pattern, lookup InvertibleLookup) (genalgebra.Generator, string, bool) {
	patVars := pat.Vars()
	if bin, ok := b.(*ast.BinOp); ok && bin.Op == "elem" {
		if exprMatchesPatternVars(bin.Left, patVars) {
			return genalgebra.NewFinite(bin.Right, varKeys(patVars)), "", true
		}
	}
	app, ok := b.(*ast.Application)
	if !ok {
		return genalgebra.Generator{}, "", false
	}
	id, ok := app.Func.(*ast.Identifier)
	if !ok {
		return genalgebra.Generator{}, "", false
	}
	tup, ok := app.Arg.(*ast.TupleExpr)
	if !ok || len(tup.Elements) != len(patVars) {
		return genalgebra.Generator{}, "", false
	}
	if !exprMatchesPatternVars(app.Arg, patVars) {
		return genalgebra.Generator{}, "", false
	}
	base, _, ok := lookup(id.Name)
	if !ok {
		return genalgebra.Generator{}, "", false
	}
	return base, id.Name, true
}

// exprMatchesPatternVars reports whether e is exactly a tuple (or
// single identifier) of references to patVars, in the same order —
// a structural check rather than mere variable-set coverage, since
// base case recognition needs positional correspondence for the later
// join derivation.
func exprMatchesPatternVars(e ast.Expression, patVars []*ast.IdentifierPattern) bool {
	idents := flattenIdentTuple(e)
	if len(idents) != len(patVars) {
		return false
	}
	for i, id := range idents {
		if id.Key() != patVars[i].Key() {
			return false
		}
	}
	return true
}

func flattenIdentTuple(e ast.Expression) []*ast.Identifier {
	switch n := e.(type) {
	case *ast.Identifier:
		return []*ast.Identifier{n}
	case *ast.TupleExpr:
		var out []*ast.Identifier
		for _, el := range n.Elements {
			id, ok := el.(*ast.Identifier)
			if !ok {
				return nil
			}
			out = append(out, id)
		}
		return out
	default:
		return nil
	}
}

func varKeys(vars []*ast.IdentifierPattern) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Key()
	}
	return out
}

// findSelfCall scans conjuncts for the single self-call of the form
// selfName(args...) with an args tuple of the expected arity.
func findSelfCall(conjuncts []ast.Expression, selfName string, arity int) (*ast.Application, int, bool) {
	found := -1
	var app *ast.Application
	for i, c := range conjuncts {
		a, ok := c.(*ast.Application)
		if !ok {
			continue
		}
		id, ok := a.Func.(*ast.Identifier)
		if !ok || id.Name != selfName {
			continue
		}
		tup, ok := a.Arg.(*ast.TupleExpr)
		if !ok || len(tup.Elements) != arity {
			continue
		}
		if found != -1 {
			// More than one self-call: not the single-recursion shape.
			return nil, 0, false
		}
		found, app = i, a
	}
	if found == -1 {
		return nil, 0, false
	}
	return app, found, true
}

// findJoinConjunct picks the single remaining conjunct that reuses
// the base relation baseCallee and binds one of the existential
// variables. It must be literally the base's own relation, so the
// step can reuse the cached base generator rather than inverting C
// independently.
func findJoinConjunct(remaining []ast.Expression, baseCallee string, existentials map[string]bool) (*ast.Application, bool) {
	if baseCallee == "" {
		// Base was a direct elem-literal with no named relation to
		// match C against; unsupported by this recognizer (the
		// canonical and swapped scenarios always name the relation).
		return nil, false
	}
	var found *ast.Application
	for _, c := range remaining {
		app, ok := c.(*ast.Application)
		if !ok {
			continue
		}
		id, ok := app.Func.(*ast.Identifier)
		if !ok || id.Name != baseCallee {
			continue
		}
		tup, ok := app.Arg.(*ast.TupleExpr)
		if !ok || len(tup.Elements) != 2 {
			continue
		}
		hasExistential := false
		for _, el := range tup.Elements {
			if id2, ok := el.(*ast.Identifier); ok && existentials[id2.Key()] {
				hasExistential = true
			}
		}
		if !hasExistential {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = app
	}
	if found == nil {
		return nil, false
	}
	return found, true
}

// joinInfo captures the identified join variable and the two relation
// argument tuples it links.
type joinInfo struct {
	zKey     string
	cArgs    []ast.Expression // base-relation conjunct's 2 args, in its own declared order
	selfArgs []ast.Expression // self-call's 2 args, in its own declared order
}

// deriveJoin identifies the join variable: the single existential
// that appears in both the self-call's argument tuple and the base
// relation conjunct's argument tuple, with the remaining position on
// each side covered by the function's own parameter variables.
func deriveJoin(selfArgs []ast.Expression, joinConjunct *ast.Application, patVars []*ast.IdentifierPattern, existentials map[string]bool) (joinInfo, bool) {
	cArgs := joinConjunct.Arg.(*ast.TupleExpr).Elements

	selfZ, selfOther, ok := splitOneExistential(selfArgs, existentials)
	if !ok {
		return joinInfo{}, false
	}
	cZ, cOther, ok := splitOneExistential(cArgs, existentials)
	if !ok {
		return joinInfo{}, false
	}
	if selfZ.Key() != cZ.Key() {
		// Two different existentials: not a single-join-variable shape.
		return joinInfo{}, false
	}
	patKeys := map[string]bool{}
	for _, v := range patVars {
		patKeys[v.Key()] = true
	}
	if !patKeys[selfOther.Key()] || !patKeys[cOther.Key()] {
		return joinInfo{}, false
	}
	if selfOther.Key() == cOther.Key() {
		// Both sides threading the same pattern variable would leave
		// the other one unproduced.
		return joinInfo{}, false
	}
	return joinInfo{zKey: selfZ.Key(), cArgs: cArgs, selfArgs: selfArgs}, true
}

// splitOneExistential requires exactly one of the two args to be an
// existential identifier and returns (existentialArg, otherArg, ok).
func splitOneExistential(args []ast.Expression, existentials map[string]bool) (*ast.Identifier, *ast.Identifier, bool) {
	if len(args) != 2 {
		return nil, nil, false
	}
	id0, ok0 := args[0].(*ast.Identifier)
	id1, ok1 := args[1].(*ast.Identifier)
	if !ok0 || !ok1 {
		return nil, nil, false
	}
	switch {
	case existentials[id0.Key()] && !existentials[id1.Key()]:
		return id0, id1, true
	case existentials[id1.Key()] && !existentials[id0.Key()]:
		return id1, id0, true
	default:
		return nil, nil, false
	}
}

// synthesizeStep builds the semi-naive fixed-point step lambda:
//
//	fn (old, new) =>
//	  from (selfArgs...) in new,
//	       (cArgs-with-z-renamed-to-z'...) in Gbase
//	  where z = z'
//	  yield (patVars in declared order)
func synthesizeStep(pat ast.Pattern, patVars []*ast.IdentifierPattern, selfArgs []ast.Expression, join joinInfo, base genalgebra.Generator) *ast.Lambda {
	tupType := tupleTypeOf(patVars)
	bagType := types.Bag{Elem: tupType}

	oldIdent := ast.NewIdent("old", 0, bagType)
	newIdent := ast.NewIdent("new", 0, bagType)

	newPattern := patternFromArgs(selfArgs)

	zIdent := identForKey(join.zKey, join.selfArgs, join.cArgs)
	zPrime := ast.NewIdent(zIdent.Name, zIdent.Disambiguator+1000, zIdent.Typ)

	basePattern := patternFromArgsRenaming(join.cArgs, join.zKey, zPrime)

	whereCond := &ast.BinOp{Op: "=", Left: ast.NewIdent(zIdent.Name, zIdent.Disambiguator, zIdent.Typ), Right: zPrime, Typ: types.Bool}

	yieldElems := make([]ast.Expression, len(patVars))
	for i, v := range patVars {
		yieldElems[i] = ast.NewIdentFromPattern(v)
	}

	fromBody := ast.NewFrom(tupType,
		ast.NewScan(newPattern, newIdent),
		ast.NewScan(basePattern, base.Expression),
		ast.NewWhere(whereCond),
		ast.NewYield(ast.NewTuple(yieldElems...)),
	)

	paramPattern := ast.NewTuplePattern(ast.Ident2Pattern(oldIdent), ast.Ident2Pattern(newIdent))
	return &ast.Lambda{
		Param: paramPattern,
		Body:  fromBody,
		Typ:   types.Func{Param: types.Tuple{Elements: []types.Type{bagType, bagType}}, Result: bagType},
	}
}

func identForKey(key string, candidates ...[]ast.Expression) *ast.Identifier {
	for _, list := range candidates {
		for _, e := range list {
			if id, ok := e.(*ast.Identifier); ok && id.Key() == key {
				return id
			}
		}
	}
	return ast.NewIdent(key, 0, types.Int)
}

func patternFromArgs(args []ast.Expression) *ast.TuplePattern {
	elems := make([]ast.Pattern, len(args))
	for i, a := range args {
		id := a.(*ast.Identifier)
		elems[i] = ast.Ident2Pattern(id)
	}
	return ast.NewTuplePattern(elems...)
}

func patternFromArgsRenaming(args []ast.Expression, renameKey string, renamed *ast.Identifier) *ast.TuplePattern {
	elems := make([]ast.Pattern, len(args))
	for i, a := range args {
		id := a.(*ast.Identifier)
		if id.Key() == renameKey {
			elems[i] = ast.Ident2Pattern(renamed)
		} else {
			elems[i] = ast.Ident2Pattern(id)
		}
	}
	return ast.NewTuplePattern(elems...)
}

func tupleTypeOf(vars []*ast.IdentifierPattern) types.Type {
	ts := make([]types.Type, len(vars))
	for i, v := range vars {
		ts[i] = v.Typ
	}
	return types.TupleOf(ts...)
}
