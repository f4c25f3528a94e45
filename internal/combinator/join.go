package combinator

import (
	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/types"
)

// RelConjunct is one conjunct already resolved to a relation
// generator over the identifier arguments of its call site, e.g.
// edge(x, z) resolved to the edges collection with Args = [x, z].
// The generator's expression yields tuples positionally matching Args.
type RelConjunct struct {
	Gen  genalgebra.Generator
	Args []*ast.Identifier
}

// SharedScanJoin builds the shared-variable join, the simplest join
// (e.g. edge(x,z) andalso next(z,y)): a nested scan
// over both relations with a where-equality on the one shared
// variable, Finite if both sides are Finite. The synthesized
// expression is
//
//	from (x, z) in L, (z', y) in R where z = z' yield (goalVars...)
//
// with the shared position on the right scan renamed to a fresh primed
// copy, the same convention the recursive inverter's step lambda
// uses. Declines unless neither side is Infinite, exactly one variable
// is shared, and the two argument lists together cover every goal
// variable.
func SharedScanJoin(left, right RelConjunct, goalVars []string) (genalgebra.Result, bool) {
	if left.Gen.Cardinality == genalgebra.Infinite || right.Gen.Cardinality == genalgebra.Infinite {
		return genalgebra.Result{}, false
	}
	shared := sharedArgKeys(left.Args, right.Args)
	if len(shared) != 1 {
		return genalgebra.Result{}, false
	}
	zKey := shared[0]

	byKey := make(map[string]*ast.Identifier, len(left.Args)+len(right.Args))
	for _, id := range left.Args {
		byKey[id.Key()] = id
	}
	for _, id := range right.Args {
		if _, seen := byKey[id.Key()]; !seen {
			byKey[id.Key()] = id
		}
	}

	yieldElems := make([]ast.Expression, len(goalVars))
	yieldTypes := make([]types.Type, len(goalVars))
	for i, gv := range goalVars {
		id, ok := byKey[gv]
		if !ok {
			return genalgebra.Result{}, false
		}
		yieldElems[i] = id
		yieldTypes[i] = id.Typ
	}

	z := byKey[zKey]
	zPrime := ast.NewIdent(z.Name, z.Disambiguator+1000, z.Typ)

	leftPat := patternOfIdents(left.Args, "", nil)
	rightPat := patternOfIdents(right.Args, zKey, zPrime)

	whereCond := &ast.BinOp{
		Op:    "=",
		Left:  ast.NewIdent(z.Name, z.Disambiguator, z.Typ),
		Right: zPrime,
		Typ:   types.Bool,
	}

	elemType := types.TupleOf(yieldTypes...)
	from := ast.NewFrom(elemType,
		ast.NewScan(leftPat, left.Gen.Expression),
		ast.NewScan(rightPat, right.Gen.Expression),
		ast.NewWhere(whereCond),
		ast.NewYield(ast.NewTuple(yieldElems...)),
	)

	g := genalgebra.NewFinite(from, goalVars)
	if genalgebra.Join(left.Gen.Cardinality, right.Gen.Cardinality) == genalgebra.Single {
		g.Cardinality = genalgebra.Single
	}
	result := genalgebra.NewTotal(g)
	if left.Gen.Residual != nil {
		result = result.WithResidual(left.Gen.Residual)
	}
	if right.Gen.Residual != nil {
		result = result.WithResidual(right.Gen.Residual)
	}
	return result, true
}

func sharedArgKeys(a, b []*ast.Identifier) []string {
	inA := make(map[string]bool, len(a))
	for _, id := range a {
		inA[id.Key()] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, id := range b {
		k := id.Key()
		if inA[k] && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// patternOfIdents builds the scan pattern for one side of the join,
// renaming the shared position (renameKey) to renamed when non-nil.
func patternOfIdents(args []*ast.Identifier, renameKey string, renamed *ast.Identifier) ast.Pattern {
	if len(args) == 1 {
		id := args[0]
		if renamed != nil && id.Key() == renameKey {
			id = renamed
		}
		return ast.Ident2Pattern(id)
	}
	elems := make([]ast.Pattern, len(args))
	for i, id := range args {
		if renamed != nil && id.Key() == renameKey {
			elems[i] = ast.Ident2Pattern(renamed)
		} else {
			elems[i] = ast.Ident2Pattern(id)
		}
	}
	return ast.NewTuplePattern(elems...)
}
