// Package registry is a compile-time, write-once-read-only table
// classifying every user-defined function as Invertible, Recursive,
// or NotInvertible, so the rest of the inverter never re-walks a
// function's own body while inverting a call to it.
package registry

import (
	"fmt"

	"github.com/funvibe/funql/internal/ast"
	"github.com/funvibe/funql/internal/genalgebra"
	"github.com/funvibe/funql/internal/recursive"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Status classifies a registered function.
type Status int

const (
	NotInvertible Status = iota
	Invertible
	Recursive
)

func (s Status) String() string {
	switch s {
	case Invertible:
		return "Invertible"
	case Recursive:
		return "Recursive"
	default:
		return "NotInvertible"
	}
}

// Entry is one registry row. Only the fields relevant to Status are
// populated: an
// Invertible entry carries Base+Producible, a Recursive entry also
// carries the recursive.Entry (Step + JoinVar), NotInvertible carries
// neither.
type Entry struct {
	Name       string
	Status     Status
	Base       genalgebra.Generator
	Producible []string
	Recursion  recursive.Entry
}

// Registry is the write-once-read-only table itself. RegisterFunction
// is called exactly once per declared function, in declaration order,
// before any Invert call runs.
type Registry struct {
	entries map[string]Entry
	order   []string
}

func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Lookup returns the entry for name, or ok=false if name was never
// registered (a built-in or an unresolved reference — callers outside
// this package treat that identically to NotInvertible).
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// invertibleLookup adapts Lookup to recursive.InvertibleLookup,
// refusing any function not already classified Invertible — a
// Recursive or NotInvertible sub-call can never serve as another
// function's base case.
func (r *Registry) invertibleLookup(name string) (genalgebra.Generator, []string, bool) {
	e, ok := r.entries[name]
	if !ok || e.Status != Invertible {
		return genalgebra.Generator{}, nil, false
	}
	return e.Base, e.Producible, true
}

// RegisterFunction classifies and records fn's body against its own
// name and formal parameter pattern, applying three rules in order:
//
//  1. body is exactly "pat elem L" with L closed over pat's variables
//     -> Invertible, Base = L.
//  2. body recognized as the transitive-closure shape by
//     internal/recursive.Recognize -> Recursive.
//  3. otherwise -> NotInvertible.
func (r *Registry) RegisterFunction(name string, pat ast.Pattern, body ast.Expression) Entry {
	entry := Entry{Name: name, Status: NotInvertible}

	if base, producible, ok := directElemBase(pat, body); ok {
		entry = Entry{Name: name, Status: Invertible, Base: base, Producible: producible}
	} else if rec, ok := recursive.Recognize(name, pat, body, r.invertibleLookup); ok {
		entry = Entry{Name: name, Status: Recursive, Base: rec.Base, Producible: rec.ProducibleVars, Recursion: rec}
	}

	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry
	return entry
}

// directElemBase recognizes rule 1 applied to a whole function body:
// "fun f(p) = p elem L", where L has no free occurrence of p's
// variables.
func directElemBase(pat ast.Pattern, body ast.Expression) (genalgebra.Generator, []string, bool) {
	bin, ok := body.(*ast.BinOp)
	if !ok || bin.Op != "elem" {
		return genalgebra.Generator{}, nil, false
	}
	patVars := pat.Vars()
	if !ast.PatternCoversVars(patternOfExpr(bin.Left), patVars) {
		return genalgebra.Generator{}, nil, false
	}
	keys := make([]string, len(patVars))
	for i, v := range patVars {
		keys[i] = v.Key()
	}
	g := genalgebra.NewFinite(bin.Right, keys)
	for _, f := range g.Free {
		for _, k := range keys {
			if f == k {
				// L references one of its own produced variables freely:
				// not closed, decline.
				return genalgebra.Generator{}, nil, false
			}
		}
	}
	return g, keys, true
}

// patternOfExpr builds a throwaway Pattern view of a TupleExpr/
// Identifier expression so PatternCoversVars (which wants two
// Patterns) can compare it against pat; only Vars() is exercised.
func patternOfExpr(e ast.Expression) ast.Pattern {
	switch n := e.(type) {
	case *ast.Identifier:
		return &ast.IdentifierPattern{Name: n.Name, Disambiguator: n.Disambiguator, Typ: n.Typ}
	case *ast.TupleExpr:
		elems := make([]ast.Pattern, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = patternOfExpr(el)
		}
		return &ast.TuplePattern{Elements: elems}
	default:
		return &ast.WildcardPattern{}
	}
}

// dumpRow is the YAML-serializable projection of an Entry, used by
// Dump for inspection/debugging output and registry-stability tests.
type dumpRow struct {
	Name       string   `yaml:"name"`
	Status     string   `yaml:"status"`
	Producible []string `yaml:"producible,omitempty"`
}

// Dump renders the registry, in declaration order, as YAML.
func (r *Registry) Dump() (string, error) {
	rows := make([]dumpRow, 0, len(r.order))
	for _, name := range r.order {
		e := r.entries[name]
		rows = append(rows, dumpRow{Name: e.Name, Status: e.Status.String(), Producible: e.Producible})
	}
	out, err := yaml.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("registry: marshal dump: %w", err)
	}
	return string(out), nil
}

// Names returns every registered function name, sorted, for tests and
// tooling that want deterministic iteration regardless of declaration
// order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for n := range r.entries {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
