// Package types implements the shape-only type representation the
// inverter needs: primitives, tuples, records, list/bag-of, function
// types, and type variables. It does not perform unification or
// inference; the inverter only ever inspects type shape.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every type-system node.
type Type interface {
	String() string
	// Shape reports the coarse classification used by pattern matching
	// throughout the inverter (e.g. to decide "is this an integer?").
	Shape() Shape
}

// Shape is the coarse classification of a Type used by atomic
// inverters and the recursive recognizer; it deliberately does not
// distinguish, e.g., two different record types of the same layout.
type Shape int

const (
	ShapeOther Shape = iota
	ShapeInt
	ShapeReal
	ShapeChar
	ShapeString
	ShapeBool
	ShapeUnit
	ShapeTuple
	ShapeRecord
	ShapeList
	ShapeBag
	ShapeFunc
	ShapeVar
)

// Primitive is a sum over the primitive base types.
type Primitive struct {
	Name string // "Int", "Real", "Char", "String", "Bool", "Unit"
}

func (p Primitive) String() string { return p.Name }

func (p Primitive) Shape() Shape {
	switch p.Name {
	case "Int":
		return ShapeInt
	case "Real":
		return ShapeReal
	case "Char":
		return ShapeChar
	case "String":
		return ShapeString
	case "Bool":
		return ShapeBool
	case "Unit":
		return ShapeUnit
	default:
		return ShapeOther
	}
}

var (
	Int    = Primitive{Name: "Int"}
	Real   = Primitive{Name: "Real"}
	Char   = Primitive{Name: "Char"}
	String = Primitive{Name: "String"}
	Bool   = Primitive{Name: "Bool"}
	Unit   = Primitive{Name: "Unit"}
)

// Tuple is a fixed-width positional product type.
type Tuple struct {
	Elements []Type
}

func (t Tuple) Shape() Shape { return ShapeTuple }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " * ") + ")"
}

// Record is an ordered-by-name product type; field names are unique.
// A record with numeric field names "1","2" is observationally equal
// in shape to a Tuple of the same width — see AsTupleShape below.
type Record struct {
	Fields map[string]Type
	// Order preserves declaration order for stable String() output;
	// every key in Fields must appear exactly once in Order.
	Order []string
}

func (r Record) Shape() Shape { return ShapeRecord }

func (r Record) String() string {
	order := r.Order
	if order == nil {
		order = make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			order = append(order, k)
		}
		sort.Strings(order)
	}
	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = fmt.Sprintf("%s: %s", name, r.Fields[name].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// AsTupleShape reports whether r has exactly the numeric field names
// "1".."n" in order, and if so returns the equivalent Tuple. The
// equivalence holds at any width, not just pairs.
func (r Record) AsTupleShape() (Tuple, bool) {
	n := len(r.Fields)
	elems := make([]Type, n)
	for i := 1; i <= n; i++ {
		f, ok := r.Fields[fmt.Sprintf("%d", i)]
		if !ok {
			return Tuple{}, false
		}
		elems[i-1] = f
	}
	return Tuple{Elements: elems}, true
}

// List is a sequence type, list-of T.
type List struct{ Elem Type }

func (l List) Shape() Shape    { return ShapeList }
func (l List) String() string  { return "list " + l.Elem.String() }

// Bag is a multiset type, bag-of T. The iterate combinator yields
// bags while the closed-form inversion rules build lists; the two are
// distinguished only so Generator expressions can report which
// collection kind they construct.
type Bag struct{ Elem Type }

func (b Bag) Shape() Shape   { return ShapeBag }
func (b Bag) String() string { return "bag " + b.Elem.String() }

// Func is a function type T1 -> T2. Multi-argument functions are
// represented, as in the source language, by a Tuple parameter.
type Func struct {
	Param  Type
	Result Type
}

func (f Func) Shape() Shape { return ShapeFunc }
func (f Func) String() string {
	return fmt.Sprintf("(%s -> %s)", f.Param.String(), f.Result.String())
}

// Var is a parametric type variable.
type Var struct{ Name string }

func (v Var) Shape() Shape    { return ShapeVar }
func (v Var) String() string  { return "'" + v.Name }

// CollectionElem returns the element type of a List or Bag, or
// (nil, false) for any other shape.
func CollectionElem(t Type) (Type, bool) {
	switch c := t.(type) {
	case List:
		return c.Elem, true
	case Bag:
		return c.Elem, true
	}
	return nil, false
}

// TupleOf builds the tuple type of n Type elements; used to construct
// the tuple type of all currently bound variables (a from-expression's
// implicit final yield) and a recursive function's result vector type.
func TupleOf(elems ...Type) Type {
	if len(elems) == 1 {
		return elems[0]
	}
	return Tuple{Elements: elems}
}
