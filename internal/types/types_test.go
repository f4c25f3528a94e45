package types

import "testing"

func TestPrimitiveShape(t *testing.T) {
	tests := []struct {
		p    Primitive
		want Shape
	}{
		{Int, ShapeInt},
		{Real, ShapeReal},
		{Char, ShapeChar},
		{String, ShapeString},
		{Bool, ShapeBool},
		{Unit, ShapeUnit},
		{Primitive{Name: "Bogus"}, ShapeOther},
	}
	for _, tt := range tests {
		if got := tt.p.Shape(); got != tt.want {
			t.Errorf("Primitive{%s}.Shape() = %v, want %v", tt.p.Name, got, tt.want)
		}
	}
}

func TestRecordAsTupleShape(t *testing.T) {
	r := Record{Fields: map[string]Type{"1": Int, "2": String}, Order: []string{"1", "2"}}
	tup, ok := r.AsTupleShape()
	if !ok {
		t.Fatal("expected AsTupleShape to succeed on numeric-field record")
	}
	if len(tup.Elements) != 2 || tup.Elements[0] != Int || tup.Elements[1] != String {
		t.Errorf("AsTupleShape() = %+v, want (Int, String)", tup)
	}

	named := Record{Fields: map[string]Type{"x": Int, "y": Int}, Order: []string{"x", "y"}}
	if _, ok := named.AsTupleShape(); ok {
		t.Error("expected AsTupleShape to fail on non-numeric field names")
	}
}

func TestCollectionElem(t *testing.T) {
	if elem, ok := CollectionElem(List{Elem: Int}); !ok || elem != Int {
		t.Errorf("CollectionElem(List{Int}) = %v, %v, want Int, true", elem, ok)
	}
	if elem, ok := CollectionElem(Bag{Elem: String}); !ok || elem != String {
		t.Errorf("CollectionElem(Bag{String}) = %v, %v, want String, true", elem, ok)
	}
	if _, ok := CollectionElem(Int); ok {
		t.Error("CollectionElem(Int) should fail: not a collection")
	}
}

func TestTupleOf(t *testing.T) {
	if got := TupleOf(Int); got != Int {
		t.Errorf("TupleOf(Int) = %v, want Int unwrapped", got)
	}
	got := TupleOf(Int, String)
	tup, ok := got.(Tuple)
	if !ok || len(tup.Elements) != 2 {
		t.Errorf("TupleOf(Int, String) = %+v, want Tuple of 2", got)
	}
}

func TestFuncString(t *testing.T) {
	f := Func{Param: Int, Result: Bool}
	want := "(Int -> Bool)"
	if got := f.String(); got != want {
		t.Errorf("Func.String() = %q, want %q", got, want)
	}
}
