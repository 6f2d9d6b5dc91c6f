package field

import "testing"

func TestMergeCommutative(t *testing.T) {
	types := []Type{Null, Integer, Float, Date, DateTime, String, Boolean}
	for _, a := range types {
		for _, b := range types {
			if Merge(a, b) != Merge(b, a) {
				t.Errorf("Merge(%v, %v) != Merge(%v, %v)", a, b, b, a)
			}
		}
	}
}

func TestMergeAssociative(t *testing.T) {
	types := []Type{Null, Integer, Float, Date, DateTime, String}
	for _, a := range types {
		for _, b := range types {
			for _, c := range types {
				lhs := Merge(Merge(a, b), c)
				rhs := Merge(a, Merge(b, c))
				if lhs != rhs {
					t.Errorf("Merge not associative for (%v,%v,%v): %v != %v", a, b, c, lhs, rhs)
				}
			}
		}
	}
}

func TestMergeIdentityIsNull(t *testing.T) {
	types := []Type{Integer, Float, Date, DateTime, String, Boolean}
	for _, a := range types {
		if Merge(a, Null) != a {
			t.Errorf("Merge(%v, Null) = %v, want %v", a, Merge(a, Null), a)
		}
		if Merge(Null, a) != a {
			t.Errorf("Merge(Null, %v) = %v, want %v", a, Merge(Null, a), a)
		}
	}
}

func TestMergeWidensNumerics(t *testing.T) {
	if Merge(Integer, Float) != Float {
		t.Errorf("Merge(Integer, Float) = %v, want Float", Merge(Integer, Float))
	}
	if Merge(Date, DateTime) != DateTime {
		t.Errorf("Merge(Date, DateTime) = %v, want DateTime", Merge(Date, DateTime))
	}
}

func TestMergeMismatchFallsBackToString(t *testing.T) {
	cases := []struct{ a, b Type }{
		{Integer, Date},
		{Float, String},
		{Boolean, Integer},
		{DateTime, String},
	}
	for _, c := range cases {
		if got := Merge(c.a, c.b); got != String {
			t.Errorf("Merge(%v, %v) = %v, want String", c.a, c.b, got)
		}
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Null, "NULL"},
		{Integer, "Integer"},
		{Float, "Float"},
		{Date, "Date"},
		{DateTime, "DateTime"},
		{String, "String"},
		{Boolean, "Boolean"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestLess(t *testing.T) {
	if !Integer.Less(Float) {
		t.Error("expected Integer < Float")
	}
	if !Float.Less(String) {
		t.Error("expected Float < String")
	}
	if String.Less(Integer) {
		t.Error("expected String not < Integer")
	}
}
