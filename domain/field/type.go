// Package field defines the column type lattice the streaming engine
// infers as it walks a delimited text source one sample at a time.
package field

// Type is a variant in the column type lattice. The zero value, Null,
// is the lattice's bottom element: it merges into anything without
// changing it.
type Type int

const (
	Null Type = iota
	Integer
	Float
	Date
	DateTime
	String
	Boolean
)

// rank gives each non-Boolean variant its generality level (higher is
// more general), which Less compares. Boolean is excluded: it is assigned
// post-hoc once a column's merged type is Integer or String and its
// distinct values match a configured boolean pattern (see
// adapters/engine.NarrowBoolean), never produced by Merge itself.
var rank = map[Type]int{
	Null:     0,
	Integer:  1,
	Float:    2,
	Date:     1,
	DateTime: 2,
	String:   3,
}

// String renders the lattice variant name used in stats output.
func (t Type) String() string {
	switch t {
	case Null:
		return "NULL"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Date:
		return "Date"
	case DateTime:
		return "DateTime"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Merge computes the lattice meet of two observed types: the most
// general type that both could be narrowed to. It is commutative and
// associative, which is what lets the streaming engine fold sample
// types one at a time and chunked passes merge their column types in
// any order and reach the same answer.
func Merge(a, b Type) Type {
	if a == b {
		return a
	}
	if a == Null {
		return b
	}
	if b == Null {
		return a
	}
	if (a == Integer && b == Float) || (a == Float && b == Integer) {
		return Float
	}
	if (a == Date && b == DateTime) || (a == DateTime && b == Date) {
		return DateTime
	}
	// Any other mismatch (numeric vs temporal, temporal vs string,
	// Boolean vs anything) falls back to the lattice top.
	return String
}

// Less reports whether t is strictly more specific than u under the
// lattice order, used to check type-monotonicity under prefix
// extension.
func (t Type) Less(u Type) bool {
	rt, okt := rank[t]
	ru, oku := rank[u]
	if !okt || !oku {
		return false
	}
	return rt < ru
}
