package vset

import (
	"fmt"

	"github.com/jamestrimble/maximal-clique/pkg/graph"
)

// Kind names a Set backing.
type Kind string

const (
	KindStamp   Kind = "stamp"
	KindBitset  Kind = "bitset"
	KindRoaring Kind = "roaring"
)

// DefaultKind is the backing used when none is configured.
const DefaultKind = KindStamp

// Kinds lists every supported backing in a stable order.
var Kinds = []Kind{KindStamp, KindBitset, KindRoaring}

// Set is a mutable set of integers in [0, Cap()).
//
// Add of a member and Remove of a non-member are no-ops. Passing a value
// outside [0, Cap()) is a programming error and panics.
type Set interface {
	// Cap returns the exclusive upper bound of storable values.
	Cap() int
	// Len returns the number of elements.
	Len() int
	Has(v int) bool
	Add(v int)
	Remove(v int)
	// Clear empties the set.
	Clear()
	// AppendTo appends every element to dst in unspecified order.
	AppendTo(dst []int) []int
	// Intersect replaces the contents of dst with the intersection of the
	// set and nb. dst must have the same Cap and must not be the receiver.
	Intersect(nb graph.Neighborhood, dst Set)
	// IntersectLen returns the size of the intersection of the set and nb
	// without allocating.
	IntersectLen(nb graph.Neighborhood) int
	// AppendDifference appends every element that is not in nb to dst.
	AppendDifference(dst []int, nb graph.Neighborhood) []int
}

// ParseKind validates a backing name. The empty string selects DefaultKind.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return DefaultKind, nil
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown set kind %q (must be stamp, bitset or roaring)", s)
}

// Factory returns a constructor for sets of the given kind. The returned
// function panics on an unknown kind, so validate with ParseKind first.
func Factory(k Kind) func(n int) Set {
	switch k {
	case KindStamp, "":
		return func(n int) Set { return NewStamp(n) }
	case KindBitset:
		return func(n int) Set { return NewBitset(n) }
	case KindRoaring:
		return func(n int) Set { return NewRoaring(n) }
	}
	panic(fmt.Sprintf("vset: unknown kind %q", k))
}

// New creates an empty set of the given kind with capacity n.
func New(k Kind, n int) Set {
	return Factory(k)(n)
}

// Fill adds every value in [0, s.Cap()) to s.
func Fill(s Set) {
	for v := 0; v < s.Cap(); v++ {
		s.Add(v)
	}
}

func checkRange(v, n int) {
	if v < 0 || v >= n {
		panic(fmt.Sprintf("vset: value %d out of range [0,%d)", v, n))
	}
}
