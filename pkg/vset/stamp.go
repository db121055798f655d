package vset

import "github.com/jamestrimble/maximal-clique/pkg/graph"

// DefaultStampLimit is the generation at which a Stamp set physically zeroes
// its stamp array and restarts counting. It stays well below the uint32
// range so the bump in Clear can never wrap.
const DefaultStampLimit = 2_000_000_000

// StampOption configures a Stamp set.
type StampOption func(*Stamp)

// WithStampLimit overrides DefaultStampLimit. Limits below 2 are raised to 2.
func WithStampLimit(limit uint32) StampOption {
	return func(s *Stamp) {
		s.limit = max(limit, 2)
	}
}

// Stamp is a Set backed by a generation-stamped membership array and a
// dense element list.
//
// v is a member iff stamp[v] == gen, and then dense[pos[v]] == v. Clear
// bumps gen, so it costs O(1) except once every limit-1 calls, when the
// stamp array is zeroed.
type Stamp struct {
	stamp  []uint32
	gen    uint32
	limit  uint32
	dense  []int
	pos    []int
	resets int
}

// NewStamp creates an empty Stamp set with capacity n.
func NewStamp(n int, opts ...StampOption) *Stamp {
	s := &Stamp{
		stamp: make([]uint32, n),
		gen:   1,
		limit: DefaultStampLimit,
		dense: make([]int, 0, n),
		pos:   make([]int, n),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stamp) Cap() int { return len(s.stamp) }

func (s *Stamp) Len() int { return len(s.dense) }

func (s *Stamp) Has(v int) bool {
	checkRange(v, len(s.stamp))
	return s.stamp[v] == s.gen
}

func (s *Stamp) Add(v int) {
	if s.Has(v) {
		return
	}
	s.stamp[v] = s.gen
	s.pos[v] = len(s.dense)
	s.dense = append(s.dense, v)
}

func (s *Stamp) Remove(v int) {
	if !s.Has(v) {
		return
	}
	s.stamp[v] = 0
	i := s.pos[v]
	last := s.dense[len(s.dense)-1]
	s.dense[i] = last
	s.pos[last] = i
	s.dense = s.dense[:len(s.dense)-1]
}

func (s *Stamp) Clear() {
	s.dense = s.dense[:0]
	s.gen++
	if s.gen >= s.limit {
		clear(s.stamp)
		s.gen = 1
		s.resets++
	}
}

// Resets reports how many times the stamp array has been physically zeroed.
func (s *Stamp) Resets() int { return s.resets }

// Elements returns the dense element list. The slice is owned by the set
// and is invalidated by the next mutation.
func (s *Stamp) Elements() []int { return s.dense }

func (s *Stamp) AppendTo(dst []int) []int {
	return append(dst, s.dense...)
}

func (s *Stamp) Intersect(nb graph.Neighborhood, dst Set) {
	dst.Clear()
	if len(s.dense) < nb.Len() {
		for _, v := range s.dense {
			if nb.Has(v) {
				dst.Add(v)
			}
		}
		return
	}
	for _, v := range nb.List {
		if s.stamp[v] == s.gen {
			dst.Add(v)
		}
	}
}

func (s *Stamp) IntersectLen(nb graph.Neighborhood) int {
	count := 0
	if len(s.dense) < nb.Len() {
		for _, v := range s.dense {
			if nb.Has(v) {
				count++
			}
		}
		return count
	}
	for _, v := range nb.List {
		if s.stamp[v] == s.gen {
			count++
		}
	}
	return count
}

func (s *Stamp) AppendDifference(dst []int, nb graph.Neighborhood) []int {
	for _, v := range s.dense {
		if !nb.Has(v) {
			dst = append(dst, v)
		}
	}
	return dst
}

var _ Set = (*Stamp)(nil)
