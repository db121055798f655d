package vset

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/jamestrimble/maximal-clique/pkg/graph"
)

// Roaring is a Set backed by a compressed roaring bitmap. It suits very
// large vertex ranges where most candidate sets are sparse.
type Roaring struct {
	bm *roaring.Bitmap
	n  int
}

// NewRoaring creates an empty Roaring set with capacity n.
func NewRoaring(n int) *Roaring {
	return &Roaring{bm: roaring.New(), n: n}
}

func (r *Roaring) Cap() int { return r.n }

func (r *Roaring) Len() int { return int(r.bm.GetCardinality()) }

func (r *Roaring) Has(v int) bool {
	checkRange(v, r.n)
	return r.bm.Contains(uint32(v))
}

func (r *Roaring) Add(v int) {
	checkRange(v, r.n)
	r.bm.Add(uint32(v))
}

func (r *Roaring) Remove(v int) {
	checkRange(v, r.n)
	r.bm.Remove(uint32(v))
}

func (r *Roaring) Clear() { r.bm.Clear() }

func (r *Roaring) AppendTo(dst []int) []int {
	r.bm.Iterate(func(x uint32) bool {
		dst = append(dst, int(x))
		return true
	})
	return dst
}

func (r *Roaring) Intersect(nb graph.Neighborhood, dst Set) {
	dst.Clear()
	if r.Len() < nb.Len() {
		r.bm.Iterate(func(x uint32) bool {
			if nb.Has(int(x)) {
				dst.Add(int(x))
			}
			return true
		})
		return
	}
	for _, v := range nb.List {
		if r.bm.Contains(uint32(v)) {
			dst.Add(v)
		}
	}
}

func (r *Roaring) IntersectLen(nb graph.Neighborhood) int {
	count := 0
	if r.Len() < nb.Len() {
		r.bm.Iterate(func(x uint32) bool {
			if nb.Has(int(x)) {
				count++
			}
			return true
		})
		return count
	}
	for _, v := range nb.List {
		if r.bm.Contains(uint32(v)) {
			count++
		}
	}
	return count
}

func (r *Roaring) AppendDifference(dst []int, nb graph.Neighborhood) []int {
	r.bm.Iterate(func(x uint32) bool {
		if !nb.Has(int(x)) {
			dst = append(dst, int(x))
		}
		return true
	})
	return dst
}

var _ Set = (*Roaring)(nil)
