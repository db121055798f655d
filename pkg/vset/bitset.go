package vset

import (
	"math/bits"

	"github.com/jamestrimble/maximal-clique/pkg/graph"
)

// Bitset is a Set backed by packed 64-bit words.
//
// Len is a popcount over all words; callers on hot paths should read it
// once per frame. Intersections with another Bitset are word-parallel.
type Bitset struct {
	words []uint64
	n     int
}

// NewBitset creates an empty Bitset with capacity n.
func NewBitset(n int) *Bitset {
	return &Bitset{words: make([]uint64, graph.WordsFor(n)), n: n}
}

func (b *Bitset) Cap() int { return b.n }

func (b *Bitset) Len() int {
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}
	return count
}

func (b *Bitset) Has(v int) bool {
	checkRange(v, b.n)
	return b.words[v>>6]&(1<<(uint(v)&63)) != 0
}

func (b *Bitset) Add(v int) {
	checkRange(v, b.n)
	b.words[v>>6] |= 1 << (uint(v) & 63)
}

func (b *Bitset) Remove(v int) {
	checkRange(v, b.n)
	b.words[v>>6] &^= 1 << (uint(v) & 63)
}

func (b *Bitset) Clear() { clear(b.words) }

// Empty reports whether no bit is set, stopping at the first non-zero word.
func (b *Bitset) Empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Words exposes the backing words. The slice is owned by the set.
func (b *Bitset) Words() []uint64 { return b.words }

func (b *Bitset) AppendTo(dst []int) []int {
	return appendBits(dst, b.words)
}

func (b *Bitset) Intersect(nb graph.Neighborhood, dst Set) {
	if out, ok := dst.(*Bitset); ok {
		for i, w := range b.words {
			out.words[i] = w & nb.Bits[i]
		}
		return
	}
	dst.Clear()
	for i, w := range b.words {
		w &= nb.Bits[i]
		for w != 0 {
			dst.Add(i<<6 + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}

func (b *Bitset) IntersectLen(nb graph.Neighborhood) int {
	count := 0
	for i, w := range b.words {
		count += bits.OnesCount64(w & nb.Bits[i])
	}
	return count
}

func (b *Bitset) AppendDifference(dst []int, nb graph.Neighborhood) []int {
	for i, w := range b.words {
		w &^= nb.Bits[i]
		for w != 0 {
			dst = append(dst, i<<6+bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
	return dst
}

// appendBits appends the index of every set bit, lowest first.
func appendBits(dst []int, words []uint64) []int {
	for i, w := range words {
		for w != 0 {
			dst = append(dst, i<<6+bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
	return dst
}

var _ Set = (*Bitset)(nil)
