package clique

import "github.com/jamestrimble/maximal-clique/pkg/vset"

// Pivot is the outcome of pivot selection: either a vertex to pivot on, or a
// dominated frame that contributes no maximal cliques.
type Pivot struct {
	Vertex    int
	Dominated bool
}

func pivotOn(v int) Pivot { return Pivot{Vertex: v} }

var dominated = Pivot{Vertex: -1, Dominated: true}

// choosePivot scans X then P for the vertex u maximising |P ∩ N(u)|. It
// returns early once some u reaches |P|-1: with |P| the frame is dominated,
// with |P|-1 no later vertex can leave fewer branches. scan is the depth's
// scratch buffer; the grown buffer is returned for reuse.
//
// P must not be empty.
func (s *Searcher) choosePivot(p, x vset.Set, scan []int) (Pivot, []int) {
	sizeP := p.Len()
	best, bestSize := -1, -1
	for _, set := range [2]vset.Set{x, p} {
		scan = set.AppendTo(scan[:0])
		for _, u := range scan {
			sz := p.IntersectLen(s.g.Neighborhood(u))
			if sz <= bestSize {
				continue
			}
			if sz >= sizeP-1 {
				if sz == sizeP {
					return dominated, scan
				}
				return pivotOn(u), scan
			}
			best, bestSize = u, sz
		}
	}
	if best < 0 {
		panic("clique: pivot selection on an empty candidate set")
	}
	return pivotOn(best), scan
}
