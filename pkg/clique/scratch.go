package clique

import "github.com/jamestrimble/maximal-clique/pkg/vset"

// frame is the scratch storage for one recursion depth: the child candidate
// and excluded sets, the branching list and the pivot scan buffer.
type frame struct {
	p, x   vset.Set
	branch []int
	scan   []int
}

// scratch is a depth-indexed pool of frames. Only one call is live at any
// depth at a time, so a frame is borrowed for the duration of a call and
// reused by its next sibling.
type scratch struct {
	n      int
	newSet func(n int) vset.Set
	frames []*frame
}

func newScratch(n int, newSet func(n int) vset.Set) *scratch {
	return &scratch{n: n, newSet: newSet}
}

// at returns the frame for depth, allocating it on the first visit.
func (s *scratch) at(depth int) *frame {
	for len(s.frames) <= depth {
		s.frames = append(s.frames, &frame{
			p:      s.newSet(s.n),
			x:      s.newSet(s.n),
			branch: make([]int, 0, s.n),
			scan:   make([]int, 0, s.n),
		})
	}
	return s.frames[depth]
}

// depth reports how many frames have been allocated.
func (s *scratch) depth() int { return len(s.frames) }
