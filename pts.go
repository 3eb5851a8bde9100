package pta

import (
	"fmt"
	"strings"

	"golang.org/x/tools/container/intsets"
)

// PointsToSet is a set of abstract objects. Sets grow monotonically during
// solving and are read-only once the analysis has converged.
//
// Membership is tracked in a sparse bit set keyed by object id; the objects
// themselves are kept in insertion order for iteration.
type PointsToSet struct {
	ids  intsets.Sparse
	objs []*CSObj
}

func singleton(o *CSObj) *PointsToSet {
	pts := new(PointsToSet)
	pts.add(o)
	return pts
}

// add inserts o and reports whether it was new.
func (s *PointsToSet) add(o *CSObj) bool {
	if !s.ids.Insert(o.id) {
		return false
	}
	s.objs = append(s.objs, o)
	return true
}

// addAll inserts every object of delta that is not already present and
// returns exactly those objects. The returned diff is what must be
// propagated onward; re-adding known objects yields an empty diff.
func (s *PointsToSet) addAll(delta *PointsToSet) *PointsToSet {
	diff := new(PointsToSet)
	for _, o := range delta.objs {
		if s.add(o) {
			diff.add(o)
		}
	}
	return diff
}

// Contains reports whether o is in the set.
func (s *PointsToSet) Contains(o *CSObj) bool { return s.ids.Has(o.id) }

func (s *PointsToSet) Empty() bool { return len(s.objs) == 0 }

func (s *PointsToSet) Len() int { return len(s.objs) }

// Objects returns the members in insertion order. The returned slice is
// shared with the set and must not be modified.
func (s *PointsToSet) Objects() []*CSObj { return s.objs }

func (s *PointsToSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, o := range s.objs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, o)
	}
	b.WriteByte('}')
	return b.String()
}
