package site

import "sort"

// DefaultMinOverlap is the minimum number of bases a hit must share with a
// conserved region to count as supported at that region's level.
const DefaultMinOverlap = 1

// ConservationOptions controls Assign. The zero value selects the canonical
// 1-bp minimum overlap.
type ConservationOptions struct {
	MinOverlap int
}

func (o ConservationOptions) minOverlap() int {
	if o.MinOverlap <= 0 {
		return DefaultMinOverlap
	}
	return o.MinOverlap
}

type conservedLevel struct {
	level   int
	regions []ConservedRegion
}

// ConservationSet holds one gene's conserved regions bucketed by level,
// ordered strictest first. Region lists MUST already be sorted ascending by
// start, the way the persistence layer returns them; Assign relies on that
// ordering for its early exit and does not re-sort.
type ConservationSet struct {
	levels []conservedLevel
}

// NewConservationSet buckets regions by level. Build one per gene and reuse
// it for every hit of that gene.
func NewConservationSet(byLevel map[int][]ConservedRegion) *ConservationSet {
	cs := &ConservationSet{levels: make([]conservedLevel, 0, len(byLevel))}
	for level, regions := range byLevel {
		cs.levels = append(cs.levels, conservedLevel{level: level, regions: regions})
	}
	// Strictest (highest) level first.
	sort.Slice(cs.levels, func(i, j int) bool {
		return cs.levels[i].level > cs.levels[j].level
	})
	return cs
}

// Assign finds the highest conservation level supporting the hit with at
// least MinOverlap bp, together with the best conservation score among the
// qualifying regions at that level. Levels are tried strictest to loosest;
// since stricter levels are subsets of looser ones, the first level with any
// qualifying region is the answer. ok is false when no level supports the
// hit at all — the hit is unconserved and the caller decides how to report
// the drop.
func (cs *ConservationSet) Assign(hit Site, opts ConservationOptions) (level int, score float64, ok bool) {
	minOv := opts.minOverlap()

	for _, cl := range cs.levels {
		found := false
		best := 0.0

		for _, region := range cl.regions {
			if region.Start > hit.End-minOv+1 {
				// Sorted by start: nothing further at this level can reach
				// back into the hit.
				break
			}
			if region.End >= hit.Start+minOv-1 {
				if !found || region.Score > best {
					best = region.Score
				}
				found = true
			}
		}

		if found {
			return cl.level, best, true
		}
	}

	return 0, 0, false
}
