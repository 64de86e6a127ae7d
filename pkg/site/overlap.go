package site

import "sort"

// FilterOverlaps collapses overlapping hits of one motif down to the locally
// best-scoring one. The input is expected to share a single PatternID; order
// does not matter, the slice is sorted defensively (on a copy, the caller's
// slice is left alone).
//
// Output sites are pairwise non-overlapping and each carries the maximum raw
// score of the overlapping run it came from. Score ties keep the
// earlier-starting hit.
func FilterOverlaps(sites []Site) []Site {
	if len(sites) == 0 {
		return nil
	}

	sorted := make([]Site, len(sites))
	copy(sorted, sites)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := make([]Site, 0, len(sorted))
	current := sorted[0]

	for _, next := range sorted[1:] {
		if next.Overlaps(current) {
			if next.Score > current.Score {
				current = next
			}
			continue
		}
		out = append(out, current)
		current = next
	}

	return append(out, current)
}
