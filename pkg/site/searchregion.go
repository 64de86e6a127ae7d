package site

import (
	"fmt"
	"sort"
)

// Promoter is one transcription start site with its transcription direction,
// as supplied by the promoter source.
type Promoter struct {
	TSS    int `json:"tss"`
	Strand int `json:"strand"`
}

// PromoterWindow derives the allowed search window around one promoter,
// clamped to the gene boundaries. upstream/downstream are bp offsets from the
// TSS; zero or negative means unset, which falls back to the corresponding
// gene boundary. On the minus strand the arithmetic mirrors: upstream extends
// toward larger coordinates.
//
// A strand other than +1/-1 is a configuration error for the gene. A window
// that clamps to nothing (Start > End, TSS outside the gene) comes back
// zero-sized with ok=false and should simply be skipped.
func PromoterWindow(p Promoter, geneStart, geneEnd, upstream, downstream int) (SearchRegion, bool, error) {
	var w SearchRegion

	switch p.Strand {
	case StrandPlus:
		w.Start = geneStart
		if upstream > 0 && p.TSS-upstream > geneStart {
			w.Start = p.TSS - upstream
		}
		w.End = geneEnd
		if downstream > 0 && p.TSS+downstream-1 < geneEnd {
			w.End = p.TSS + downstream - 1
		}
	case StrandMinus:
		w.End = geneEnd
		if upstream > 0 && p.TSS+upstream < geneEnd {
			w.End = p.TSS + upstream
		}
		w.Start = geneStart
		if downstream > 0 && p.TSS-downstream+1 > geneStart {
			w.Start = p.TSS - downstream + 1
		}
	default:
		return SearchRegion{}, false, fmt.Errorf("promoter at %d: unrecognized strand %d", p.TSS, p.Strand)
	}

	if w.Start > w.End {
		return SearchRegion{}, false, nil
	}
	return w, true, nil
}

// CombineSearchRegions merges overlapping or adjacent (gap <= 1 bp) promoter
// windows into a minimal disjoint set, so hits falling into more than one
// promoter's window are only counted once. The input order does not matter.
func CombineSearchRegions(windows []SearchRegion) []SearchRegion {
	if len(windows) == 0 {
		return nil
	}

	sorted := make([]SearchRegion, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := make([]SearchRegion, 0, len(sorted))
	current := sorted[0]

	for _, next := range sorted[1:] {
		if next.Start > current.End+1 {
			out = append(out, current)
			current = next
			continue
		}
		if next.End > current.End {
			current.End = next.End
		}
	}

	return append(out, current)
}

// TotalLength sums the lengths of the windows. On a combined set this is the
// per-gene search space used for length-normalized statistics downstream.
func TotalLength(windows []SearchRegion) int {
	total := 0
	for _, w := range windows {
		total += w.Length()
	}
	return total
}
