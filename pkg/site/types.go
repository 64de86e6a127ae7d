// Value types shared by the interval routines. Coordinates are 1-based
// inclusive, relative to the gene or sequence frame they were scanned in.

package site

import (
	"fmt"
)

// Strand of a hit. Only +1 and -1 are valid; anything else is rejected at
// construction.
const (
	StrandPlus  = 1
	StrandMinus = -1
)

// Site is one putative TFBS hit, produced by the motif scanner or by a merge
// operation. Treat a Site as immutable once built: merge steps construct new
// values instead of rewriting ones already handed out.
type Site struct {
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Strand   int     `json:"strand"`
	Score    float64 `json:"score"`
	RelScore float64 `json:"rel_score"`
	Sequence string  `json:"sequence,omitempty"`
	// PatternID is the motif/TF the scanner matched, or the cluster ID after
	// the hit has been merged into a cluster interval.
	PatternID string `json:"pattern_id"`
	OwnerID   string `json:"owner_id"`
}

// ConservedRegion is a precomputed phylogenetic-footprinting interval at one
// conservation level. Larger Level means a stricter conservation cutoff.
type ConservedRegion struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Level int     `json:"level"`
	Score float64 `json:"score"`
	GC    float64 `json:"gc_content,omitempty"`
}

// SearchRegion is an allowed promoter window on the gene frame.
type SearchRegion struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SitePair is an anchor/partner co-occurrence within a bounded distance.
// Distance counts the bases strictly between the two sites.
type SitePair struct {
	Anchor   Site `json:"anchor"`
	Partner  Site `json:"partner"`
	Distance int  `json:"distance"`
}

// NewSite validates bounds, strand and sequence length once, so the sweep
// routines never have to re-check.
func NewSite(start, end, strand int, score, relScore float64, sequence, patternID, ownerID string) (Site, error) {
	if start > end {
		return Site{}, fmt.Errorf("site %s/%s: start %d > end %d", ownerID, patternID, start, end)
	}
	if strand != StrandPlus && strand != StrandMinus {
		return Site{}, fmt.Errorf("site %s/%s: unrecognized strand %d", ownerID, patternID, strand)
	}
	if sequence != "" && len(sequence) != end-start+1 {
		return Site{}, fmt.Errorf("site %s/%s: sequence length %d does not span [%d,%d]",
			ownerID, patternID, len(sequence), start, end)
	}
	return Site{
		Start:     start,
		End:       end,
		Strand:    strand,
		Score:     score,
		RelScore:  relScore,
		Sequence:  sequence,
		PatternID: patternID,
		OwnerID:   ownerID,
	}, nil
}

// Length in bp.
func (s Site) Length() int {
	return s.End - s.Start + 1
}

// Overlaps reports strict positional overlap with o.
func (s Site) Overlaps(o Site) bool {
	return s.Start <= o.End && s.End >= o.Start
}

func (r ConservedRegion) Length() int {
	return r.End - r.Start + 1
}

func (w SearchRegion) Length() int {
	return w.End - w.Start + 1
}

// Contains reports whether pos falls inside the window.
func (w SearchRegion) Contains(pos int) bool {
	return pos >= w.Start && pos <= w.End
}
