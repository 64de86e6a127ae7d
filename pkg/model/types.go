package model

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/yumyai/tfsite/pkg/site"
)

// Gene is one analysis unit: boundaries in the working frame plus metadata.
type Gene struct {
	GeneID      string `json:"gene_id"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Description string `json:"description"`
}

// Pattern is one TF model known to the platform, optionally grouped into a
// structural cluster.
type Pattern struct {
	PatternID string `json:"pattern_id"`
	Name      string `json:"name"`
	ClusterID string `json:"cluster_id,omitempty"`
}

// ConservedSite is a consolidated hit together with its assigned conservation
// level and the best conservation score supporting it.
type ConservedSite struct {
	site.Site
	Level        int     `json:"conservation_level"`
	Conservation float64 `json:"conservation_score"`
}

// GeneAnalysis is the full result of one per-gene pass, handed to report
// rendering and to the external enrichment statistics.
type GeneAnalysis struct {
	GeneID        string                     `json:"gene_id"`
	SearchRegions []site.SearchRegion        `json:"search_regions"`
	SearchLength  int                        `json:"search_length"`
	SearchGC      float64                    `json:"search_gc"`
	Sites         map[string][]ConservedSite `json:"sites"`
	SiteCounts    map[string]int             `json:"site_counts"`
	Pairs         []site.SitePair            `json:"pairs,omitempty"`
	Dropped       int                        `json:"dropped_unconserved"`
}

// AnalysisOptions replaces the old bag-of-named-arguments call convention
// with explicit, defaulted fields.
//
// Exactly one of PatternIDs (single-motif mode, hits deduplicated per
// pattern) or ClusterID (cluster mode, hits pooled and merged) must be set.
// AnchorID switches on the proximal-pair search against that pattern or
// cluster.
type AnalysisOptions struct {
	PatternIDs []string
	ClusterID  string
	AnchorID   string

	// Threshold is the scanner score cutoff, required, in (0,1].
	Threshold float64

	// MinConservation drops sites below this level after assignment;
	// 0 keeps every conserved site.
	MinConservation int

	// Upstream/Downstream bp around each TSS; 0 falls back to the gene
	// boundary.
	Upstream   int
	Downstream int

	Merge        site.MergeOptions
	Conservation site.ConservationOptions
	Proximity    site.ProximityOptions
}

// SequenceSource supplies the raw gene sequence the scanner runs on.
type SequenceSource interface {
	GeneSequence(ctx context.Context, geneID string) (string, error)
}

// HitSource produces raw scored hits for one pattern on one sequence.
type HitSource interface {
	Scan(ctx context.Context, ownerID, sequence, patternID string, threshold float64) ([]site.Site, error)
}

// Deps carries the collaborators of a per-gene analysis call. Log replaces
// the ambient global logger the per-gene code used to reach for; a nil Log
// means discard.
type Deps struct {
	DB   *sql.DB
	Seq  SequenceSource
	Hits HitSource
	Log  *zap.Logger
}

func (d *Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
