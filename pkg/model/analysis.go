// Per-gene analysis pass: derive the promoter search space, scan for hits,
// consolidate them, keep the conserved ones, and optionally pair them against
// an anchor pattern. Everything here works on in-memory values scoped to one
// gene; nothing is shared between concurrent calls.

package model

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/tfsite/pkg/site"
)

var ErrNoPatterns = errors.New("no patterns requested")

func (opts *AnalysisOptions) validate() error {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		return fmt.Errorf("threshold %v out of (0,1]", opts.Threshold)
	}
	if opts.ClusterID != "" && len(opts.PatternIDs) > 0 {
		return errors.New("cluster and single-motif modes are mutually exclusive")
	}
	if opts.ClusterID == "" && len(opts.PatternIDs) == 0 {
		return ErrNoPatterns
	}
	if opts.Proximity.MaxDistance < 0 {
		return fmt.Errorf("max_distance %d is negative", opts.Proximity.MaxDistance)
	}
	return nil
}

// AnalyzeGene runs one full pass for one gene. Configuration-class failures
// (bad strand annotation, missing parameters, scanner breakage) come back as
// errors and fail only this gene; absence of promoters, hits or conservation
// is an empty result, not an error.
func AnalyzeGene(ctx context.Context, deps *Deps, geneID string, opts AnalysisOptions) (*GeneAnalysis, error) {

	log := deps.logger().With(zap.String("gene_id", geneID))

	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("gene %s: %w", geneID, err)
	}

	gene, err := GetGene(ctx, deps.DB, geneID)
	if err != nil {
		return nil, err
	}

	analysis := &GeneAnalysis{
		GeneID:     geneID,
		Sites:      make(map[string][]ConservedSite),
		SiteCounts: make(map[string]int),
	}

	// Search space from the promoter annotation.
	promoters, err := GetPromoters(ctx, deps.DB, geneID)
	if err != nil {
		return nil, err
	}
	if len(promoters) == 0 {
		log.Info("no promoters annotated, empty search space")
		return analysis, nil
	}

	windows := make([]site.SearchRegion, 0, len(promoters))
	for _, p := range promoters {
		w, ok, err := site.PromoterWindow(p, gene.Start, gene.End, opts.Upstream, opts.Downstream)
		if err != nil {
			return nil, fmt.Errorf("gene %s: %w", geneID, err)
		}
		if !ok {
			log.Debug("promoter window clamps to nothing", zap.Int("tss", p.TSS))
			continue
		}
		windows = append(windows, w)
	}

	combined := site.CombineSearchRegions(windows)
	analysis.SearchRegions = combined
	analysis.SearchLength = site.TotalLength(combined)
	if len(combined) == 0 {
		return analysis, nil
	}

	sequence, err := deps.Seq.GeneSequence(ctx, geneID)
	if err != nil {
		return nil, fmt.Errorf("gene %s: %w", geneID, err)
	}
	analysis.SearchGC = searchGC(sequence, gene.Start, combined)

	// Which patterns to scan for.
	patternIDs := opts.PatternIDs
	if opts.ClusterID != "" {
		patternIDs, err = GetClusterPatterns(ctx, deps.DB, opts.ClusterID)
		if err != nil {
			return nil, err
		}
		if len(patternIDs) == 0 {
			log.Warn("cluster has no member patterns", zap.String("cluster_id", opts.ClusterID))
			return analysis, nil
		}
	}

	// Raw hits, shifted onto the gene frame and clipped to the combined
	// windows so a hit spanning two promoters' overlap counts once.
	hitsByPattern := make(map[string][]site.Site, len(patternIDs))
	for _, pid := range patternIDs {
		hits, err := deps.Hits.Scan(ctx, geneID, sequence, pid, opts.Threshold)
		if err != nil {
			return nil, fmt.Errorf("gene %s: %w", geneID, err)
		}
		hitsByPattern[pid] = clipToWindows(toGeneFrame(hits, gene.Start), combined)
	}

	// Consolidation: merge the pooled cluster hits, or deduplicate each
	// motif's own overlaps. The two modes are mutually exclusive.
	consolidated := make(map[string][]site.Site)
	if opts.ClusterID != "" {
		var pool []site.Site
		for _, hits := range hitsByPattern {
			pool = append(pool, hits...)
		}
		consolidated[opts.ClusterID] = site.MergeCluster(pool, opts.ClusterID, opts.Merge)
	} else {
		for pid, hits := range hitsByPattern {
			consolidated[pid] = site.FilterOverlaps(hits)
		}
	}

	// Conservation: keep a hit at the strictest level supporting it, drop
	// unconserved hits loudly.
	byLevel, err := GetConservedRegions(ctx, deps.DB, geneID)
	if err != nil {
		return nil, err
	}
	conservation := site.NewConservationSet(byLevel)

	for pid, sites := range consolidated {
		kept := make([]ConservedSite, 0, len(sites))
		for _, s := range sites {
			level, score, ok := conservation.Assign(s, opts.Conservation)
			if !ok {
				log.Warn("dropping unconserved site",
					zap.String("pattern_id", pid),
					zap.Int("start", s.Start),
					zap.Int("end", s.End))
				analysis.Dropped++
				continue
			}
			if level < opts.MinConservation {
				log.Debug("site below conservation floor",
					zap.String("pattern_id", pid),
					zap.Int("level", level))
				continue
			}
			kept = append(kept, ConservedSite{Site: s, Level: level, Conservation: score})
		}
		analysis.Sites[pid] = kept
		analysis.SiteCounts[pid] = len(kept)
	}

	// Optional anchored co-occurrence search.
	if opts.AnchorID != "" {
		anchors := bareSites(analysis.Sites[opts.AnchorID])

		pids := make([]string, 0, len(analysis.Sites))
		for pid := range analysis.Sites {
			pids = append(pids, pid)
		}
		sort.Strings(pids)

		var partners []site.Site
		for _, pid := range pids {
			partners = append(partners, bareSites(analysis.Sites[pid])...)
		}
		analysis.Pairs = site.ProximalPairs(anchors, partners, opts.Proximity)
	}

	return analysis, nil
}

// toGeneFrame shifts scanner hits, 1-based on the gene sequence record, onto
// the gene frame. Windows and conserved regions are annotated in that frame;
// searchGC applies the inverse mapping.
func toGeneFrame(hits []site.Site, geneStart int) []site.Site {
	offset := geneStart - 1
	if offset == 0 {
		return hits
	}

	shifted := make([]site.Site, len(hits))
	for i, h := range hits {
		h.Start += offset
		h.End += offset
		shifted[i] = h
	}
	return shifted
}

// clipToWindows keeps the hits falling entirely inside one of the combined
// windows. Windows are disjoint, so a hit can match at most one.
func clipToWindows(hits []site.Site, windows []site.SearchRegion) []site.Site {
	if len(windows) == 0 {
		return nil
	}

	kept := make([]site.Site, 0, len(hits))
	for _, h := range hits {
		for _, w := range windows {
			if w.Contains(h.Start) && w.Contains(h.End) {
				kept = append(kept, h)
				break
			}
		}
	}
	return kept
}

func bareSites(sites []ConservedSite) []site.Site {
	out := make([]site.Site, len(sites))
	for i, s := range sites {
		out[i] = s.Site
	}
	return out
}

// searchGC is the GC fraction over the combined windows, with positions
// mapped from the gene frame onto the sequence record (frame position
// geneStart is sequence index 0).
func searchGC(sequence string, geneStart int, windows []site.SearchRegion) float64 {
	gc, total := 0, 0

	for _, w := range windows {
		lo := w.Start - geneStart
		hi := w.End - geneStart + 1
		if lo < 0 {
			lo = 0
		}
		if hi > len(sequence) {
			hi = len(sequence)
		}
		for i := lo; i < hi; i++ {
			switch sequence[i] {
			case 'G', 'C', 'g', 'c':
				gc++
			}
			total++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(gc) / float64(total)
}

// PatternLabel renders "name (pattern_id)" for reports, falling back to the
// bare ID when the name is unknown.
func PatternLabel(patterns []Pattern, patternID string) string {
	for _, p := range patterns {
		if p.PatternID == patternID {
			if p.Name != "" && !strings.EqualFold(p.Name, patternID) {
				return fmt.Sprintf("%s (%s)", p.Name, patternID)
			}
			break
		}
	}
	return patternID
}
