// Relational suppliers for the per-gene analysis: gene boundaries, promoter
// TSS list, conserved regions per level, and TF pattern metadata.

package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yumyai/tfsite/pkg/site"
)

// GetGene fetches one gene's boundaries and description.
func GetGene(ctx context.Context, db *sql.DB, geneID string) (*Gene, error) {

	qstring := `select gene_id, start_location, end_location, description from gene_info where gene_id == ?`

	stm, err := db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	var g Gene
	row := stm.QueryRowContext(ctx, geneID)
	if err := row.Scan(&g.GeneID, &g.Start, &g.End, &g.Description); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("gene %s: not in gene_info", geneID)
		}
		return nil, err
	}

	return &g, nil
}

// GetPromoters returns the gene's TSS/strand tuples. An empty result is not
// an error: genes without annotated promoters simply have no search space.
func GetPromoters(ctx context.Context, db *sql.DB, geneID string) ([]site.Promoter, error) {

	qstring := `select tss, strand from promoters where gene_id == ? order by tss`

	stm, err := db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, geneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promoters []site.Promoter

	for rows.Next() {
		var p site.Promoter
		if err := rows.Scan(&p.TSS, &p.Strand); err != nil {
			return nil, err
		}
		promoters = append(promoters, p)
	}

	return promoters, rows.Err()
}

// GetConservedRegions returns the gene's conserved regions bucketed by level.
// Each bucket comes back ordered by start_location, which the conservation
// assigner relies on; keep the ORDER BY in step with that precondition.
func GetConservedRegions(ctx context.Context, db *sql.DB, geneID string) (map[int][]site.ConservedRegion, error) {

	qstring := `
		select level, start_location, end_location, score, gc_content
		from conserved_regions
		where gene_id == ?
		order by level, start_location`

	stm, err := db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, geneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byLevel := make(map[int][]site.ConservedRegion)

	for rows.Next() {
		var r site.ConservedRegion
		var gc sql.NullFloat64
		if err := rows.Scan(&r.Level, &r.Start, &r.End, &r.Score, &gc); err != nil {
			return nil, err
		}
		if gc.Valid {
			r.GC = gc.Float64
		}
		byLevel[r.Level] = append(byLevel[r.Level], r)
	}

	return byLevel, rows.Err()
}

// GetPatterns lists every TF pattern known to the platform.
func GetPatterns(ctx context.Context, db *sql.DB) ([]Pattern, error) {

	qstring := `select pattern_id, name, coalesce(cluster_id, '') from tf_patterns order by pattern_id`

	rows, err := db.QueryContext(ctx, qstring)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []Pattern

	for rows.Next() {
		var p Pattern
		if err := rows.Scan(&p.PatternID, &p.Name, &p.ClusterID); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	return patterns, rows.Err()
}

// GetClusterPatterns lists the member pattern IDs of one structural cluster.
func GetClusterPatterns(ctx context.Context, db *sql.DB, clusterID string) ([]string, error) {

	qstring := `select pattern_id from tf_patterns where cluster_id == ? order by pattern_id`

	stm, err := db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, clusterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
