// TSV detail reports for one gene's analysis: a site table and, when the
// anchored search ran, a pair table. Consumed by spreadsheet users and by the
// downstream statistics scripts, so column order is part of the contract.

package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/yumyai/tfsite/pkg/model"
)

var siteHeader = []string{
	"gene_id", "pattern", "start", "end", "strand",
	"score", "rel_score", "conservation_level", "conservation_score", "sequence",
}

var pairHeader = []string{
	"gene_id", "anchor_pattern", "anchor_start", "anchor_end",
	"partner_pattern", "partner_start", "partner_end", "distance",
}

// RenderSiteReport writes the site table. Patterns come out in lexical order
// so repeated runs diff cleanly.
func RenderSiteReport(w io.Writer, analysis *model.GeneAnalysis, patterns []model.Pattern) error {

	if err := writeRow(w, siteHeader); err != nil {
		return err
	}

	pids := make([]string, 0, len(analysis.Sites))
	for pid := range analysis.Sites {
		pids = append(pids, pid)
	}
	sort.Strings(pids)

	for _, pid := range pids {
		label := model.PatternLabel(patterns, pid)
		for _, s := range analysis.Sites[pid] {
			row := []string{
				analysis.GeneID,
				label,
				fmt.Sprintf("%d", s.Start),
				fmt.Sprintf("%d", s.End),
				strandSymbol(s.Strand),
				fmt.Sprintf("%.3f", s.Score),
				fmt.Sprintf("%.3f", s.RelScore),
				fmt.Sprintf("%d", s.Level),
				fmt.Sprintf("%.3f", s.Conservation),
				s.Sequence,
			}
			if err := writeRow(w, row); err != nil {
				return err
			}
		}
	}

	return nil
}

// RenderPairReport writes the anchored pair table.
func RenderPairReport(w io.Writer, analysis *model.GeneAnalysis, patterns []model.Pattern) error {

	if err := writeRow(w, pairHeader); err != nil {
		return err
	}

	for _, p := range analysis.Pairs {
		row := []string{
			analysis.GeneID,
			model.PatternLabel(patterns, p.Anchor.PatternID),
			fmt.Sprintf("%d", p.Anchor.Start),
			fmt.Sprintf("%d", p.Anchor.End),
			model.PatternLabel(patterns, p.Partner.PatternID),
			fmt.Sprintf("%d", p.Partner.Start),
			fmt.Sprintf("%d", p.Partner.End),
			fmt.Sprintf("%d", p.Distance),
		}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}

	return nil
}

func writeRow(w io.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if _, err := io.WriteString(w, "\t"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, f); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func strandSymbol(strand int) string {
	if strand < 0 {
		return "-"
	}
	return "+"
}
