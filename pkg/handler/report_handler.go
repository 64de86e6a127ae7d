package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/tfsite/pkg/model"
	"github.com/yumyai/tfsite/pkg/render"
)

// GeneReportHandler writes the TSV detail report for one gene.
// GET /report/gene/{gene_id}?kind=sites|pairs&pattern_id=...&threshold=...
func (dbctx *DBContext) GeneReportHandler(w http.ResponseWriter, r *http.Request) {

	geneID := r.PathValue("gene_id")
	if geneID == "" {
		http.Error(w, "Missing gene_id", http.StatusBadRequest)
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "sites"
	}
	if kind != "sites" && kind != "pairs" {
		http.Error(w, "kind must be sites or pairs", http.StatusBadRequest)
		return
	}

	opts, errorMessages := parseAnalysisQuery(r)
	if len(errorMessages) > 0 {
		http.Error(w, strings.Join(errorMessages, "; "), http.StatusBadRequest)
		return
	}

	analysis, err := model.AnalyzeGene(r.Context(), dbctx.deps(), geneID, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	patterns, err := model.GetPatterns(r.Context(), dbctx.DB)
	if err != nil {
		http.Error(w, "Pattern lookup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")

	if kind == "pairs" {
		err = render.RenderPairReport(w, analysis, patterns)
	} else {
		err = render.RenderSiteReport(w, analysis, patterns)
	}
	if err != nil {
		dbctx.logOrNop().Error("report rendering failed",
			zap.String("gene_id", geneID),
			zap.Error(err))
	}
}
