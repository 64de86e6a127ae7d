package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// regionSequencer is the slice-capable side of the sequence store. The
// analysis path only needs whole-gene records, so DBContext.Seq stays the
// narrower model.SequenceSource.
type regionSequencer interface {
	RegionSequence(ctx context.Context, geneID string, start, end int) (string, error)
}

type sequenceResponse struct {
	GeneID   string `json:"gene_id"`
	Start    int    `json:"start,omitempty"`
	End      int    `json:"end,omitempty"`
	Sequence string `json:"sequence"`
}

// GeneSequenceHandler serves a gene's sequence, or the start..end slice of it
// (1-based, inclusive) when both bounds are given.
// GET /api/v1/gene/{gene_id}/sequence?start=100&end=250
func (dbctx *DBContext) GeneSequenceHandler(w http.ResponseWriter, r *http.Request) {

	geneID := r.PathValue("gene_id")
	if geneID == "" {
		http.Error(w, "Missing gene_id", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	resp := sequenceResponse{GeneID: geneID}

	var err error
	if q.Has("start") || q.Has("end") {
		start, serr := strconv.Atoi(q.Get("start"))
		end, eerr := strconv.Atoi(q.Get("end"))
		if serr != nil || eerr != nil || start < 1 || end < start {
			http.Error(w, "start and end must form a 1-based inclusive range", http.StatusBadRequest)
			return
		}

		slicer, ok := dbctx.Seq.(regionSequencer)
		if !ok {
			http.Error(w, "Sequence store cannot slice regions", http.StatusNotImplemented)
			return
		}

		resp.Start, resp.End = start, end
		resp.Sequence, err = slicer.RegionSequence(r.Context(), geneID, start, end)
	} else {
		resp.Sequence, err = dbctx.Seq.GeneSequence(r.Context(), geneID)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
