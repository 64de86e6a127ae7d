package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/tfsite/pkg/model"
	"github.com/yumyai/tfsite/pkg/site"
)

// BatchAnalysisRequest is the JSON body of POST /api/v1/analysis.
type BatchAnalysisRequest struct {
	GeneIDs         []string `json:"gene_ids"`
	PatternIDs      []string `json:"pattern_ids,omitempty"`
	ClusterID       string   `json:"cluster_id,omitempty"`
	AnchorID        string   `json:"anchor_id,omitempty"`
	Threshold       float64  `json:"threshold"`
	MaxDistance     int      `json:"max_distance,omitempty"`
	MinConservation int      `json:"min_conservation,omitempty"`
	Upstream        int      `json:"upstream,omitempty"`
	Downstream      int      `json:"downstream,omitempty"`
}

func (req *BatchAnalysisRequest) toOptions() model.AnalysisOptions {
	return model.AnalysisOptions{
		PatternIDs:      req.PatternIDs,
		ClusterID:       req.ClusterID,
		AnchorID:        req.AnchorID,
		Threshold:       req.Threshold,
		MinConservation: req.MinConservation,
		Upstream:        req.Upstream,
		Downstream:      req.Downstream,
		Proximity:       site.ProximityOptions{MaxDistance: req.MaxDistance},
	}
}

// GeneSitesHandler runs one synchronous per-gene analysis.
// GET /api/v1/gene/{gene_id}/sites?pattern_id=MA0001,MA0003&threshold=0.8...
func (dbctx *DBContext) GeneSitesHandler(w http.ResponseWriter, r *http.Request) {

	geneID := r.PathValue("gene_id")
	if geneID == "" {
		http.Error(w, "Missing gene_id", http.StatusBadRequest)
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

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}

// StartAnalysisHandler queues a batch analysis job and returns its ID.
// POST /api/v1/analysis
func (dbctx *DBContext) StartAnalysisHandler(w http.ResponseWriter, r *http.Request) {

	var req BatchAnalysisRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.GeneIDs) == 0 {
		http.Error(w, "gene_ids cannot be empty", http.StatusBadRequest)
		return
	}

	job := dbctx.Jobs.NewJob()

	go func() {
		dbctx.Jobs.SetRunning(job.ID)

		// The request context dies with the HTTP response; the batch runs on
		// its own.
		result, err := model.AnalyzeBatch(context.Background(), dbctx.deps(),
			req.GeneIDs, req.toOptions(), dbctx.Workers)
		if err != nil {
			dbctx.Jobs.FailJob(job.ID, err)
			return
		}
		dbctx.Jobs.CompleteJob(job.ID, result)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"job_id": job.ID})
}

// AnalysisJobHandler polls one batch job.
// GET /api/v1/analysis/{job_id}
func (dbctx *DBContext) AnalysisJobHandler(w http.ResponseWriter, r *http.Request) {

	jobID := r.PathValue("job_id")

	job, ok := dbctx.Jobs.GetJob(jobID)
	if !ok {
		http.Error(w, "No such job", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// parseAnalysisQuery maps query parameters onto AnalysisOptions, collecting
// every parse problem instead of stopping at the first.
func parseAnalysisQuery(r *http.Request) (model.AnalysisOptions, []string) {

	var opts model.AnalysisOptions
	var errorMessages []string

	q := r.URL.Query()

	if raw := q.Get("pattern_id"); raw != "" {
		opts.PatternIDs = strings.Split(raw, ",")
	}
	opts.ClusterID = q.Get("cluster_id")
	opts.AnchorID = q.Get("anchor_id")

	threshold, err := strconv.ParseFloat(q.Get("threshold"), 64)
	if err != nil {
		errorMessages = append(errorMessages, "Invalid threshold value")
	}
	opts.Threshold = threshold

	intParam := func(name string, dst *int) {
		raw := q.Get(name)
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errorMessages = append(errorMessages, "Invalid "+name+" value")
			return
		}
		*dst = v
	}

	intParam("max_distance", &opts.Proximity.MaxDistance)
	intParam("min_conservation", &opts.MinConservation)
	intParam("upstream", &opts.Upstream)
	intParam("downstream", &opts.Downstream)

	return opts, errorMessages
}

// logOrNop lets handlers run without a configured logger in tests.
func (dbctx *DBContext) logOrNop() *zap.Logger {
	if dbctx.Log == nil {
		return zap.NewNop()
	}
	return dbctx.Log
}
