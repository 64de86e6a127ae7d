package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/yumyai/tfsite/pkg/model"
	"github.com/yumyai/tfsite/pkg/site"
)

func openHandlerTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	stmts := []string{
		`CREATE TABLE gene_info (gene_id TEXT PRIMARY KEY, start_location INTEGER, end_location INTEGER, description TEXT DEFAULT '')`,
		`CREATE TABLE promoters (gene_id TEXT, tss INTEGER, strand INTEGER)`,
		`CREATE TABLE conserved_regions (gene_id TEXT, level INTEGER, start_location INTEGER, end_location INTEGER, score REAL, gc_content REAL)`,
		`CREATE TABLE tf_patterns (pattern_id TEXT PRIMARY KEY, name TEXT, cluster_id TEXT)`,

		`INSERT INTO gene_info VALUES ('gene-1', 1, 5000, 'fixture gene')`,
		`INSERT INTO gene_info VALUES ('gene-bad', 1, 5000, 'broken annotation')`,
		`INSERT INTO promoters VALUES ('gene-1', 1000, 1)`,
		`INSERT INTO promoters VALUES ('gene-bad', 1000, 0)`,
		`INSERT INTO conserved_regions VALUES ('gene-1', 1, 1, 2000, 0.5, NULL)`,
		`INSERT INTO tf_patterns VALUES ('MA0001', 'HSF1', 'CL0007')`,
	}
	for _, q := range stmts {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}

	return db
}

type stubSeq struct{}

func (stubSeq) GeneSequence(ctx context.Context, geneID string) (string, error) {
	return strings.Repeat("ACGT", 1250), nil
}

func (s stubSeq) RegionSequence(ctx context.Context, geneID string, start, end int) (string, error) {
	seq, _ := s.GeneSequence(ctx, geneID)
	return seq[start-1 : end], nil
}

type stubHits struct{}

func (stubHits) Scan(ctx context.Context, ownerID, sequence, patternID string, threshold float64) ([]site.Site, error) {
	s, _ := site.NewSite(700, 711, site.StrandPlus, 8.5, 0.85, "", patternID, ownerID)
	return []site.Site{s}, nil
}

func testMux(t *testing.T) (*http.ServeMux, *DBContext) {
	t.Helper()

	dbctx := &DBContext{
		DB:      openHandlerTestDB(t),
		Seq:     stubSeq{},
		Hits:    stubHits{},
		Jobs:    NewAnalysisJobManager(),
		Workers: 2,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/gene/{gene_id}/sites", dbctx.GeneSitesHandler)
	mux.HandleFunc("GET /api/v1/gene/{gene_id}/sequence", dbctx.GeneSequenceHandler)
	mux.HandleFunc("POST /api/v1/analysis", dbctx.StartAnalysisHandler)
	mux.HandleFunc("GET /api/v1/analysis/{job_id}", dbctx.AnalysisJobHandler)
	mux.HandleFunc("GET /report/gene/{gene_id}", dbctx.GeneReportHandler)

	return mux, dbctx
}

func TestGeneSitesHandler(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/gene/gene-1/sites?pattern_id=MA0001&threshold=0.8&upstream=500&downstream=500", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var analysis model.GeneAnalysis
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&analysis))
	assert.Equal(t, "gene-1", analysis.GeneID)
	assert.Equal(t, 1, analysis.SiteCounts["MA0001"])
	require.Len(t, analysis.Sites["MA0001"], 1)
	assert.Equal(t, 1, analysis.Sites["MA0001"][0].Level)
}

func TestGeneSitesHandlerInvalidThreshold(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/gene/gene-1/sites?pattern_id=MA0001&threshold=oops", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid threshold value")
}

func TestGeneSitesHandlerUnknownGene(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/gene/gene-none/sites?pattern_id=MA0001&threshold=0.8", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestGeneSequenceHandlerRegion(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gene/gene-1/sequence?start=5&end=12", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		GeneID   string `json:"gene_id"`
		Start    int    `json:"start"`
		End      int    `json:"end"`
		Sequence string `json:"sequence"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "gene-1", resp.GeneID)
	assert.Equal(t, 5, resp.Start)
	assert.Equal(t, 12, resp.End)
	assert.Equal(t, "ACGTACGT", resp.Sequence)
}

func TestGeneSequenceHandlerBadRange(t *testing.T) {
	mux, _ := testMux(t)

	for _, query := range []string{"?start=12&end=5", "?start=0&end=5", "?start=5", "?start=a&end=b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gene/gene-1/sequence"+query, nil)
		rr := httptest.NewRecorder()

		mux.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, query)
	}
}

func TestAnalysisJobLifecycle(t *testing.T) {
	mux, dbctx := testMux(t)

	body := `{"gene_ids":["gene-1","gene-bad"],"pattern_ids":["MA0001"],"threshold":0.8,"upstream":500,"downstream":500}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(body))
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	var accepted map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&accepted))
	jobID := accepted["job_id"]
	require.NotEmpty(t, jobID)

	// The batch is tiny; poll briefly for completion.
	deadline := time.Now().Add(5 * time.Second)
	for {
		job, ok := dbctx.Jobs.GetJob(jobID)
		require.True(t, ok)
		if job.Status == AnalysisJobCompleted {
			require.NotNil(t, job.Result)
			assert.Len(t, job.Result.Analyses, 1)
			break
		}
		require.NotEqual(t, AnalysisJobFailed, job.Status, job.Error)
		require.True(t, time.Now().Before(deadline), "job did not finish")
		time.Sleep(10 * time.Millisecond)
	}

	pollReq := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/"+jobID, nil)
	pollRR := httptest.NewRecorder()
	mux.ServeHTTP(pollRR, pollReq)

	require.Equal(t, http.StatusOK, pollRR.Code)

	// A broken gene's failure reason must survive the JSON round trip.
	raw := pollRR.Body.String()
	assert.Contains(t, raw, "unrecognized strand 0")

	var job AnalysisJob
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, AnalysisJobCompleted, job.Status)
	require.NotNil(t, job.Result)
	assert.Len(t, job.Result.Analyses, 1)
	assert.Contains(t, job.Result.Failed["gene-bad"], "unrecognized strand 0")
}

func TestAnalysisJobNotFound(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/not-a-job", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStartAnalysisHandlerEmptyGenes(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"gene_ids":[]}`))
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGeneReportHandler(t *testing.T) {
	mux, _ := testMux(t)

	req := httptest.NewRequest(http.MethodGet,
		"/report/gene/gene-1?pattern_id=MA0001&threshold=0.8&upstream=500&downstream=500", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	lines := strings.Split(strings.TrimRight(rr.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "gene_id\tpattern"))
	assert.Contains(t, lines[1], "HSF1 (MA0001)")
}
