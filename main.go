package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path"

	"github.com/joho/godotenv"

	"github.com/yumyai/tfsite/internal/util"
	"github.com/yumyai/tfsite/logger"
	mydb "github.com/yumyai/tfsite/pkg/db"
	"github.com/yumyai/tfsite/pkg/handler"
	"github.com/yumyai/tfsite/pkg/middle"
	"github.com/yumyai/tfsite/pkg/scanner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "modernc.org/sqlite"
)

var (
	tfsite_data string
)

func main() {

	// Establish logger
	LOG_LEVEL := zapcore.InfoLevel

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	tfsite_data = os.Getenv("TFSITE_DATA")

	if tfsite_data == "" {
		logger.Warn("No local environment (TFSITE_DATA), using default value (./data)")
		tfsite_data = "./data"
	}

	scanner_bin := os.Getenv("TFSITE_SCANNER")
	addr := os.Getenv("TFSITE_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	tfsite_sqlite := path.Join(tfsite_data, "db/tfsite.db")
	matrix_dir := path.Join(tfsite_data, "matrices")

	if !util.FileExists(tfsite_sqlite) {
		logger.Warn("Site database missing, queries will fail", zap.String("DB_LOC", tfsite_sqlite))
	}

	// Connect to db
	db, _ := sql.Open("sqlite", tfsite_sqlite)

	seqdb, err := mydb.NewSequenceDB(tfsite_data)
	if err != nil {
		logger.Fatal("Sequence store unusable", zap.Error(err))
	}

	tfdb := mydb.NewTFDB(db, seqdb)
	if err := tfdb.Check(context.Background()); err != nil {
		logger.Fatal("Site database unusable", zap.Error(err))
	}

	pwmScanner, err := scanner.NewScanner(scanner_bin, matrix_dir)
	if err != nil {
		logger.Fatal("Scanner unusable", zap.Error(err))
	}

	dbctx := &handler.DBContext{
		DB:      tfdb.SiteSQL,
		Seq:     tfdb.SeqDB,
		Hits:    pwmScanner,
		Jobs:    handler.NewAnalysisJobManager(),
		Log:     logger.L(),
		Workers: 4,
	}

	logger.Info("Start:", zap.String("Version", handler.Version))
	logger.Info("Open database on", zap.String("DB_LOC", tfsite_sqlite))

	mux := NewRouter(dbctx)

	// Apply middleware
	m := middle.LoggingMiddleware(logger.L())
	root := middle.RequestIDMiddleware(m(mux))

	logger.Info("Server starting", zap.String("addr", addr))
	httpErr := http.ListenAndServe(addr, root)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}

// Move to router.go in the next iteration
func NewRouter(dbctx *handler.DBContext) *http.ServeMux {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("GET /api/v1/health", handler.HealthCheck)
	mux.HandleFunc("GET /api/v1/gene/{gene_id}/sites", dbctx.GeneSitesHandler)
	mux.HandleFunc("GET /api/v1/gene/{gene_id}/sequence", dbctx.GeneSequenceHandler)
	mux.HandleFunc("POST /api/v1/analysis", dbctx.StartAnalysisHandler)
	mux.HandleFunc("GET /api/v1/analysis/{job_id}", dbctx.AnalysisJobHandler)

	// Reports
	mux.HandleFunc("GET /report/gene/{gene_id}", dbctx.GeneReportHandler)

	return mux
}
