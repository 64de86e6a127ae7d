package handler

// DI for all handlers and models alike.

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/yumyai/tfsite/pkg/model"
)

type DBContext struct {
	DB      *sql.DB
	Seq     model.SequenceSource
	Hits    model.HitSource
	Jobs    *AnalysisJobManager
	Log     *zap.Logger
	Workers int
}

func (dbctx *DBContext) deps() *model.Deps {
	return &model.Deps{
		DB:   dbctx.DB,
		Seq:  dbctx.Seq,
		Hits: dbctx.Hits,
		Log:  dbctx.Log,
	}
}
