package db

import (
	"context"
	"database/sql"
	"fmt"
)

// TFDB bundles the relational store (genes, promoters, conserved regions,
// TF patterns) with the on-disk sequence store.
type TFDB struct {
	SiteSQL *sql.DB
	SeqDB   *SequenceDB
}

func NewTFDB(db *sql.DB, seqdb *SequenceDB) *TFDB {
	return &TFDB{
		SiteSQL: db,
		SeqDB:   seqdb,
	}
}

// requiredTables is the schema surface the analysis queries touch.
var requiredTables = []string{"gene_info", "promoters", "conserved_regions", "tf_patterns"}

// Check verifies the site database actually carries the expected tables, so
// a mispointed TFSITE_DATA fails at startup instead of on the first query.
func (tfdb *TFDB) Check(ctx context.Context) error {
	const q = `select count(*) from sqlite_master where type == 'table' and name == ?`

	for _, table := range requiredTables {
		var n int
		if err := tfdb.SiteSQL.QueryRowContext(ctx, q, table).Scan(&n); err != nil {
			return fmt.Errorf("schema check: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("schema check: missing table %s", table)
		}
	}
	return nil
}
