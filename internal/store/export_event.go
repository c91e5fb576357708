package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const exportsTable = "exports"

// exportsDDL creates the table described by ent/schema.Export.
var exportsDDL = []string{`CREATE TABLE IF NOT EXISTS exports (
	id TEXT PRIMARY KEY,
	sequence INTEGER NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	header TEXT NOT NULL,
	family TEXT NOT NULL DEFAULT '',
	problem_count INTEGER NOT NULL DEFAULT 0,
	source_path TEXT NOT NULL DEFAULT '',
	pdf_path TEXT NOT NULL DEFAULT '',
	preview_path TEXT NOT NULL DEFAULT '',
	degraded INTEGER NOT NULL DEFAULT 0,
	success INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS export_created_at ON exports (created_at)`,
	`CREATE INDEX IF NOT EXISTS export_family ON exports (family)`,
	`CREATE INDEX IF NOT EXISTS export_success ON exports (success)`,
}

var exportColumns = []string{
	"id", "sequence", "created_at", "header", "family", "problem_count",
	"source_path", "pdf_path", "preview_path", "degraded", "success", "error_message",
}

// exportRepo implements ExportRepo with ent's SQL builder over database/sql.
type exportRepo struct {
	db      *sql.DB
	mu      *sync.Mutex
	builder *entsql.DialectBuilder
}

func (r *exportRepo) Append(ctx context.Context, rec ExportRecord) (ExportRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ExportRecord{}, fmt.Errorf("begin export insert: %w", err)
	}
	defer tx.Rollback()

	if rec.Sequence == 0 {
		seq, err := nextSequence(ctx, tx)
		if err != nil {
			return ExportRecord{}, err
		}
		rec.Sequence = seq
	}

	query, args := r.builder.Insert(exportsTable).
		Columns(exportColumns...).
		Values(
			rec.ID, rec.Sequence, rec.Timestamp.UnixMilli(), rec.Header, rec.Family,
			rec.ProblemCount, rec.SourcePath, rec.PDFPath, rec.PreviewPath,
			rec.Degraded, rec.Success, rec.ErrorMessage,
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return ExportRecord{}, fmt.Errorf("insert export: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ExportRecord{}, fmt.Errorf("commit export: %w", err)
	}
	return rec, nil
}

func (r *exportRepo) Recent(ctx context.Context, opts QueryOpts) ([]ExportRecord, error) {
	sel := r.builder.Select(exportColumns...).
		From(r.builder.Table(exportsTable)).
		OrderBy(entsql.Desc("sequence"))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var (
			rec ExportRecord
			ms  int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &ms, &rec.Header, &rec.Family, &rec.ProblemCount,
			&rec.SourcePath, &rec.PDFPath, &rec.PreviewPath,
			&rec.Degraded, &rec.Success, &rec.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ms)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return out, nil
}

func (r *exportRepo) Prune(ctx context.Context, keep int) error {
	del := r.builder.Delete(exportsTable)
	if keep > 0 {
		newest := r.builder.Select("id").
			From(r.builder.Table(exportsTable)).
			OrderBy(entsql.Desc("sequence")).
			Limit(keep)
		del.Where(entsql.NotIn("id", newest))
	}

	query, args := del.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune exports: %w", err)
	}
	return nil
}
