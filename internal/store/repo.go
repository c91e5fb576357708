package store

import (
	"context"
	"time"
)

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// ExportRecord is one export attempt, successful or not.
type ExportRecord struct {
	ID           string
	Sequence     int64
	Timestamp    time.Time
	Header       string
	Family       string
	ProblemCount int
	SourcePath   string
	PDFPath      string
	PreviewPath  string
	Degraded     bool
	Success      bool
	ErrorMessage string
}

// ExportRepo records and lists worksheet exports.
type ExportRepo interface {
	// Append stores rec. ID, Sequence and Timestamp are assigned when empty.
	Append(ctx context.Context, rec ExportRecord) (ExportRecord, error)

	// Recent returns records newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]ExportRecord, error)

	// Prune deletes all but the keep most recent records.
	Prune(ctx context.Context, keep int) error
}
