package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Export rows carry a sequence number besides their timestamp. Two exports
// in the same millisecond, or a clock step backwards, would otherwise leave
// the history without a stable newest-first order.
//
// The sequence is derived from the exports table itself, so pruning the
// history never rewinds it below the surviving rows.

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// nextSequence returns the sequence the next export row takes. Call it in
// the same transaction as the insert.
func nextSequence(ctx context.Context, q queryer) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) + 1 FROM `+exportsTable,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
