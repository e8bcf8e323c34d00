package providers

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconciliationProvider is the outbox of pending service reconciliations
// written by template deletion and drained by the scheduler.
type ReconciliationProvider struct {
	db *pgxpool.Pool
}

func NewReconciliationProvider(db *pgxpool.Pool) *ReconciliationProvider {
	return &ReconciliationProvider{
		db: db,
	}
}

func (s *ReconciliationProvider) EnqueueReconciliation(ctx context.Context, artistID string) error {
	if _, err := s.db.Exec(ctx,
		`INSERT INTO service_reconciliations (artist_id) VALUES ($1)`, artistID,
	); err != nil {
		return fmt.Errorf("enqueue reconciliation: %w", err)
	}
	return nil
}

// ClaimReconciliations marks up to limit pending rows processed and returns
// their artist ids, oldest first. Rows locked by another worker are skipped.
func (s *ReconciliationProvider) ClaimReconciliations(ctx context.Context, limit int) ([]string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
        WITH claimed AS (
            SELECT id
            FROM service_reconciliations
            WHERE processed_at IS NULL
            ORDER BY id
            LIMIT $1
            FOR UPDATE SKIP LOCKED
        )
        UPDATE service_reconciliations r
        SET processed_at = NOW()
        FROM claimed
        WHERE r.id = claimed.id
        RETURNING r.id, r.artist_id`, limit)
	if err != nil {
		return nil, fmt.Errorf("claim reconciliations: %w", err)
	}
	type claim struct {
		ID       int64  `db:"id"`
		ArtistID string `db:"artist_id"`
	}
	claims, err := pgx.CollectRows(rows, pgx.RowToStructByName[claim])
	if err != nil {
		return nil, fmt.Errorf("collect reconciliations: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	slices.SortFunc(claims, func(a, b claim) int { return cmp.Compare(a.ID, b.ID) })
	artistIDs := make([]string, 0, len(claims))
	for _, c := range claims {
		artistIDs = append(artistIDs, c.ArtistID)
	}
	return artistIDs, nil
}
