package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invitefeed/internal/ports/output"
)

var _ output.DismissalStore = (*DismissalRepository)(nil)

// DismissalRepository persists hidden invites per viewer.
type DismissalRepository struct {
	pool *pgxpool.Pool
}

func NewDismissalRepository(pool *pgxpool.Pool) *DismissalRepository {
	return &DismissalRepository{pool: pool}
}

func (r *DismissalRepository) Load(ctx context.Context, viewerID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT event_id::text FROM dismissed_events WHERE viewer_id = $1 ORDER BY created_at`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("get dismissals: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan dismissals: %w", err)
	}
	return ids, nil
}

type dismissalRow struct {
	ViewerID string `db:"viewer_id"`
	EventID  string `db:"event_id"`
}

func (r *DismissalRepository) LoadAll(ctx context.Context) (map[string][]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT viewer_id, event_id::text AS event_id FROM dismissed_events ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("get all dismissals: %w", err)
	}
	all, err := pgx.CollectRows(rows, pgx.RowToStructByName[dismissalRow])
	if err != nil {
		return nil, fmt.Errorf("scan dismissals: %w", err)
	}
	out := make(map[string][]string)
	for _, d := range all {
		out[d.ViewerID] = append(out[d.ViewerID], d.EventID)
	}
	return out, nil
}

func (r *DismissalRepository) Save(ctx context.Context, viewerID, eventID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO dismissed_events (viewer_id, event_id) VALUES ($1, $2::uuid) ON CONFLICT DO NOTHING`,
		viewerID, eventID)
	if err != nil {
		return fmt.Errorf("insert dismissal: %w", err)
	}
	return nil
}

func (r *DismissalRepository) Remove(ctx context.Context, viewerID, eventID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM dismissed_events WHERE viewer_id = $1 AND event_id = $2::uuid`, viewerID, eventID)
	if err != nil {
		return fmt.Errorf("delete dismissal: %w", err)
	}
	return nil
}
