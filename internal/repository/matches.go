package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TheApo/compile-sub002/internal/game"
)

// ErrMatchNotFound is returned when no stored match has the requested id.
var ErrMatchNotFound = errors.New("repository: match not found")

// MatchRepository stores settled match snapshots.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a match repository on the shared pool.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Save upserts the current snapshot of a match.
func (r *MatchRepository) Save(ctx context.Context, matchID string, st *game.GameState) error {
	snap, err := game.TakeSnapshot(st)
	if err != nil {
		return err
	}
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("repository: encode snapshot: %w", err)
	}
	const q = `
INSERT INTO matches (id, snapshot, checksum, finished, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (id) DO UPDATE
SET snapshot = EXCLUDED.snapshot,
    checksum = EXCLUDED.checksum,
    finished = EXCLUDED.finished,
    updated_at = now()`
	_, err = r.db.Pool.Exec(ctx, q, matchID, data, game.Checksum(st), st.Winner != nil)
	if err != nil {
		return fmt.Errorf("repository: save match %s: %w", matchID, err)
	}
	return nil
}

// Load restores the stored snapshot of a match.
func (r *MatchRepository) Load(ctx context.Context, matchID string) (*game.GameState, error) {
	const q = `SELECT snapshot FROM matches WHERE id = $1`
	var data []byte
	if err := r.db.Pool.QueryRow(ctx, q, matchID).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("repository: load match %s: %w", matchID, err)
	}
	snap, err := game.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return game.RestoreSnapshot(snap)
}

// ListUnfinished returns the ids of matches without a winner, for resuming
// after a restart.
func (r *MatchRepository) ListUnfinished(ctx context.Context) ([]string, error) {
	const q = `SELECT id FROM matches WHERE NOT finished ORDER BY updated_at DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repository: list matches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository: scan match id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a stored match.
func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("repository: delete match %s: %w", matchID, err)
	}
	return nil
}
