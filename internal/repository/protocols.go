package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/TheApo/compile-sub002/internal/protocols"
)

// ErrProtocolNotFound is returned when no stored protocol has the name.
var ErrProtocolNotFound = errors.New("repository: protocol not found")

// ProtocolRepository stores custom protocol definitions.
type ProtocolRepository struct {
	db *DB
}

// NewProtocolRepository creates a protocol repository on the shared pool.
func NewProtocolRepository(db *DB) *ProtocolRepository {
	return &ProtocolRepository{db: db}
}

// Upsert stores or replaces a protocol definition.
func (r *ProtocolRepository) Upsert(ctx context.Context, pf *protocols.ProtocolFile) error {
	data, err := json.Marshal(pf)
	if err != nil {
		return fmt.Errorf("repository: encode protocol %s: %w", pf.Name, err)
	}
	const q = `
INSERT INTO protocols (name, definition, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE
SET definition = EXCLUDED.definition, updated_at = now()`
	if _, err := r.db.Pool.Exec(ctx, q, pf.Name, data); err != nil {
		return fmt.Errorf("repository: upsert protocol %s: %w", pf.Name, err)
	}
	return nil
}

// Get loads one stored protocol definition.
func (r *ProtocolRepository) Get(ctx context.Context, name string) (*protocols.ProtocolFile, error) {
	const q = `SELECT definition FROM protocols WHERE name = $1`
	var data []byte
	if err := r.db.Pool.QueryRow(ctx, q, name).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProtocolNotFound
		}
		return nil, fmt.Errorf("repository: get protocol %s: %w", name, err)
	}
	var pf protocols.ProtocolFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("repository: decode protocol %s: %w", name, err)
	}
	return &pf, nil
}

// LoadAll loads every stored protocol into the library. Broken rows are
// skipped so one bad definition cannot take the server down.
func (r *ProtocolRepository) LoadAll(ctx context.Context, lib *protocols.Library) (int, error) {
	const q = `SELECT name, definition FROM protocols ORDER BY name`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("repository: list protocols: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var name string
		var data []byte
		if err := rows.Scan(&name, &data); err != nil {
			return loaded, fmt.Errorf("repository: scan protocol: %w", err)
		}
		var pf protocols.ProtocolFile
		if err := json.Unmarshal(data, &pf); err != nil {
			r.db.log.Warn("skipping broken stored protocol",
				zap.String("name", name), zap.Error(err))
			continue
		}
		if err := lib.Register(pf.Name, pf.AbilitySets()); err != nil {
			continue
		}
		loaded++
	}
	return loaded, rows.Err()
}
