package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/porism/porism/internal/act"
	"github.com/porism/porism/internal/geom"
)

// ErrNotFound is returned when a creation id has no row.
var ErrNotFound = errors.New("creation not found")

// Creation is one saved proof: the proposition it proves, the positions
// its given points were dragged to, the post-completion action log, and
// the viewport it was last looked at through. Everything else is derived
// on load by replaying.
type Creation struct {
	ID             string
	Name           string
	PropID         string
	GivenPositions map[string]geom.Pt
	ExtraLog       []act.Action
	LogHash        string
	Viewport       Viewport
	Seq            int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Viewport is display state carried alongside a creation. It is owned
// by the caller; the store round-trips it and keeps it out of LogHash.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// wire form for given_positions; keys are point ids.
type posRec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SaveCreation inserts or updates a creation. A zero ID gets a fresh
// UUID. The action log is stored in canonical form and its hash is
// recomputed on every save; the caller's LogHash field is ignored.
// Returns the stored creation with ID, hash, seq and timestamps filled.
func (s *Store) SaveCreation(ctx context.Context, c Creation) (Creation, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	logJSON, err := act.MarshalCanonical(c.ExtraLog)
	if err != nil {
		return Creation{}, fmt.Errorf("save creation: %w", err)
	}
	c.LogHash, err = act.HashLog(c.ExtraLog)
	if err != nil {
		return Creation{}, fmt.Errorf("save creation: %w", err)
	}

	positions := make(map[string]posRec, len(c.GivenPositions))
	for id, p := range c.GivenPositions {
		positions[id] = posRec{X: p.X, Y: p.Y}
	}
	posJSON, err := json.Marshal(positions)
	if err != nil {
		return Creation{}, fmt.Errorf("save creation: %w", err)
	}
	viewJSON, err := json.Marshal(c.Viewport)
	if err != nil {
		return Creation{}, fmt.Errorf("save creation: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Creation{}, fmt.Errorf("save creation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// seq is a logical clock: listing order never depends on wall time.
	var maxSeq sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(seq) FROM creations`).Scan(&maxSeq); err != nil {
		return Creation{}, fmt.Errorf("save creation: next seq: %w", err)
	}
	nextSeq := maxSeq.Int64 + 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO creations
		(id, name, prop_id, given_positions, extra_log, log_hash, viewport, seq, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			given_positions = excluded.given_positions,
			extra_log = excluded.extra_log,
			log_hash = excluded.log_hash,
			viewport = excluded.viewport,
			updated_at = excluded.updated_at
	`,
		c.ID, c.Name, c.PropID, string(posJSON), string(logJSON), c.LogHash,
		string(viewJSON), nextSeq, now, now,
	)
	if err != nil {
		return Creation{}, fmt.Errorf("save creation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Creation{}, fmt.Errorf("save creation: commit: %w", err)
	}

	return s.GetCreation(ctx, c.ID)
}

// GetCreation loads one creation by id. Returns ErrNotFound when the id
// has no row.
func (s *Store) GetCreation(ctx context.Context, id string) (Creation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, prop_id, given_positions, extra_log, log_hash, viewport, seq, created_at, updated_at
		FROM creations
		WHERE id = ?
	`, id)
	c, err := scanCreation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Creation{}, fmt.Errorf("get creation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Creation{}, fmt.Errorf("get creation %s: %w", id, err)
	}
	return c, nil
}

// ListCreations returns every saved creation in deterministic order:
// ORDER BY seq ASC, id ASC COLLATE BINARY. Returns an empty slice, not
// nil, when the store is empty.
func (s *Store) ListCreations(ctx context.Context) ([]Creation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, prop_id, given_positions, extra_log, log_hash, viewport, seq, created_at, updated_at
		FROM creations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list creations: %w", err)
	}
	defer rows.Close()

	creations := []Creation{}
	for rows.Next() {
		c, err := scanCreation(rows)
		if err != nil {
			return nil, fmt.Errorf("list creations: %w", err)
		}
		creations = append(creations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list creations: %w", err)
	}
	return creations, nil
}

// DeleteCreation removes a creation. Deleting a missing id is not an
// error; the second result reports whether a row went away.
func (s *Store) DeleteCreation(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM creations WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete creation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete creation %s: %w", id, err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreation(row rowScanner) (Creation, error) {
	var c Creation
	var posJSON, logJSON, viewJSON, createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Name, &c.PropID, &posJSON, &logJSON, &c.LogHash,
		&viewJSON, &c.Seq, &createdAt, &updatedAt); err != nil {
		return Creation{}, err
	}

	if err := json.Unmarshal([]byte(viewJSON), &c.Viewport); err != nil {
		return Creation{}, fmt.Errorf("decode viewport: %w", err)
	}

	var positions map[string]posRec
	if err := json.Unmarshal([]byte(posJSON), &positions); err != nil {
		return Creation{}, fmt.Errorf("decode given_positions: %w", err)
	}
	c.GivenPositions = make(map[string]geom.Pt, len(positions))
	for id, p := range positions {
		c.GivenPositions[id] = geom.Pt{X: p.X, Y: p.Y}
	}

	log, err := act.UnmarshalLog([]byte(logJSON))
	if err != nil {
		return Creation{}, fmt.Errorf("decode extra_log: %w", err)
	}
	c.ExtraLog = log

	c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Creation{}, fmt.Errorf("decode created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Creation{}, fmt.Errorf("decode updated_at: %w", err)
	}
	return c, nil
}
