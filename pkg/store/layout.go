// Package store persists node layout positions to a SQLite database.
//
// The engine never writes positions itself; the host calls SaveBatch
// with the current positions when the user chooses to save a layout,
// and LoadPositions to rehydrate them on the next open.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tracelens/lineview/pkg/model"
)

const layoutSchema = `
CREATE TABLE IF NOT EXISTS layout (
    id         TEXT PRIMARY KEY,
    x          REAL NOT NULL,
    y          REAL NOT NULL,
    updated_at TEXT NOT NULL
);
`

// PositionUpdate is one persisted node position.
type PositionUpdate struct {
	ID string
	X  float64
	Y  float64
}

// LayoutStore wraps a SQLite layout database.
type LayoutStore struct {
	db *sql.DB
}

// Open opens (or creates) the layout database at path.
func Open(path string) (*LayoutStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening layout db: %w", err)
	}
	if _, err := db.Exec(layoutSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating layout schema: %w", err)
	}
	return &LayoutStore{db: db}, nil
}

// Close releases the database handle.
func (s *LayoutStore) Close() error {
	return s.db.Close()
}

// SaveBatch upserts a batch of positions in one transaction, so a
// partial save never leaves a half-updated layout behind.
func (s *LayoutStore) SaveBatch(updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin layout save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO layout (id, x, y, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET x = excluded.x, y = excluded.y, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare layout upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, u := range updates {
		if _, err := stmt.Exec(u.ID, u.X, u.Y, now); err != nil {
			return fmt.Errorf("saving position for %s: %w", u.ID, err)
		}
	}
	return tx.Commit()
}

// SaveGraph persists the current position of every node in the graph.
func (s *LayoutStore) SaveGraph(g *model.Graph) error {
	updates := make([]PositionUpdate, 0, len(g.Nodes))
	for id, p := range g.Positions() {
		updates = append(updates, PositionUpdate{ID: id, X: p.X, Y: p.Y})
	}
	return s.SaveBatch(updates)
}

// LoadPositions returns all persisted positions.
func (s *LayoutStore) LoadPositions() (map[string]model.Point, error) {
	rows, err := s.db.Query(`SELECT id, x, y FROM layout`)
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Point)
	for rows.Next() {
		var id string
		var x, y float64
		if err := rows.Scan(&id, &x, &y); err != nil {
			return nil, fmt.Errorf("scanning layout row: %w", err)
		}
		out[id] = model.Point{X: x, Y: y}
	}
	return out, rows.Err()
}

// ApplyTo overwrites graph node positions with persisted ones where
// available. Persisted ids without a matching node are ignored; the
// layout database may be older than the graph.
func (s *LayoutStore) ApplyTo(g *model.Graph) (int, error) {
	positions, err := s.LoadPositions()
	if err != nil {
		return 0, err
	}
	applied := 0
	for i := range g.Nodes {
		if p, ok := positions[g.Nodes[i].ID]; ok {
			g.Nodes[i].X = p.X
			g.Nodes[i].Y = p.Y
			applied++
		}
	}
	return applied, nil
}
