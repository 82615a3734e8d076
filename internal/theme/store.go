package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ziadkadry99/canvas/internal/db"
)

// Store persists theme preferences per client in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Load returns the stored mode for clientID. ok is false when the client has
// never stored a preference.
func (s *Store) Load(ctx context.Context, clientID string) (Mode, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT mode FROM theme_preferences WHERE client_id = ?", clientID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying theme preference: %w", err)
	}

	m, err := ParseMode(raw)
	if err != nil {
		// A corrupt row behaves like no stored preference.
		return "", false, nil
	}
	return m, true, nil
}

// Save upserts the stored mode for clientID.
func (s *Store) Save(ctx context.Context, clientID string, m Mode) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO theme_preferences (client_id, mode) VALUES (?, ?)
		ON CONFLICT(client_id) DO UPDATE SET mode = excluded.mode, updated_at = datetime('now')`,
		clientID, string(m),
	)
	if err != nil {
		return fmt.Errorf("saving theme preference: %w", err)
	}
	return nil
}

// Clear removes the stored preference so system changes apply again.
func (s *Store) Clear(ctx context.Context, clientID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM theme_preferences WHERE client_id = ?", clientID); err != nil {
		return fmt.Errorf("clearing theme preference: %w", err)
	}
	return nil
}
