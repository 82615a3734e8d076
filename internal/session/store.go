package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ziadkadry99/canvas/internal/db"
)

const bumpTimeout = 5 * time.Second

// Store records session activity counters in SQLite. Counter updates run
// off the caller's goroutine; Closed and Stats wait for them.
type Store struct {
	db *db.DB

	mu       sync.Mutex
	idle     *sync.Cond
	inflight int
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	s := &Store{db: database}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Opened records a new session.
func (s *Store) Opened(ctx context.Context, id, clientID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO editor_sessions (id, client_id) VALUES (?, ?)", id, clientID)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Closed stamps the session's close time.
func (s *Store) Closed(ctx context.Context, id string) error {
	s.Wait()
	_, err := s.db.ExecContext(ctx,
		"UPDATE editor_sessions SET closed_at = datetime('now') WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

// RecordRefresh increments the session's preview refresh counter.
func (s *Store) RecordRefresh(id string) {
	s.bump(id, "refreshes")
}

// RecordExport increments the session's export counter.
func (s *Store) RecordExport(id string) {
	s.bump(id, "exports")
}

func (s *Store) bump(id, column string) {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	go func() {
		defer s.done()
		ctx, cancel := context.WithTimeout(context.Background(), bumpTimeout)
		defer cancel()
		_, err := s.db.ExecContext(ctx,
			"UPDATE editor_sessions SET "+column+" = "+column+" + 1 WHERE id = ?", id)
		if err != nil {
			log.Printf("session %s: counting %s: %v", id, column, err)
		}
	}()
}

// Wait blocks until pending counter updates have been written.
func (s *Store) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.inflight > 0 {
		s.idle.Wait()
	}
}

func (s *Store) done() {
	s.mu.Lock()
	s.inflight--
	if s.inflight == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

// Stats summarizes recorded activity.
type Stats struct {
	TotalSessions int `json:"total_sessions"`
	OpenSessions  int `json:"open_sessions"`
	Refreshes     int `json:"refreshes"`
	Exports       int `json:"exports"`
}

// Stats returns activity totals across all recorded sessions.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	s.Wait()
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN closed_at IS NULL THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(refreshes), 0),
		       COALESCE(SUM(exports), 0)
		FROM editor_sessions`,
	).Scan(&st.TotalSessions, &st.OpenSessions, &st.Refreshes, &st.Exports)
	if err != nil {
		return Stats{}, fmt.Errorf("querying session stats: %w", err)
	}
	return st, nil
}
