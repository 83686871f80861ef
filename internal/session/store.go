package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Store persists conversation histories in SQLite, one row per user.
// Histories are only ever written whole; the per-key Lock serializes
// each session's read-modify-write cycle.
type Store struct {
	db     *sql.DB
	locks  sync.Map // user id -> *sync.Mutex
	logger *slog.Logger
}

// NewStore creates a Store over an open, migrated database handle.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Lookup returns the stored history for key. An absent key returns a
// zero History, false and no error; only infrastructure failures produce
// an error.
func (s *Store) Lookup(ctx context.Context, key string) (History, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT history FROM chats WHERE user_id = ?", key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return History{}, false, nil
	}
	if err != nil {
		return History{}, false, fmt.Errorf("looking up conversation %s: %w", key, err)
	}

	var h History
	if err := json.Unmarshal([]byte(payload), &h); err != nil {
		return History{}, false, fmt.Errorf("decoding conversation %s: %w", key, err)
	}
	return h, true, nil
}

// Save stores the full history for key, replacing any previous value.
// The upsert is a single statement, so concurrent readers see either the
// old or the new transcript, never a partial one.
func (s *Store) Save(ctx context.Context, key string, h History) error {
	payload, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding conversation %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chats (user_id, history, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   history = excluded.history,
		   updated_at = excluded.updated_at`,
		key, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving conversation %s: %w", key, err)
	}

	s.logger.Debug("conversation saved", "user", key, "entries", h.Len())
	return nil
}

// Lock acquires the mutex for key and returns its unlock function.
// Callers must hold the lock across their whole lookup-append-save cycle
// so interleaved requests for one user cannot drop turns.
func (s *Store) Lock(key string) func() {
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
