package session_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/guesthouse-ai/concierge/internal/database"
	"github.com/guesthouse-ai/concierge/internal/log"
	"github.com/guesthouse-ai/concierge/internal/session"
)

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	db := openTestDB(t, filepath.Join(t.TempDir(), "chats.db"))
	return session.NewStore(db, log.NewNop())
}

func TestStoreLookupMissingKey(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	h, found, err := store.Lookup(context.Background(), "33612345678")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if found {
		t.Fatal("Lookup() found = true for absent key, want false")
	}
	if h.Len() != 0 {
		t.Fatalf("Lookup() history length = %d for absent key, want 0", h.Len())
	}
}

func TestStoreSaveAndLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	h := session.NewHistory(
		session.Entry{Role: session.RoleSystem, Text: "priming", At: time.Now().UTC()},
		session.Entry{Role: session.RoleAssistant, Text: "Understood.", At: time.Now().UTC()},
	)
	if err := store.Save(ctx, "33612345678", h); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, found, err := store.Lookup(ctx, "33612345678")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if !found {
		t.Fatal("Lookup() found = false after Save")
	}
	if got.Len() != 2 {
		t.Fatalf("Lookup() history length = %d, want 2", got.Len())
	}
	if entries := got.Entries(); entries[0].Role != session.RoleSystem || entries[1].Text != "Understood." {
		t.Errorf("round-tripped entries = %+v", entries)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	first := session.NewHistory(session.Entry{Role: session.RoleUser, Text: "one"})
	if err := store.Save(ctx, "guest", first); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	second := first.Append(
		session.Entry{Role: session.RoleAssistant, Text: "two"},
		session.Entry{Role: session.RoleUser, Text: "three"},
	)
	if err := store.Save(ctx, "guest", second); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	got, _, err := store.Lookup(ctx, "guest")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("history length = %d after upsert, want 3", got.Len())
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chats.db")

	db := openTestDB(t, path)
	store := session.NewStore(db, log.NewNop())
	h := session.NewHistory(session.Entry{Role: session.RoleUser, Text: "remember me"})
	if err := store.Save(ctx, "guest", h); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened := session.NewStore(openTestDB(t, path), log.NewNop())
	got, found, err := reopened.Lookup(ctx, "guest")
	if err != nil {
		t.Fatalf("Lookup() after reopen error: %v", err)
	}
	if !found || got.Len() != 1 {
		t.Fatalf("Lookup() after reopen = found=%v len=%d, want found=true len=1", found, got.Len())
	}
}

func TestStoreLockSerializesKey(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	unlock := store.Lock("guest")

	acquired := make(chan struct{})
	go func() {
		u := store.Lock("guest")
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock() acquired while the first is held")
	case <-time.After(50 * time.Millisecond):
	}

	// A different key must not block on this one.
	otherUnlock := store.Lock("other-guest")
	otherUnlock()

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock() never acquired after unlock")
	}
}
