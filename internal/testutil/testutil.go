// Package testutil provides shared test helpers for setting up document stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/wunjo/internal/docstore"
	"github.com/starford/wunjo/internal/moodjournal"
)

// TestStore creates a temporary SQLite-backed document store that is
// automatically cleaned up. It returns the store and its database path.
func TestStore(t *testing.T) (*docstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wunjo-test.db")
	store, err := docstore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

// TestRepository creates a repository over a temporary store.
func TestRepository(t *testing.T) *moodjournal.Repository {
	t.Helper()
	store, _ := TestStore(t)
	return moodjournal.NewRepository(store, "moods")
}
