package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/wunjo/internal/apperr"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "docstore-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	doc, err := s.Create(ctx, "moods", json.RawMessage(`{"mood":"Happy"}`))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.ID == "" {
		t.Error("expected assigned id")
	}
	if doc.CreatedAt.Before(before) {
		t.Errorf("created_at = %v, too old", doc.CreatedAt)
	}
}

func TestListOrderedNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		doc, err := s.Create(ctx, "moods", json.RawMessage(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, doc.ID)
		time.Sleep(2 * time.Millisecond) // distinct created_at
	}

	snap, err := s.List(ctx, "moods")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i := 0; i < 3; i++ {
		if snap[i].ID != ids[2-i] {
			t.Errorf("snap[%d] = %s, want %s (newest first)", i, snap[i].ID, ids[2-i])
		}
	}
}

func TestListIsolatesCollections(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "moods", json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, "other", json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}

	snap, err := s.List(ctx, "moods")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 1 {
		t.Errorf("len = %d, want 1", len(snap))
	}
}

func TestDeleteMissingIDRejects(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.Delete(ctx, "moods", "no-such-id")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingIDEmitsNoSnapshot(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "moods", json.RawMessage(`{}`)); err != nil {
		t.Fatal(err)
	}

	ch, cancel := s.Subscribe("moods")
	defer cancel()

	// Drain the initial snapshot.
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for initial snapshot")
	}

	_ = s.Delete(ctx, "moods", "no-such-id")

	select {
	case snap := <-ch:
		t.Errorf("unexpected snapshot after no-op delete: %d docs", len(snap))
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscribeDeliversChanges(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ch, cancel := s.Subscribe("moods")
	defer cancel()

	select {
	case snap := <-ch:
		if len(snap) != 0 {
			t.Errorf("initial snapshot len = %d, want 0", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for initial snapshot")
	}

	doc, err := s.Create(ctx, "moods", json.RawMessage(`{"mood":"Calm"}`))
	if err != nil {
		t.Fatal(err)
	}

	select {
	case snap := <-ch:
		if len(snap) != 1 || snap[0].ID != doc.ID {
			t.Errorf("snapshot = %+v, want the created doc", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for create snapshot")
	}

	if err := s.Delete(ctx, "moods", doc.ID); err != nil {
		t.Fatal(err)
	}

	select {
	case snap := <-ch:
		if len(snap) != 0 {
			t.Errorf("snapshot after delete len = %d, want 0", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for delete snapshot")
	}
}
