// Package docstore provides a SQLite-backed document store with live
// snapshot subscriptions: every change to a collection pushes the complete
// current result set to all subscribers, newest first.
package docstore

import (
	"context"
	"encoding/json"
	"time"
)

// Document is one stored record. Data holds the application payload as raw
// JSON; ID and CreatedAt are assigned by the store on create.
type Document struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// Snapshot is the complete current result set of a collection, ordered by
// creation time descending. It is delivered in full on every change, never
// as a diff.
type Snapshot []Document

// Client is the interface consumers depend on for document operations.
type Client interface {
	// Create stores data in collection and returns the document with its
	// assigned ID and creation timestamp.
	Create(ctx context.Context, collection string, data json.RawMessage) (Document, error)
	// Delete removes a document by id. Returns apperr.ErrNotFound when the
	// id does not exist; no snapshot is emitted in that case.
	Delete(ctx context.Context, collection, id string) error
	// List returns the current snapshot of a collection.
	List(ctx context.Context, collection string) (Snapshot, error)
	// Subscribe opens a live query on collection. The current snapshot is
	// delivered immediately, then again after every change. The returned
	// cancel func closes the channel and is safe to call more than once.
	Subscribe(collection string) (<-chan Snapshot, func())
}

// Verify *Store satisfies Client at compile time.
var _ Client = (*Store)(nil)
