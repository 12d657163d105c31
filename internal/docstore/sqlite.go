package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"

	"github.com/starford/wunjo/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(collection, created_at);
`

// Store implements Client on top of SQLite. Writes go through a single
// connection pool which serializes them; every successful mutation notifies
// the snapshot hub.
type Store struct {
	conn *sql.DB
	hub  *Hub
}

// Open opens (or creates) the SQLite database at dsn and starts the
// snapshot hub.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("docstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("docstore: apply schema: %w", err)
	}

	s := &Store{conn: conn}
	s.hub = NewHub(s.list)
	return s, nil
}

// Close stops the hub and closes the database connection.
func (s *Store) Close() error {
	s.hub.Close()
	return s.conn.Close()
}

// Create stores data and returns the document with its server-assigned id
// and creation timestamp.
func (s *Store) Create(ctx context.Context, collection string, data json.RawMessage) (Document, error) {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	doc := Document{
		ID:        xid.New().String(),
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at)
		VALUES (?, ?, ?, ?)
	`, collection, doc.ID, string(data), doc.CreatedAt.UnixNano())
	if err != nil {
		return Document{}, fmt.Errorf("docstore: insert: %w", err)
	}
	s.hub.Notify(collection)
	return doc, nil
}

// Delete removes a document by id. A missing id returns apperr.ErrNotFound
// and emits no snapshot.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("docstore: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("docstore: delete rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, apperr.ErrNotFound)
	}
	s.hub.Notify(collection)
	return nil
}

// List returns the current snapshot of a collection.
func (s *Store) List(ctx context.Context, collection string) (Snapshot, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, data, created_at FROM documents
		WHERE collection = ?
		ORDER BY created_at DESC, id DESC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("docstore: list: %w", err)
	}
	defer rows.Close()

	snap := Snapshot{}
	for rows.Next() {
		var (
			doc  Document
			data string
			ns   int64
		)
		if err := rows.Scan(&doc.ID, &data, &ns); err != nil {
			return nil, fmt.Errorf("docstore: scan: %w", err)
		}
		doc.Data = json.RawMessage(data)
		doc.CreatedAt = time.Unix(0, ns).UTC()
		snap = append(snap, doc)
	}
	return snap, rows.Err()
}

// Subscribe opens a live query on collection via the hub.
func (s *Store) Subscribe(collection string) (<-chan Snapshot, func()) {
	return s.hub.Subscribe(collection)
}

// NotifyExternal re-emits snapshots for all collections that have
// subscribers. The file watcher calls this when the database file changes
// underneath us.
func (s *Store) NotifyExternal() {
	s.hub.NotifyAll()
}

// list is the hub's query function; it uses a background context because
// the hub loop outlives any single caller.
func (s *Store) list(collection string) (Snapshot, error) {
	return s.List(context.Background(), collection)
}
