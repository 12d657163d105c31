// Package moodjournal implements the mood entry repository: the translation
// layer between application-level entries and store documents, plus the
// live subscription that keeps consumers supplied with the current set.
package moodjournal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/docstore"
	"github.com/starford/wunjo/internal/models"
)

// DefaultCollection is the store collection mood entries live in.
const DefaultCollection = "moods"

// entryPayload is the document body persisted for one entry. ID and
// CreatedAt live on the document envelope, not in the payload.
type entryPayload struct {
	Mood      string   `json:"mood"`
	Emoji     string   `json:"emoji,omitempty"`
	Intensity int      `json:"intensity"`
	Sleep     int      `json:"sleep"`
	Tags      []string `json:"tags"`
	Note      string   `json:"note,omitempty"`
	Date      string   `json:"date"`
}

// Repository maps mood entries to and from store documents.
type Repository struct {
	store      docstore.Client
	collection string
	now        func() time.Time
}

// NewRepository creates a repository over store using collection. An empty
// collection falls back to DefaultCollection.
func NewRepository(store docstore.Client, collection string) *Repository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Repository{store: store, collection: collection, now: time.Now}
}

// Create normalizes and validates input, then persists it. The store
// assigns the creation timestamp; a rejected write propagates to the caller
// as a PersistenceError with no retry.
func (r *Repository) Create(ctx context.Context, input models.MoodEntryInput) error {
	input.Normalize(r.now())
	if err := input.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(entryPayload{
		Mood:      input.Mood,
		Emoji:     input.Emoji,
		Intensity: input.Intensity,
		Sleep:     input.Sleep,
		Tags:      input.Tags,
		Note:      input.Note,
		Date:      input.Date,
	})
	if err != nil {
		return apperr.Persistence("create", err)
	}
	if _, err := r.store.Create(ctx, r.collection, data); err != nil {
		return apperr.Persistence("create", err)
	}
	return nil
}

// Remove deletes an entry by id. A missing id rejects with a
// PersistenceError wrapping apperr.ErrNotFound.
func (r *Repository) Remove(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		return apperr.Persistence("delete", err)
	}
	return nil
}

// List returns the current entries, newest first, decoded and decorated.
func (r *Repository) List(ctx context.Context) ([]models.MoodEntry, error) {
	snap, err := r.store.List(ctx, r.collection)
	if err != nil {
		return nil, err
	}
	return r.decode(snap), nil
}

// Subscribe opens a live query and invokes onUpdate with the complete
// decoded entry set on the initial snapshot and after every change. The
// returned cancel terminates the query and is a no-op on repeat calls.
func (r *Repository) Subscribe(onUpdate func([]models.MoodEntry)) func() {
	ch, cancel := r.store.Subscribe(r.collection)

	go func() {
		for snap := range ch {
			onUpdate(r.decode(snap))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}

// decode turns a snapshot into decorated entries. Malformed documents are
// coerced to safe defaults rather than dropped: a raw list must show every
// record even when analytics later skips it.
func (r *Repository) decode(snap docstore.Snapshot) []models.MoodEntry {
	now := r.now()
	entries := make([]models.MoodEntry, 0, len(snap))
	for _, doc := range snap {
		var p entryPayload
		// Unmarshal errors leave the zero payload; fields default below.
		_ = json.Unmarshal(doc.Data, &p)
		if p.Tags == nil {
			p.Tags = []string{}
		}
		e := models.MoodEntry{
			ID:        doc.ID,
			Mood:      p.Mood,
			Emoji:     p.Emoji,
			Intensity: p.Intensity,
			Sleep:     p.Sleep,
			Tags:      p.Tags,
			Note:      p.Note,
			Date:      p.Date,
			CreatedAt: doc.CreatedAt,
		}
		e.Decorate(now)
		entries = append(entries, e)
	}
	return entries
}
