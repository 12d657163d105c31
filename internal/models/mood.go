// Package models defines the domain types for Wunjo.
package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MoodEntry is one journaled mood observation.
//
// Date is the client-assigned occurrence timestamp (ISO-8601) and is the
// authoritative input for day bucketing. CreatedAt is assigned by the store
// and is used only for ordering, never for analytics.
type MoodEntry struct {
	ID        string    `json:"id"`
	Mood      string    `json:"mood"`
	Emoji     string    `json:"emoji,omitempty"`
	Intensity int       `json:"intensity"`
	Sleep     int       `json:"sleep"`
	Tags      []string  `json:"tags"`
	Note      string    `json:"note,omitempty"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`

	// Display decorations derived from CreatedAt on read. When CreatedAt has
	// not materialized yet (optimistic local write), they fall back to now.
	FullDate   time.Time `json:"full_date"`
	DateString string    `json:"date_string"`
	TimeString string    `json:"time_string"`
}

// Decorate fills the derived display fields from CreatedAt, using now as the
// fallback for entries whose server timestamp has not materialized.
func (e *MoodEntry) Decorate(now time.Time) {
	raw := e.CreatedAt
	if raw.IsZero() {
		raw = now
	}
	raw = raw.In(now.Location())
	e.FullDate = raw
	e.DateString = raw.Format("1/2/2006")
	e.TimeString = raw.Format("03:04 PM")
}

// OccurredAt returns the timestamp used for day bucketing: the parsed Date
// field, falling back to CreatedAt when Date is absent. ok is false when
// neither is usable.
func (e *MoodEntry) OccurredAt() (time.Time, bool) {
	if e.Date != "" {
		if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt, true
	}
	return time.Time{}, false
}

// MoodEntryInput carries a new observation to Create. It is built once by the
// caller and validated at the boundary instead of being mutated piecemeal.
type MoodEntryInput struct {
	Mood      string   `json:"mood"`
	Emoji     string   `json:"emoji,omitempty"`
	Intensity int      `json:"intensity"`
	Sleep     int      `json:"sleep"`
	Tags      []string `json:"tags,omitempty"`
	Note      string   `json:"note,omitempty"`
	Date      string   `json:"date,omitempty"`
}

// Normalize clamps sleep into [0, 24], trims the note, and fills defaults:
// the catalog emoji for the chosen mood and a current RFC 3339 occurrence
// timestamp when the caller supplied none.
func (in *MoodEntryInput) Normalize(now time.Time) {
	if in.Sleep < 0 {
		in.Sleep = 0
	}
	if in.Sleep > 24 {
		in.Sleep = 24
	}
	in.Note = strings.TrimSpace(in.Note)
	if in.Emoji == "" {
		in.Emoji = EmojiFor(in.Mood)
	}
	if in.Date == "" {
		in.Date = now.Format(time.RFC3339)
	}
}

// Validate validates the input.
func (in *MoodEntryInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Mood, validation.Required),
		validation.Field(&in.Intensity, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&in.Sleep, validation.Min(0), validation.Max(24)),
	)
}

// CatalogMood is one selectable mood with its display glyph.
type CatalogMood struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// Catalog lists the moods offered at entry time. The emoji is stored with
// the entry so historical records keep the glyph chosen at the time.
var Catalog = []CatalogMood{
	{Label: "Happy", Emoji: "😄"},
	{Label: "Calm", Emoji: "😌"},
	{Label: "Neutral", Emoji: "😐"},
	{Label: "Sad", Emoji: "😔"},
	{Label: "Angry", Emoji: "😡"},
}

// EmojiFor returns the catalog glyph for a mood label, or empty string for
// labels outside the catalog.
func EmojiFor(label string) string {
	for _, m := range Catalog {
		if m.Label == label {
			return m.Emoji
		}
	}
	return ""
}
