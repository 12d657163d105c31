package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/starford/wunjo/internal/analytics"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/moodjournal"
)

// StreamHandler serves the live entry stream over Server-Sent Events.
// Each connected client is one lifecycle consumer: attached on connect,
// detached on disconnect. Every snapshot delivery produces a
// moods.snapshot event with the full decorated entry set and an
// analytics.weekly event recomputed from the same set.
type StreamHandler struct {
	src moodjournal.Source
}

// NewStreamHandler creates the SSE handler over src.
func NewStreamHandler(src moodjournal.Source) *StreamHandler {
	return &StreamHandler{src: src}
}

// ServeHTTP is the SSE endpoint handler (GET /events).
func (s *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	msgCh := make(chan []byte, 16)
	consumer := moodjournal.NewConsumer(s.src)
	detach := consumer.Attach(func(entries []models.MoodEntry) {
		select {
		case msgCh <- renderSnapshot(entries):
		default:
			// Slow client; the next snapshot supersedes this one anyway.
		}
	})
	defer detach()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-msgCh:
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}

func renderSnapshot(entries []models.MoodEntry) []byte {
	list, err := marshalEvent("moods.snapshot", MoodListResponse{Moods: entries, Total: len(entries)})
	if err != nil {
		return nil
	}
	weekly, err := marshalEvent("analytics.weekly", analytics.ComputeWeekly(entries, time.Now()))
	if err != nil {
		return list
	}
	return append(list, weekly...)
}

func marshalEvent(event string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event, payload)), nil
}
