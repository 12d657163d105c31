package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/moodjournal"
	"github.com/starford/wunjo/internal/testutil"
)

// testEnv sets up a temp repository and router for testing. An empty
// authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (*moodjournal.Repository, http.Handler) {
	t.Helper()
	repo := testutil.TestRepository(t)
	router := NewRouter(repo, authToken != "", authToken, NewStreamHandler(repo))
	return repo, router
}

func createEntry(t *testing.T, router http.Handler, input models.MoodEntryInput) {
	t.Helper()
	body, _ := json.Marshal(input)
	req := httptest.NewRequest(http.MethodPost, "/moods", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateAndListMoods(t *testing.T) {
	_, router := testEnv(t, "")

	createEntry(t, router, models.MoodEntryInput{Mood: "Happy", Intensity: 4, Sleep: 7})

	req := httptest.NewRequest(http.MethodGet, "/moods", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	var resp MoodListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Moods) != 1 {
		t.Fatalf("total = %d, moods = %d", resp.Total, len(resp.Moods))
	}
	if resp.Moods[0].Mood != "Happy" {
		t.Errorf("mood = %q", resp.Moods[0].Mood)
	}
	if resp.Moods[0].Emoji != "😄" {
		t.Errorf("emoji = %q, want catalog glyph", resp.Moods[0].Emoji)
	}
}

func TestCreateMoodValidation(t *testing.T) {
	_, router := testEnv(t, "")

	// Missing mood.
	body, _ := json.Marshal(models.MoodEntryInput{Intensity: 3})
	req := httptest.NewRequest(http.MethodPost, "/moods", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing mood status = %d, want 400", w.Code)
	}

	// Invalid JSON.
	req = httptest.NewRequest(http.MethodPost, "/moods", strings.NewReader("{nope"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", w.Code)
	}
}

func TestGetMood(t *testing.T) {
	repo, router := testEnv(t, "")

	createEntry(t, router, models.MoodEntryInput{Mood: "Calm", Intensity: 2})
	entries, err := repo.List(context.Background())
	if err != nil || len(entries) != 1 {
		t.Fatalf("List: %v, len = %d", err, len(entries))
	}

	req := httptest.NewRequest(http.MethodGet, "/moods/"+entries[0].ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got MoodEntry
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != entries[0].ID || got.Mood != "Calm" {
		t.Errorf("got = %+v", got)
	}

	// Unknown id.
	req = httptest.NewRequest(http.MethodGet, "/moods/does-not-exist", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing get status = %d, want 404", w.Code)
	}
}

func TestDeleteMood(t *testing.T) {
	repo, router := testEnv(t, "")

	createEntry(t, router, models.MoodEntryInput{Mood: "Angry", Intensity: 5})
	entries, _ := repo.List(context.Background())
	if len(entries) != 1 {
		t.Fatal("expected one entry")
	}

	req := httptest.NewRequest(http.MethodDelete, "/moods/"+entries[0].ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	// Deleting again is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/moods/"+entries[0].ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestWeeklyAnalyticsEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createEntry(t, router, models.MoodEntryInput{Mood: "Happy", Intensity: 4, Sleep: 7})
	createEntry(t, router, models.MoodEntryInput{Mood: "Happy", Intensity: 2, Sleep: 5})

	req := httptest.NewRequest(http.MethodGet, "/analytics/weekly", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("analytics status = %d", w.Code)
	}

	var weekly WeeklyAnalytics
	_ = json.Unmarshal(w.Body.Bytes(), &weekly)
	if len(weekly.DayLabels) != 7 || len(weekly.IntensityByDay) != 7 || len(weekly.SleepByDay) != 7 {
		t.Fatalf("series lengths = %d/%d/%d, want 7", len(weekly.DayLabels), len(weekly.IntensityByDay), len(weekly.SleepByDay))
	}
	if weekly.IntensityByDay[6] != 3 {
		t.Errorf("today intensity avg = %v, want 3", weekly.IntensityByDay[6])
	}
	if weekly.SleepByDay[6] != 6 {
		t.Errorf("today sleep avg = %v, want 6", weekly.SleepByDay[6])
	}
	if len(weekly.Distribution) != 1 || weekly.Distribution[0].Count != 2 {
		t.Errorf("distribution = %+v", weekly.Distribution)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/moods", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/moods", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/moods", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("good token status = %d, want 200", w.Code)
	}
}

func TestStreamDeliversSnapshotEvents(t *testing.T) {
	repo, router := testEnv(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(w, req)
		close(done)
	}()

	// Give the handler time to attach, then write an entry.
	time.Sleep(100 * time.Millisecond)
	if err := repo.Create(context.Background(), models.MoodEntryInput{Mood: "Happy", Intensity: 3}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: moods.snapshot") {
		t.Errorf("stream output missing snapshot event: %q", body)
	}
	if !strings.Contains(body, "event: analytics.weekly") {
		t.Errorf("stream output missing analytics event: %q", body)
	}
	if !strings.Contains(body, `"Happy"`) {
		t.Errorf("stream output missing entry payload: %q", body)
	}
}
