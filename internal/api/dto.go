package api

import (
	"github.com/starford/wunjo/internal/analytics"
	"github.com/starford/wunjo/internal/models"
)

// CreateMoodRequest is the request body for logging a mood entry.
type CreateMoodRequest = models.MoodEntryInput

// MoodEntry is the entry payload returned to clients (aliased from the
// domain layer).
type MoodEntry = models.MoodEntry

// MoodListResponse wraps the full current entry list, newest first.
type MoodListResponse struct {
	Moods []MoodEntry `json:"moods"`
	Total int         `json:"total"`
}

// WeeklyAnalytics is the chart aggregate response (aliased from the
// analytics layer).
type WeeklyAnalytics = analytics.Weekly
