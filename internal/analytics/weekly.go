// Package analytics computes chart-ready aggregates from mood entries: the
// 7-day intensity and sleep trends and the full-history mood distribution.
package analytics

import (
	"time"

	"github.com/starford/wunjo/internal/models"
)

// Days is the length of the trend window.
const Days = 7

// defaultColor is assigned to mood labels outside the fixed table.
const defaultColor = "#9CA3AF"

// moodColors is the fixed display color table for the distribution chart.
// Anxious is listed even though the entry catalog never offers it; stored
// data may still carry the label.
var moodColors = map[string]string{
	"Happy":   "#10B981",
	"Calm":    "#60A5FA",
	"Sad":     "#8B5CF6",
	"Angry":   "#EF4444",
	"Neutral": "#F59E0B",
	"Anxious": "#A78BFA",
}

// Category is one slice of the mood distribution.
type Category struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Weekly is the aggregate consumed by the chart views. The day series run
// oldest to newest over the last 7 local calendar days; the distribution
// covers the entire entry history.
type Weekly struct {
	DayLabels      []string   `json:"day_labels"`
	IntensityByDay []float64  `json:"intensity_by_day"`
	SleepByDay     []float64  `json:"sleep_by_day"`
	Distribution   []Category `json:"distribution"`
}

// ComputeWeekly aggregates entries as of now. It is pure and stateless:
// every call recomputes from the full set, and identical inputs produce
// identical output.
//
// Buckets are local calendar days in now's timezone covering [now-6d, now].
// An entry lands in a bucket when its occurrence timestamp, rendered in the
// same timezone, matches the bucket's date. Entries outside the window or
// with unusable timestamps are skipped for the trends but still counted in
// the distribution. A day with no entries averages to 0, not NaN; the flat
// zero is part of the visible contract.
func ComputeWeekly(entries []models.MoodEntry, now time.Time) Weekly {
	loc := now.Location()

	labels := make([]string, Days)
	keys := make([]string, Days)
	bucket := make(map[string]int, Days)
	intensities := make([][]int, Days)
	sleeps := make([][]int, Days)

	for i := 0; i < Days; i++ {
		d := now.AddDate(0, 0, i-(Days-1))
		key := d.In(loc).Format("2006-01-02")
		keys[i] = key
		labels[i] = d.In(loc).Format("Mon")
		bucket[key] = i
	}

	for _, e := range entries {
		at, ok := e.OccurredAt()
		if !ok {
			continue
		}
		i, ok := bucket[at.In(loc).Format("2006-01-02")]
		if !ok {
			continue
		}
		intensities[i] = append(intensities[i], e.Intensity)
		sleeps[i] = append(sleeps[i], e.Sleep)
	}

	intensityByDay := make([]float64, Days)
	sleepByDay := make([]float64, Days)
	for i := 0; i < Days; i++ {
		intensityByDay[i] = mean(intensities[i])
		sleepByDay[i] = mean(sleeps[i])
	}

	return Weekly{
		DayLabels:      labels,
		IntensityByDay: intensityByDay,
		SleepByDay:     sleepByDay,
		Distribution:   distribution(entries),
	}
}

// distribution counts every entry with a non-empty mood, unbounded by the
// trend window. Category order is first-occurrence order while scanning.
func distribution(entries []models.MoodEntry) []Category {
	counts := make(map[string]int)
	order := []string{}
	for _, e := range entries {
		if e.Mood == "" {
			continue
		}
		if _, seen := counts[e.Mood]; !seen {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}

	out := make([]Category, 0, len(order))
	for _, label := range order {
		color, ok := moodColors[label]
		if !ok {
			color = defaultColor
		}
		out = append(out, Category{Label: label, Count: counts[label], Color: color})
	}
	return out
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
