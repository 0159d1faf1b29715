package services

import (
	"time"

	"github.com/physiocapture/physiocapture-backend/internal/dashboard/models"
)

// ComputeTrend returns the signed percentage change between a current and a
// previous period count. A zero base yields 0: there is no meaningful
// percentage change from nothing, and the dashboards must never show
// Inf or NaN.
func ComputeTrend(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// Bucketize groups timestamped events into one bucket per calendar day over
// the trailing windowDays window ending today, in chronological order. Days
// without events appear with count zero so charts render without gaps.
// Events outside the window are ignored rather than misfiled; the queries
// feeding this are already window-filtered, but a row straddling a boundary
// must not crash the chart.
func Bucketize(events []time.Time, windowDays int, now time.Time) []models.DayBucket {
	if windowDays <= 0 {
		return []models.DayBucket{}
	}

	w := NewWindows(now)
	start := w.NDaysAgo(windowDays - 1)

	buckets := make([]models.DayBucket, windowDays)
	index := make(map[string]int, windowDays)
	for i := 0; i < windowDays; i++ {
		day := start.AddDate(0, 0, i)
		index[day.Format("2006-01-02")] = i
		buckets[i] = models.DayBucket{Label: day.Format("02/01")}
	}

	for _, ev := range events {
		key := ev.In(now.Location()).Format("2006-01-02")
		if i, ok := index[key]; ok {
			buckets[i].Count++
		}
	}

	return buckets
}
