package services

import "time"

// Windows holds the canonical date boundaries every pipeline works with.
// All boundaries are derived from a single reference instant and share its
// location, so "today" cannot drift between fetchers of one request.
type Windows struct {
	TodayStart       time.Time
	TomorrowStart    time.Time
	FirstOfMonth     time.Time
	FirstOfPrevMonth time.Time
	LastOfPrevMonth  time.Time
}

// NewWindows derives the boundaries from now. Pure function: same now, same
// windows. Month rollover (January to previous December) is handled by
// AddDate on the first of the month.
func NewWindows(now time.Time) Windows {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Windows{
		TodayStart:       todayStart,
		TomorrowStart:    todayStart.AddDate(0, 0, 1),
		FirstOfMonth:     firstOfMonth,
		FirstOfPrevMonth: firstOfMonth.AddDate(0, -1, 0),
		LastOfPrevMonth:  firstOfMonth.AddDate(0, 0, -1),
	}
}

// NDaysAgo returns midnight n days before today.
func (w Windows) NDaysAgo(n int) time.Time {
	return w.TodayStart.AddDate(0, 0, -n)
}
