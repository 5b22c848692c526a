package service

import "time"

// NextStreak computes the streak after a completion at now. Days are UTC
// calendar days. The boolean is false when the learner already completed a
// lesson today and nothing needs to be written.
func NextStreak(current int, lastActivity *time.Time, now time.Time) (int, bool) {
	if lastActivity == nil {
		return 1, true
	}

	today := calendarDay(now)
	last := calendarDay(*lastActivity)

	switch {
	case last.Equal(today):
		return current, false
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1, true
	default:
		return 1, true
	}
}

func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
