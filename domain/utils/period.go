package utils

import (
	"time"

	"clubbet/domain/entities"
)

// seasonStartMonth is when a club season rolls over.
const seasonStartMonth = time.August

// PeriodStart returns the inclusive lower bound for aggregating bets in
// the given period, relative to now. The second return is false for
// unbounded periods (ALL_TIME).
func PeriodStart(period entities.Period, now time.Time) (time.Time, bool) {
	now = now.UTC()
	switch period {
	case entities.PeriodDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	case entities.PeriodWeekly:
		// Weeks start on Monday.
		offset := (int(now.Weekday()) + 6) % 7
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -offset), true
	case entities.PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), true
	case entities.PeriodSeason:
		year := now.Year()
		if now.Month() < seasonStartMonth {
			year--
		}
		return time.Date(year, seasonStartMonth, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}
