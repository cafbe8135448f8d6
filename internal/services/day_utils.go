package services

import "time"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// CalendarDay keeps the calendar date of value as seen in location and returns it as
// midnight UTC, the form creation dates are stored in.
func CalendarDay(value time.Time, location *time.Location) time.Time {
	local := DateAtLocation(value, location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// storedDay converts a requested date into its stored form. Dates without a
// requested value fall back to today in location.
func storedDay(requested *time.Time, now time.Time, location *time.Location) time.Time {
	if requested == nil {
		return CalendarDay(now, location)
	}
	year, month, day := requested.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
