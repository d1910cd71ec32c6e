package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

// Location loads tz, falling back to DefaultTimezone (then UTC) when the
// name is empty or unknown to the host's zoneinfo.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Midnight returns the start of t's calendar day in loc. The calendar
// fields of t are read as-is, without converting t to loc first.
func Midnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Today is the start of the current day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	return Midnight(now.In(loc), loc)
}

// At places a wall-clock minute-of-day on the calendar date of day, in loc.
func At(day time.Time, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, loc)
}
