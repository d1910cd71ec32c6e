package scheduling

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	minutesPerDay = 24 * 60
)

// ParseClock converts a zero-padded "HH:MM" into minutes since midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(hm string) (int, error) {
	if len(hm) != 5 || hm[2] != ':' {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	h, okH := twoDigits(hm[0], hm[1])
	m, okM := twoDigits(hm[3], hm[4])
	if !okH || !okM || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock %q", hm)
	}
	return h*60 + m, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a calendar date with no timezone attached.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// Weekday resolves the 0 (Sunday) .. 6 (Saturday) index of a "YYYY-MM-DD" date.
func Weekday(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(d.Weekday()), nil
}

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps uses the half-open test: touching endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// Within reports whether i lies entirely inside o.
func (i Interval) Within(o Interval) bool {
	return i.Start >= o.Start && i.End <= o.End
}

func (i Interval) Minutes() int {
	return i.End - i.Start
}

// ParseInterval parses a pair of "HH:MM" clocks. start must precede end.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, httperr.ErrValidation("invalid_time", "Horário inválido.")
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, httperr.ErrValidation("invalid_time", "Horário inválido.")
	}
	if s >= e {
		return Interval{}, httperr.ErrValidation("invalid_interval", "O horário final deve ser posterior ao inicial.")
	}
	return Interval{Start: s, End: e}, nil
}
