package scheduling

// SlotUnavailableMessage is shown to clients whose booking was rejected.
const SlotUnavailableMessage = "Horário não disponível. Por favor, escolha outro horário."

const (
	ReasonDayClosed           = "day_closed"
	ReasonOutsideWorkingHours = "outside_working_hours"
	ReasonTimeConflict        = "time_conflict"
	ReasonTooSoon             = "too_soon"
	ReasonBeyondHorizon       = "beyond_horizon"
)

// GenerateSlots walks every open range in fixed duration steps. A slot never
// crosses the end of its range, and slots overlapping a blocking interval are
// dropped. Output keeps range order, then chronological order.
func GenerateSlots(day Day, duration int, blocking []Interval) []AvailableSlot {
	slots := []AvailableSlot{}
	if !day.Open || duration <= 0 {
		return slots
	}

	for _, r := range day.Ranges {
		for start := r.Start; start+duration <= r.End; start += duration {
			candidate := Interval{Start: start, End: start + duration}
			if Conflicts(candidate, blocking) {
				continue
			}
			slots = append(slots, AvailableSlot{
				Date:        day.Date,
				StartTime:   FormatClock(candidate.Start),
				EndTime:     FormatClock(candidate.End),
				IsAvailable: true,
			})
		}
	}

	return slots
}

// WithinWorkingHours requires req to fit inside a single open range.
func WithinWorkingHours(day Day, req Interval) bool {
	for _, r := range day.Ranges {
		if req.Within(r) {
			return true
		}
	}
	return false
}

func Conflicts(req Interval, blocking []Interval) bool {
	for _, b := range blocking {
		if req.Overlaps(b) {
			return true
		}
	}
	return false
}

// CheckTemplate runs the day-open and working-hours stages of the gate.
func CheckTemplate(day Day, req Interval) string {
	if !day.Open {
		return ReasonDayClosed
	}
	if !WithinWorkingHours(day, req) {
		return ReasonOutsideWorkingHours
	}
	return ""
}

// Evaluate runs the whole availability gate and returns the first failing
// reason, or "" when the interval can be booked.
func Evaluate(day Day, req Interval, blocking []Interval) string {
	if reason := CheckTemplate(day, req); reason != "" {
		return reason
	}
	if Conflicts(req, blocking) {
		return ReasonTimeConflict
	}
	return ""
}
