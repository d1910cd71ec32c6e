package scheduling

import (
	"time"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/timezone"
)

// dateInHorizon reports beyond_horizon for dates past today + HorizonDays.
func (e *Engine) dateInHorizon(date time.Time) string {
	if e.window.HorizonDays <= 0 {
		return ""
	}

	last := timezone.Today(e.now(), e.loc).AddDate(0, 0, e.window.HorizonDays)
	if timezone.Midnight(date, e.loc).After(last) {
		return domain.ReasonBeyondHorizon
	}
	return ""
}

// startAllowed reports too_soon for starts before now + MinAdvance.
func (e *Engine) startAllowed(date time.Time, startMinute int) string {
	if !e.window.enabled() {
		return ""
	}

	start := timezone.At(date, startMinute, e.loc)
	if start.Before(e.now().Add(e.window.MinAdvance)) {
		return domain.ReasonTooSoon
	}
	return ""
}

func (e *Engine) windowReason(date time.Time, startMinute int) string {
	if reason := e.dateInHorizon(date); reason != "" {
		return reason
	}
	return e.startAllowed(date, startMinute)
}
