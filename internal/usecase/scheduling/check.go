package scheduling

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
)

// CheckAvailability runs the availability gate. A failing stage yields
// false with a nil error; malformed input and store failures are errors.
func (e *Engine) CheckAvailability(
	ctx context.Context,
	professionalID string,
	date string,
	startTime string,
	endTime string,
) (bool, error) {

	reason, err := e.Reason(ctx, professionalID, date, startTime, endTime)
	if err != nil {
		return false, err
	}
	return reason == "", nil
}

// Reason is CheckAvailability with the failing stage exposed:
// day_closed, outside_working_hours, time_conflict, too_soon or
// beyond_horizon. Empty means bookable.
func (e *Engine) Reason(
	ctx context.Context,
	professionalID string,
	date string,
	startTime string,
	endTime string,
) (string, error) {

	defer e.metrics.Since("check_availability", time.Now())

	d, req, err := parseRequest(date, startTime, endTime)
	if err != nil {
		return "", err
	}

	if reason := e.windowReason(d, req.Start); reason != "" {
		return reason, nil
	}

	day, err := e.resolveDay(ctx, professionalID, date)
	if err != nil {
		return "", err
	}
	if reason := domain.CheckTemplate(day, req); reason != "" {
		return reason, nil
	}

	blocking, err := e.blockingIntervals(ctx, professionalID, date)
	if err != nil {
		return "", err
	}
	if domain.Conflicts(req, blocking) {
		return domain.ReasonTimeConflict, nil
	}
	return "", nil
}

func parseRequest(date, startTime, endTime string) (time.Time, domain.Interval, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return time.Time{}, domain.Interval{}, httperr.ErrValidation("invalid_date", "Data inválida.")
	}
	req, err := domain.ParseInterval(startTime, endTime)
	if err != nil {
		return time.Time{}, domain.Interval{}, err
	}
	return d, req, nil
}
