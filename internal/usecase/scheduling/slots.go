package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// GetAvailableSlots lists the free fixed-length slots of a date.
func (e *Engine) GetAvailableSlots(
	ctx context.Context,
	professionalID string,
	date string,
	durationMinutes int,
) ([]domain.AvailableSlot, error) {

	defer e.metrics.Since("get_slots", time.Now())
	e.metrics.SlotQuery()

	if durationMinutes <= 0 {
		return nil, httperr.ErrValidation("invalid_duration", "Duração inválida.")
	}

	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "Data inválida.")
	}

	if e.dateInHorizon(d) != "" {
		return []domain.AvailableSlot{}, nil
	}

	day, err := e.resolveDay(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}
	if !day.Open {
		return []domain.AvailableSlot{}, nil
	}

	blocking, err := e.blockingIntervals(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}

	slots := domain.GenerateSlots(day, durationMinutes, blocking)
	if !e.window.enabled() {
		return slots, nil
	}

	out := slots[:0]
	for _, s := range slots {
		start, _ := domain.ParseClock(s.StartTime)
		if e.startAllowed(d, start) == "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (e *Engine) resolveDay(
	ctx context.Context,
	professionalID string,
	date string,
) (domain.Day, error) {

	av, err := e.availability.Get(ctx, professionalID)
	if err != nil {
		return domain.Day{}, err
	}
	return domain.ResolveDay(av, date)
}

func (e *Engine) blockingIntervals(
	ctx context.Context,
	professionalID string,
	date string,
) ([]domain.Interval, error) {

	bookings, err := e.bookings.ListByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		return nil, httperr.ErrStore("list bookings", err)
	}
	return e.toIntervals(bookings), nil
}

func (e *Engine) toIntervals(bookings []models.Booking) []domain.Interval {
	out, skipped := domain.BlockingIntervals(bookings)
	for _, b := range skipped {
		e.log.Warn("booking with unreadable times ignored",
			zap.String("booking_id", b.ID),
			zap.String("start_time", b.StartTime),
			zap.String("end_time", b.EndTime),
		)
	}
	return out
}
