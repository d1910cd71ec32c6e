package scheduling

import (
	"time"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// AvailableSlot is computed on demand and never persisted.
type AvailableSlot struct {
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// ===============================
// Domain Actions
// ===============================

// Transition moves b along the state machine and stamps UpdatedAt.
func Transition(b *models.Booking, next Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), next); err != nil {
		return err
	}

	b.Status = string(next)
	b.UpdatedAt = now
	return nil
}

// BookingInterval reads the booked span from its clock strings.
func BookingInterval(b models.Booking) (Interval, error) {
	return ParseInterval(b.StartTime, b.EndTime)
}

// BlockingIntervals keeps only bookings that still reserve their time.
// Rows with unreadable clocks are returned separately so callers can log them.
func BlockingIntervals(bookings []models.Booking) (out []Interval, skipped []models.Booking) {
	for _, b := range bookings {
		if !Status(b.Status).Blocking() {
			continue
		}
		iv, err := BookingInterval(b)
		if err != nil {
			skipped = append(skipped, b)
			continue
		}
		out = append(out, iv)
	}
	return out, skipped
}
