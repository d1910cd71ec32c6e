package scheduling

import (
	"context"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

func (e *Engine) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := e.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrStore("get booking", err)
	}
	return b, nil
}

// GetProfessionalBookings returns every booking of a professional ordered by
// date and start time, whatever the status.
func (e *Engine) GetProfessionalBookings(
	ctx context.Context,
	professionalID string,
) ([]models.Booking, error) {

	list, err := e.bookings.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, httperr.ErrStore("list bookings", err)
	}
	if list == nil {
		list = []models.Booking{}
	}
	return list, nil
}
