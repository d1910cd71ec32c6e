package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// UpdateBookingStatus moves a booking along the state machine. The edge is
// validated against the stored status inside the store's lock.
func (e *Engine) UpdateBookingStatus(
	ctx context.Context,
	bookingID string,
	status string,
) (*models.Booking, error) {

	defer e.metrics.Since("update_status", time.Now())

	next := domain.Status(status)
	if !next.Valid() {
		return nil, httperr.ErrValidation("invalid_status", "Status inválido.")
	}

	var previous string
	now := e.now().UTC()

	updated, err := e.bookings.UpdateStatus(ctx, bookingID, func(b *models.Booking) error {
		previous = b.Status
		return domain.Transition(b, next, now)
	})
	if err != nil {
		if httperr.IsValidation(err, "") || httperr.IsNotFound(err) {
			return nil, err
		}
		e.log.Error("booking status update failed",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
		return nil, httperr.ErrStore("update booking status", err)
	}

	e.metrics.StatusChanged(status)
	e.audit.Dispatch(audit.Event{
		ProfessionalID: updated.ProfessionalID,
		ActorID:        updated.ProfessionalID,
		Action:         "booking_status_changed",
		Entity:         "booking",
		EntityID:       updated.ID,
		Metadata: map[string]string{
			"from": previous,
			"to":   status,
		},
	})

	return updated, nil
}
