package scheduling

import (
	"context"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

type AvailabilityRepository interface {
	// Get returns a NotFoundError when the professional never saved a template.
	Get(
		ctx context.Context,
		professionalID string,
	) (*models.ProfessionalAvailability, error)

	// Put replaces the whole document.
	Put(
		ctx context.Context,
		av *models.ProfessionalAvailability,
	) error
}

// Guard runs inside the store's critical section for the booking's
// (professional, date) pair, with every blocking booking of that day.
// Returning an error aborts the insert.
type Guard func(blocking []models.Booking) error

// Mutation is applied to a locked booking before it is written back.
type Mutation func(b *models.Booking) error

// Watcher signals that a professional's bookings changed. Signals may be
// coalesced; receivers re-read the list.
type Watcher interface {
	Changes() <-chan struct{}
	Close() error
}

type BookingRepository interface {
	// -------- Reads --------
	ListByProfessionalAndDate(
		ctx context.Context,
		professionalID string,
		date string,
	) ([]models.Booking, error)

	ListByProfessional(
		ctx context.Context,
		professionalID string,
	) ([]models.Booking, error)

	Get(
		ctx context.Context,
		id string,
	) (*models.Booking, error)

	// -------- Writes --------

	// Insert atomically checks guard and stores b. When b carries an
	// idempotency key already used by the same professional, the stored
	// booking is returned and nothing is written.
	Insert(
		ctx context.Context,
		b *models.Booking,
		guard Guard,
	) (*models.Booking, error)

	UpdateStatus(
		ctx context.Context,
		id string,
		apply Mutation,
	) (*models.Booking, error)

	// -------- Live updates --------
	Subscribe(
		ctx context.Context,
		professionalID string,
	) (Watcher, error)
}
