// Package memory keeps availability and bookings in process memory.
// It backs development runs and the engine tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/infra/changefeed"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// ======================================================
// AVAILABILITY
// ======================================================

type AvailabilityRepository struct {
	mu   sync.RWMutex
	docs map[string]models.ProfessionalAvailability
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{docs: make(map[string]models.ProfessionalAvailability)}
}

func (r *AvailabilityRepository) Get(
	_ context.Context,
	professionalID string,
) (*models.ProfessionalAvailability, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[professionalID]
	if !ok {
		return nil, httperr.ErrNotFound("availability", professionalID)
	}
	out := cloneAvailability(doc)
	return &out, nil
}

func (r *AvailabilityRepository) Put(
	_ context.Context,
	av *models.ProfessionalAvailability,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[av.ProfessionalID] = cloneAvailability(*av)
	return nil
}

func cloneAvailability(av models.ProfessionalAvailability) models.ProfessionalAvailability {
	out := av
	out.Schedule = make([]models.DaySchedule, len(av.Schedule))
	for i, d := range av.Schedule {
		d.TimeSlots = append([]models.TimeRange(nil), d.TimeSlots...)
		out.Schedule[i] = d
	}
	out.Exceptions = make([]models.DateException, len(av.Exceptions))
	for i, e := range av.Exceptions {
		e.TimeSlots = append([]models.TimeRange(nil), e.TimeSlots...)
		out.Exceptions[i] = e
	}
	return out
}

// ======================================================
// BOOKINGS
// ======================================================

type BookingRepository struct {
	mu   sync.Mutex
	byID map[string]models.Booking
	idem map[string]string
	feed changefeed.Broker
	log  *zap.Logger
}

func NewBookingRepository(feed changefeed.Broker, log *zap.Logger) *BookingRepository {
	if feed == nil {
		feed = changefeed.NewLocal()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingRepository{
		byID: make(map[string]models.Booking),
		idem: make(map[string]string),
		feed: feed,
		log:  log,
	}
}

func idemKey(professionalID, key string) string {
	return professionalID + "|" + key
}

func (r *BookingRepository) ListByProfessionalAndDate(
	_ context.Context,
	professionalID string,
	date string,
) ([]models.Booking, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.filter(func(b models.Booking) bool {
		return b.ProfessionalID == professionalID && b.Date == date
	}), nil
}

func (r *BookingRepository) ListByProfessional(
	_ context.Context,
	professionalID string,
) ([]models.Booking, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.filter(func(b models.Booking) bool {
		return b.ProfessionalID == professionalID
	}), nil
}

// filter must be called with r.mu held. Results are ordered by date and start.
func (r *BookingRepository) filter(keep func(models.Booking) bool) []models.Booking {
	out := []models.Booking{}
	for _, b := range r.byID {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute < out[j].StartMinute
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *BookingRepository) Get(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, httperr.ErrNotFound("booking", id)
	}
	return &b, nil
}

func (r *BookingRepository) Insert(
	ctx context.Context,
	b *models.Booking,
	guard domain.Guard,
) (*models.Booking, error) {

	r.mu.Lock()

	if b.IdempotencyKey != nil {
		if id, ok := r.idem[idemKey(b.ProfessionalID, *b.IdempotencyKey)]; ok {
			existing := r.byID[id]
			r.mu.Unlock()
			return &existing, nil
		}
	}

	blocking := r.filter(func(o models.Booking) bool {
		return o.ProfessionalID == b.ProfessionalID &&
			o.Date == b.Date &&
			domain.Status(o.Status).Blocking()
	})

	if guard != nil {
		if err := guard(blocking); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}

	stored := *b
	r.byID[stored.ID] = stored
	if stored.IdempotencyKey != nil {
		r.idem[idemKey(stored.ProfessionalID, *stored.IdempotencyKey)] = stored.ID
	}
	r.mu.Unlock()

	r.publish(ctx, stored.ProfessionalID)
	return &stored, nil
}

func (r *BookingRepository) UpdateStatus(
	ctx context.Context,
	id string,
	apply domain.Mutation,
) (*models.Booking, error) {

	r.mu.Lock()

	current, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, httperr.ErrNotFound("booking", id)
	}

	if err := apply(&current); err != nil {
		r.mu.Unlock()
		return nil, err
	}

	r.byID[id] = current
	r.mu.Unlock()

	r.publish(ctx, current.ProfessionalID)
	return &current, nil
}

func (r *BookingRepository) Subscribe(
	ctx context.Context,
	professionalID string,
) (domain.Watcher, error) {
	return r.feed.Subscribe(ctx, professionalID)
}

func (r *BookingRepository) publish(ctx context.Context, professionalID string) {
	if err := r.feed.Publish(ctx, professionalID); err != nil {
		r.log.Warn("booking change not published",
			zap.String("professional_id", professionalID),
			zap.Error(err),
		)
	}
}
