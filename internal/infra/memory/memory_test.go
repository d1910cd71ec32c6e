package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

func booking(prof, date, start, end string) *models.Booking {
	iv, _ := domain.ParseInterval(start, end)
	return &models.Booking{
		ID:             uuid.NewString(),
		ProfessionalID: prof,
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		StartMinute:    iv.Start,
		EndMinute:      iv.End,
		Status:         string(domain.StatusPending),
		CreatedAt:      time.Now(),
	}
}

func noOverlap(b *models.Booking) domain.Guard {
	return func(blocking []models.Booking) error {
		req := domain.Interval{Start: b.StartMinute, End: b.EndMinute}
		for _, o := range blocking {
			if req.Overlaps(domain.Interval{Start: o.StartMinute, End: o.EndMinute}) {
				return httperr.ErrValidation(domain.ReasonTimeConflict, "conflict")
			}
		}
		return nil
	}
}

func TestAvailabilityRoundTripIsIsolated(t *testing.T) {
	ctx := context.Background()
	r := NewAvailabilityRepository()

	_, err := r.Get(ctx, "p1")
	assert.True(t, httperr.IsNotFound(err))

	av := domain.DefaultAvailability("p1")
	require.NoError(t, r.Put(ctx, av))

	av.Schedule[1].TimeSlots[0].Start = "06:00"

	got, err := r.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "08:00", got.Schedule[1].TimeSlots[0].Start)
}

func TestInsertGuardSeesOnlyBlockingSameDay(t *testing.T) {
	ctx := context.Background()
	r := NewBookingRepository(nil, nil)

	cancelled := booking("p1", "2024-01-15", "10:00", "11:00")
	cancelled.Status = string(domain.StatusCancelled)
	_, err := r.Insert(ctx, cancelled, nil)
	require.NoError(t, err)

	_, err = r.Insert(ctx, booking("p1", "2024-01-16", "10:00", "11:00"), nil)
	require.NoError(t, err)
	_, err = r.Insert(ctx, booking("p2", "2024-01-15", "10:00", "11:00"), nil)
	require.NoError(t, err)

	var seen []models.Booking
	_, err = r.Insert(ctx, booking("p1", "2024-01-15", "10:00", "11:00"), func(blocking []models.Booking) error {
		seen = blocking
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = r.Insert(ctx, booking("p1", "2024-01-15", "10:30", "11:30"), noOverlap(booking("p1", "2024-01-15", "10:30", "11:30")))
	assert.True(t, httperr.IsValidation(err, domain.ReasonTimeConflict))
}

func TestConcurrentInsertsOneWins(t *testing.T) {
	ctx := context.Background()
	r := NewBookingRepository(nil, nil)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := booking("p1", "2024-01-15", "10:00", "11:00")
			if _, err := r.Insert(ctx, b, noOverlap(b)); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	list, _ := r.ListByProfessionalAndDate(ctx, "p1", "2024-01-15")
	assert.Len(t, list, 1)
}

func TestInsertIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	r := NewBookingRepository(nil, nil)
	key := "retry-1"

	first := booking("p1", "2024-01-15", "10:00", "11:00")
	first.IdempotencyKey = &key
	stored, err := r.Insert(ctx, first, nil)
	require.NoError(t, err)

	again := booking("p1", "2024-01-15", "10:00", "11:00")
	again.IdempotencyKey = &key
	replay, err := r.Insert(ctx, again, func([]models.Booking) error {
		t.Fatal("guard must not run on replay")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, replay.ID)

	all, _ := r.ListByProfessional(ctx, "p1")
	assert.Len(t, all, 1)
}

func TestUpdateStatusAndNotify(t *testing.T) {
	ctx := context.Background()
	r := NewBookingRepository(nil, nil)

	w, err := r.Subscribe(ctx, "p1")
	require.NoError(t, err)
	defer w.Close()

	b, err := r.Insert(ctx, booking("p1", "2024-01-15", "10:00", "11:00"), nil)
	require.NoError(t, err)
	<-w.Changes()

	now := time.Now()
	updated, err := r.UpdateStatus(ctx, b.ID, func(cur *models.Booking) error {
		return domain.Transition(cur, domain.StatusConfirmed, now)
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)
	<-w.Changes()

	_, err = r.UpdateStatus(ctx, b.ID, func(cur *models.Booking) error {
		return domain.Transition(cur, domain.StatusPending, now)
	})
	assert.True(t, httperr.IsValidation(err, "invalid_state"))

	got, _ := r.Get(ctx, b.ID)
	assert.Equal(t, "confirmed", got.Status)

	_, err = r.UpdateStatus(ctx, "missing", func(*models.Booking) error { return nil })
	assert.True(t, httperr.IsNotFound(err))
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	r := NewBookingRepository(nil, nil)

	_, _ = r.Insert(ctx, booking("p1", "2024-01-16", "09:00", "10:00"), nil)
	_, _ = r.Insert(ctx, booking("p1", "2024-01-15", "14:00", "15:00"), nil)
	_, _ = r.Insert(ctx, booking("p1", "2024-01-15", "09:00", "10:00"), nil)

	list, err := r.ListByProfessional(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2024-01-15", list[0].Date)
	assert.Equal(t, "09:00", list[0].StartTime)
	assert.Equal(t, "14:00", list[1].StartTime)
	assert.Equal(t, "2024-01-16", list[2].Date)
}
