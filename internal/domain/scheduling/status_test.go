package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, e := range allowed {
		assert.NoError(t, CanTransition(e[0], e[1]), "%s -> %s", e[0], e[1])
	}

	denied := [][2]Status{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusPending},
		{StatusConfirmed, StatusPending},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		{StatusCancelled, StatusPending},
	}
	for _, e := range denied {
		err := CanTransition(e[0], e[1])
		assert.True(t, httperr.IsValidation(err, "invalid_state"), "%s -> %s", e[0], e[1])
	}

	err := CanTransition(StatusPending, Status("archived"))
	assert.True(t, httperr.IsValidation(err, "invalid_status"))
}

func TestStatusFlags(t *testing.T) {
	assert.True(t, StatusPending.Blocking())
	assert.True(t, StatusConfirmed.Blocking())
	assert.False(t, StatusCompleted.Blocking())
	assert.False(t, StatusCancelled.Blocking())

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())

	assert.Equal(t, StatusPending, InitialStatus())
	assert.ElementsMatch(t, []string{"pending", "confirmed"}, BlockingStrings())
}

func TestTransitionStampsUpdatedAt(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: "pending"}

	require.NoError(t, Transition(b, StatusConfirmed, now))
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, now, b.UpdatedAt)

	err := Transition(b, StatusPending, now.Add(time.Hour))
	assert.Error(t, err)
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, now, b.UpdatedAt)
}

func TestBlockingIntervals(t *testing.T) {
	bookings := []models.Booking{
		{ID: "a", Status: "pending", StartTime: "09:00", EndTime: "10:00"},
		{ID: "b", Status: "confirmed", StartTime: "11:00", EndTime: "11:30"},
		{ID: "c", Status: "cancelled", StartTime: "10:00", EndTime: "11:00"},
		{ID: "d", Status: "completed", StartTime: "12:00", EndTime: "13:00"},
		{ID: "e", Status: "pending", StartTime: "bad", EndTime: "13:00"},
	}

	ivs, skipped := BlockingIntervals(bookings)
	assert.Equal(t, []Interval{{540, 600}, {660, 690}}, ivs)
	require.Len(t, skipped, 1)
	assert.Equal(t, "e", skipped[0].ID)
}
