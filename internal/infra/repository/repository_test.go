package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock, func() { _ = sqlDB.Close() }
}

var bookingColumns = []string{
	"id", "professional_id", "client_id", "date", "start_time", "end_time",
	"start_minute", "end_minute", "status", "created_at", "updated_at",
}

func TestAvailabilityGetNotFound(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewAvailabilityGormRepository(db, time.Second)

	mock.ExpectQuery(`SELECT \* FROM "professional_availability" WHERE professional_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"professional_id", "schedule", "exceptions", "updated_at"}))

	_, err := repo.Get(context.Background(), "p1")
	assert.True(t, httperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityGetDecodesJSON(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewAvailabilityGormRepository(db, 0)

	schedule := `[{"day_of_week":1,"day_name":"Segunda-feira","is_available":true,"time_slots":[{"start":"09:00","end":"12:00"}]}]`
	mock.ExpectQuery(`SELECT \* FROM "professional_availability"`).
		WillReturnRows(sqlmock.NewRows([]string{"professional_id", "schedule", "exceptions", "updated_at"}).
			AddRow("p1", []byte(schedule), []byte(`[]`), time.Now()))

	av, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, av.Schedule, 1)
	assert.Equal(t, "09:00", av.Schedule[0].TimeSlots[0].Start)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingInsertConflictRollsBack(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewBookingGormRepository(db, nil, nil, time.Second)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("booking:p1|2024-01-15").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE .*professional_id = \$1 AND date = \$2 AND status IN \(\$3,\$4\).*ORDER BY start_minute ASC FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "p1", "c1", "2024-01-15", "10:00", "11:00", 600, 660, "pending", now, now))
	mock.ExpectRollback()

	b := &models.Booking{
		ID:             "b2",
		ProfessionalID: "p1",
		Date:           "2024-01-15",
		StartTime:      "10:30",
		EndTime:        "11:30",
		StartMinute:    630,
		EndMinute:      690,
		Status:         "pending",
	}

	var seen []models.Booking
	_, err := repo.Insert(context.Background(), b, func(blocking []models.Booking) error {
		seen = blocking
		return httperr.ErrValidation(domain.ReasonTimeConflict, domain.SlotUnavailableMessage)
	})

	assert.True(t, httperr.IsValidation(err, domain.ReasonTimeConflict))
	require.Len(t, seen, 1)
	assert.Equal(t, "b1", seen[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingInsertReplaysIdempotencyKey(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewBookingGormRepository(db, nil, nil, 0)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE .*professional_id = \$1 AND idempotency_key = \$2`).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "p1", "c1", "2024-01-15", "10:00", "11:00", 600, 660, "pending", now, now))
	mock.ExpectCommit()

	key := "req-1"
	got, err := repo.Insert(context.Background(), &models.Booking{
		ID:             "b-new",
		ProfessionalID: "p1",
		Date:           "2024-01-15",
		IdempotencyKey: &key,
	}, func([]models.Booking) error {
		t.Fatal("guard must not run on replay")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewBookingGormRepository(db, nil, nil, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "missing", func(*models.Booking) error { return nil })
	assert.True(t, httperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusRejectsIllegalEdge(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewBookingGormRepository(db, nil, nil, 0)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "p1", "c1", "2024-01-15", "10:00", "11:00", 600, 660, "cancelled", now, now))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "b1", func(b *models.Booking) error {
		return domain.Transition(b, domain.StatusConfirmed, time.Now())
	})
	assert.True(t, httperr.IsValidation(err, "invalid_state"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListByProfessional(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewBookingGormRepository(db, nil, nil, 0)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE professional_id = \$1 ORDER BY date ASC, start_minute ASC`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("b1", "p1", "c1", "2024-01-15", "09:00", "10:00", 540, 600, "confirmed", now, now).
			AddRow("b2", "p1", "c2", "2024-01-16", "09:00", "10:00", 540, 600, "pending", now, now))

	list, err := repo.ListByProfessional(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b2", list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
