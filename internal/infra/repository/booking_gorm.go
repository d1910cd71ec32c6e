package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/infra/changefeed"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

type BookingGormRepository struct {
	db      *gorm.DB
	feed    changefeed.Broker
	log     *zap.Logger
	timeout time.Duration
}

func NewBookingGormRepository(
	db *gorm.DB,
	feed changefeed.Broker,
	log *zap.Logger,
	timeout time.Duration,
) *BookingGormRepository {
	if feed == nil {
		feed = changefeed.NewLocal()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingGormRepository{db: db, feed: feed, log: log, timeout: timeout}
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *BookingGormRepository) ListByProfessionalAndDate(
	ctx context.Context,
	professionalID string,
	date string,
) ([]models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var list []models.Booking
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND date = ?", professionalID, date).
		Order("start_minute ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BookingGormRepository) ListByProfessional(
	ctx context.Context,
	professionalID string,
) ([]models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var list []models.Booking
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("date ASC, start_minute ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BookingGormRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var b models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("booking", id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

// Insert serialises writers of one (professional, date) with a transaction
// scoped advisory lock, re-reads the blocking bookings under FOR UPDATE and
// runs guard before inserting. The bookings_no_overlap exclusion constraint
// backs this up for writers that bypass the lock.
func (r *BookingGormRepository) Insert(
	ctx context.Context,
	b *models.Booking,
	guard domain.Guard,
) (*models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var result *models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(?))",
			lockKey(b.ProfessionalID, b.Date),
		).Error; err != nil {
			return err
		}

		if b.IdempotencyKey != nil {
			existing, err := findByIdempotencyKey(tx, b.ProfessionalID, *b.IdempotencyKey)
			if err != nil {
				return err
			}
			if existing != nil {
				result = existing
				return nil
			}
		}

		var blocking []models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"professional_id = ? AND date = ? AND status IN ?",
				b.ProfessionalID,
				b.Date,
				domain.BlockingStrings(),
			).
			Order("start_minute ASC").
			Find(&blocking).Error; err != nil {
			return err
		}

		if guard != nil {
			if err := guard(blocking); err != nil {
				return err
			}
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}
		result = b
		return nil
	})

	switch {
	case err == nil:
	case httperr.IsValidation(err, ""):
		return nil, err
	case httperr.IsExclusionConflict(err):
		return nil, httperr.ErrValidation(domain.ReasonTimeConflict, domain.SlotUnavailableMessage)
	case httperr.IsUniqueViolation(err) && b.IdempotencyKey != nil:
		// a concurrent retry with the same key committed first
		existing, ferr := findByIdempotencyKey(r.db.WithContext(ctx), b.ProfessionalID, *b.IdempotencyKey)
		if ferr != nil || existing == nil {
			return nil, err
		}
		return existing, nil
	default:
		return nil, err
	}

	if result.ID == b.ID {
		r.publish(ctx, b.ProfessionalID)
	}
	return result, nil
}

// UpdateStatus locks the row, applies the mutation and writes status and
// updated_at back in the same transaction.
func (r *BookingGormRepository) UpdateStatus(
	ctx context.Context,
	id string,
	apply domain.Mutation,
) (*models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var b models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&b).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrNotFound("booking", id)
		}
		if err != nil {
			return err
		}

		if err := apply(&b); err != nil {
			return err
		}

		return tx.Model(&models.Booking{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":     b.Status,
				"updated_at": b.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	r.publish(ctx, b.ProfessionalID)
	return &b, nil
}

func (r *BookingGormRepository) Subscribe(
	ctx context.Context,
	professionalID string,
) (domain.Watcher, error) {
	return r.feed.Subscribe(ctx, professionalID)
}

func (r *BookingGormRepository) publish(ctx context.Context, professionalID string) {
	if err := r.feed.Publish(context.WithoutCancel(ctx), professionalID); err != nil {
		r.log.Warn("booking change not published",
			zap.String("professional_id", professionalID),
			zap.Error(err),
		)
	}
}

func findByIdempotencyKey(db *gorm.DB, professionalID, key string) (*models.Booking, error) {
	var b models.Booking
	err := db.
		Where("professional_id = ? AND idempotency_key = ?", professionalID, key).
		Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func lockKey(professionalID, date string) string {
	return "booking:" + professionalID + "|" + date
}

// Compile-time check
var _ domain.BookingRepository = (*BookingGormRepository)(nil)
