package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewAvailabilityGormRepository(db *gorm.DB, timeout time.Duration) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db, timeout: timeout}
}

func (r *AvailabilityGormRepository) Get(
	ctx context.Context,
	professionalID string,
) (*models.ProfessionalAvailability, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var av models.ProfessionalAvailability
	err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Take(&av).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("availability", professionalID)
	}
	if err != nil {
		return nil, err
	}
	return &av, nil
}

// Put upserts the whole document.
func (r *AvailabilityGormRepository) Put(
	ctx context.Context,
	av *models.ProfessionalAvailability,
) error {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "professional_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"schedule", "exceptions", "updated_at"}),
		}).
		Create(av).Error
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Compile-time check
var _ domain.AvailabilityRepository = (*AvailabilityGormRepository)(nil)
