package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

type AvailabilityRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAvailabilityRepository(db *mongo.Database, timeout time.Duration) *AvailabilityRepository {
	return &AvailabilityRepository{
		coll:    db.Collection(availabilityCollection),
		timeout: timeout,
	}
}

func (r *AvailabilityRepository) Get(
	ctx context.Context,
	professionalID string,
) (*models.ProfessionalAvailability, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var av models.ProfessionalAvailability
	err := r.coll.FindOne(ctx, bson.M{"_id": professionalID}).Decode(&av)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, httperr.ErrNotFound("availability", professionalID)
	}
	if err != nil {
		return nil, err
	}
	return &av, nil
}

func (r *AvailabilityRepository) Put(
	ctx context.Context,
	av *models.ProfessionalAvailability,
) error {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": av.ProfessionalID},
		av,
		options.Replace().SetUpsert(true),
	)
	return err
}

var _ domain.AvailabilityRepository = (*AvailabilityRepository)(nil)
