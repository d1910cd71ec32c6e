package mongostore

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

type BookingRepository struct {
	client  *mongo.Client
	coll    *mongo.Collection
	locks   *mongo.Collection
	log     *zap.Logger
	timeout time.Duration
}

func NewBookingRepository(db *mongo.Database, log *zap.Logger, timeout time.Duration) *BookingRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingRepository{
		client:  db.Client(),
		coll:    db.Collection(bookingsCollection),
		locks:   db.Collection(locksCollection),
		log:     log,
		timeout: timeout,
	}
}

var sortByDayAndStart = options.Find().SetSort(bson.D{
	{Key: "date", Value: 1},
	{Key: "startMinute", Value: 1},
})

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *BookingRepository) ListByProfessionalAndDate(
	ctx context.Context,
	professionalID string,
	date string,
) ([]models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.find(ctx, bson.M{"professionalId": professionalID, "date": date})
}

func (r *BookingRepository) ListByProfessional(
	ctx context.Context,
	professionalID string,
) ([]models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.find(ctx, bson.M{"professionalId": professionalID})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	cur, err := r.coll.Find(ctx, filter, sortByDayAndStart)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Booking{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BookingRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
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

// Insert bumps a lock document for (professional, date) inside the
// transaction. Concurrent inserts for the same day then write-conflict and
// WithTransaction retries them, so guard always sees committed bookings.
func (r *BookingRepository) Insert(
	ctx context.Context,
	b *models.Booking,
	guard domain.Guard,
) (*models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer sess.EndSession(ctx)

	out, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := r.locks.UpdateOne(
			sc,
			bson.M{"_id": b.ProfessionalID + "|" + b.Date},
			bson.M{"$inc": bson.M{"version": 1}, "$set": bson.M{"touchedAt": time.Now().UTC()}},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, err
		}

		if b.IdempotencyKey != nil {
			existing, err := r.findByIdempotencyKey(sc, b.ProfessionalID, *b.IdempotencyKey)
			if err != nil || existing != nil {
				return existing, err
			}
		}

		blocking, err := r.find(sc, bson.M{
			"professionalId": b.ProfessionalID,
			"date":           b.Date,
			"status":         bson.M{"$in": domain.BlockingStrings()},
		})
		if err != nil {
			return nil, err
		}

		if guard != nil {
			if err := guard(blocking); err != nil {
				return nil, err
			}
		}

		if _, err := r.coll.InsertOne(sc, b); err != nil {
			return nil, err
		}
		return b, nil
	})

	if err != nil {
		if mongo.IsDuplicateKeyError(err) && b.IdempotencyKey != nil {
			existing, ferr := r.findByIdempotencyKey(ctx, b.ProfessionalID, *b.IdempotencyKey)
			if ferr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	return out.(*models.Booking), nil
}

func (r *BookingRepository) findByIdempotencyKey(
	ctx context.Context,
	professionalID string,
	key string,
) (*models.Booking, error) {

	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{
		"professionalId": professionalID,
		"idempotencyKey": key,
	}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) UpdateStatus(
	ctx context.Context,
	id string,
	apply domain.Mutation,
) (*models.Booking, error) {

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer sess.EndSession(ctx)

	out, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		var b models.Booking
		err := r.coll.FindOne(sc, bson.M{"_id": id}).Decode(&b)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.ErrNotFound("booking", id)
		}
		if err != nil {
			return nil, err
		}

		if err := apply(&b); err != nil {
			return nil, err
		}

		if _, err := r.coll.UpdateOne(sc, bson.M{"_id": id}, bson.M{"$set": bson.M{
			"status":    b.Status,
			"updatedAt": b.UpdatedAt,
		}}); err != nil {
			return nil, err
		}
		return &b, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.Booking), nil
}

// --------------------------------------------------
// Change stream
// --------------------------------------------------

func (r *BookingRepository) Subscribe(
	ctx context.Context,
	professionalID string,
) (domain.Watcher, error) {

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"fullDocument.professionalId": professionalID}}},
	}

	cs, err := r.coll.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w := &changeWatcher{
		cs:     cs,
		ch:     make(chan struct{}, 1),
		cancel: cancel,
	}
	go w.pump(wctx, r.log)

	return w, nil
}

type changeWatcher struct {
	cs     *mongo.ChangeStream
	ch     chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

func (w *changeWatcher) pump(ctx context.Context, log *zap.Logger) {
	defer close(w.ch)
	defer w.cs.Close(context.Background())

	for w.cs.Next(ctx) {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}
	if err := w.cs.Err(); err != nil && ctx.Err() == nil {
		log.Warn("booking change stream ended", zap.Error(err))
	}
}

func (w *changeWatcher) Changes() <-chan struct{} {
	return w.ch
}

func (w *changeWatcher) Close() error {
	w.once.Do(w.cancel)
	return nil
}

var _ domain.BookingRepository = (*BookingRepository)(nil)
