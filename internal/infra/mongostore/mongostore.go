// Package mongostore implements the scheduling repositories on MongoDB.
// Transactions and change streams require a replica set deployment.
package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	availabilityCollection = "availability"
	bookingsCollection     = "bookings"
	locksCollection        = "booking_locks"
	auditCollection        = "audit_logs"
)

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(bookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "date", Value: 1}, {Key: "startMinute", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "idempotencyKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$exists": true}}),
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
