package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// AuditRecorder writes audit entries to the audit_logs collection.
type AuditRecorder struct {
	coll *mongo.Collection
}

func NewAuditRecorder(db *mongo.Database) *AuditRecorder {
	return &AuditRecorder{coll: db.Collection(auditCollection)}
}

func (r *AuditRecorder) Record(ctx context.Context, entry models.AuditLog) error {
	_, err := r.coll.InsertOne(ctx, entry)
	return err
}

func (r *AuditRecorder) List(
	ctx context.Context,
	professionalID string,
	f audit.Filter,
) ([]models.AuditLog, int64, error) {

	filter := bson.M{"professionalId": professionalID}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if f.Entity != "" {
		filter["entity"] = f.Entity
	}
	created := bson.M{}
	if !f.From.IsZero() {
		created["$gte"] = f.From
	}
	if !f.To.IsZero() {
		created["$lt"] = f.To
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, httperr.ErrStore("count audit logs", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(f.Offset))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, httperr.ErrStore("list audit logs", err)
	}
	defer cur.Close(ctx)

	logs := []models.AuditLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, 0, httperr.ErrStore("list audit logs", err)
	}
	return logs, total, nil
}

var (
	_ audit.Recorder = (*AuditRecorder)(nil)
	_ audit.Reader   = (*AuditRecorder)(nil)
)
