package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// GormRecorder writes audit entries to the audit_logs table.
type GormRecorder struct {
	db *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

func (r *GormRecorder) Record(ctx context.Context, entry models.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// Filter narrows an audit log listing. Zero fields are ignored.
type Filter struct {
	Action string
	Entity string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// Reader pages through audit entries.
type Reader interface {
	List(ctx context.Context, professionalID string, f Filter) ([]models.AuditLog, int64, error)
}

// List pages through a professional's entries, newest first.
func (r *GormRecorder) List(
	ctx context.Context,
	professionalID string,
	f Filter,
) ([]models.AuditLog, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("professional_id = ?", professionalID)

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, httperr.ErrStore("count audit logs", err)
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, httperr.ErrStore("list audit logs", err)
	}

	return logs, total, nil
}

// ZapRecorder only logs entries. Used when no durable store is configured.
type ZapRecorder struct {
	log *zap.Logger
}

func NewZapRecorder(log *zap.Logger) *ZapRecorder {
	return &ZapRecorder{log: log}
}

func (r *ZapRecorder) Record(_ context.Context, entry models.AuditLog) error {
	r.log.Info("audit",
		zap.String("professional_id", entry.ProfessionalID),
		zap.String("actor_id", entry.ActorID),
		zap.String("action", entry.Action),
		zap.String("entity", entry.Entity),
		zap.String("entity_id", entry.EntityID),
		zap.String("metadata", entry.Metadata),
	)
	return nil
}

var (
	_ Recorder = (*GormRecorder)(nil)
	_ Reader   = (*GormRecorder)(nil)
	_ Recorder = (*ZapRecorder)(nil)
)
