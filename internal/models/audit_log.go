package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id" bson:"-"`

	ProfessionalID string `gorm:"size:64;index;not null" json:"professional_id" bson:"professionalId"`
	ActorID        string `gorm:"size:64" json:"actor_id,omitempty" bson:"actorId,omitempty"`
	Action         string `gorm:"size:50;not null" json:"action" bson:"action"`

	Entity   string `gorm:"size:50" json:"entity" bson:"entity"`
	EntityID string `gorm:"size:64" json:"entity_id,omitempty" bson:"entityId,omitempty"`
	Metadata string `gorm:"type:text" json:"metadata" bson:"metadata"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}
