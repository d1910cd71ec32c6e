package models

import "time"

type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id" bson:"_id"`

	ProfessionalID string `gorm:"size:64;not null;index:idx_booking_prof_date,priority:1;uniqueIndex:idx_booking_idem,priority:1" json:"professional_id" bson:"professionalId"`
	ClientID       string `gorm:"size:64;not null" json:"client_id" bson:"clientId"`
	ClientName     string `gorm:"size:100;not null" json:"client_name" bson:"clientName"`
	ClientPhone    string `gorm:"size:20;not null" json:"client_phone" bson:"clientPhone"`
	ServiceType    string `gorm:"size:100;not null" json:"service_type" bson:"serviceType"`

	Date      string `gorm:"size:10;not null;index:idx_booking_prof_date,priority:2" json:"date" bson:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time" bson:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"end_time" bson:"endTime"`
	Duration  int    `gorm:"not null" json:"duration" bson:"duration"`

	// minutes since midnight, kept for range queries and the exclusion constraint
	StartMinute int `gorm:"not null" json:"-" bson:"startMinute"`
	EndMinute   int `gorm:"not null" json:"-" bson:"endMinute"`

	Status string  `gorm:"size:20;not null;default:'pending'" json:"status" bson:"status"`
	Price  float64 `json:"price" bson:"price"`
	Notes  string  `gorm:"size:500" json:"notes,omitempty" bson:"notes,omitempty"`

	PaymentID     string `gorm:"size:100" json:"payment_id,omitempty" bson:"paymentId,omitempty"`
	PaymentStatus string `gorm:"size:20" json:"payment_status,omitempty" bson:"paymentStatus,omitempty"`

	IdempotencyKey *string `gorm:"size:100;uniqueIndex:idx_booking_idem,priority:2" json:"-" bson:"idempotencyKey,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}
