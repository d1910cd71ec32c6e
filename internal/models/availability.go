package models

import "time"

// TimeRange is an open interval of a working day, "HH:MM" on a 24h clock.
type TimeRange struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

type DaySchedule struct {
	DayOfWeek   int         `json:"day_of_week" bson:"dayOfWeek"`
	DayName     string      `json:"day_name" bson:"dayName"`
	IsAvailable bool        `json:"is_available" bson:"isAvailable"`
	TimeSlots   []TimeRange `json:"time_slots" bson:"timeSlots"`
}

// DateException replaces the weekly template for one calendar date
// (holidays, vacations, extra shifts).
type DateException struct {
	Date        string      `json:"date" bson:"date"`
	IsAvailable bool        `json:"is_available" bson:"isAvailable"`
	TimeSlots   []TimeRange `json:"time_slots,omitempty" bson:"timeSlots,omitempty"`
	Reason      string      `json:"reason,omitempty" bson:"reason,omitempty"`
}

type ProfessionalAvailability struct {
	ProfessionalID string `gorm:"primaryKey;size:64" json:"professional_id" bson:"_id"`

	Schedule   []DaySchedule   `gorm:"serializer:json;type:jsonb;not null" json:"schedule" bson:"schedule"`
	Exceptions []DateException `gorm:"serializer:json;type:jsonb" json:"exceptions" bson:"exceptions"`

	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

func (ProfessionalAvailability) TableName() string {
	return "professional_availability"
}
