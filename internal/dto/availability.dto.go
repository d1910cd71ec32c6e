package dto

import (
	"github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

type SaveAvailabilityRequest struct {
	Schedule   []models.DaySchedule   `json:"schedule" binding:"required"`
	Exceptions []models.DateException `json:"exceptions"`
}

type SlotsResponse struct {
	Date     string                     `json:"date"`
	Duration int                        `json:"duration"`
	Slots    []scheduling.AvailableSlot `json:"slots"`
}

type CheckResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
