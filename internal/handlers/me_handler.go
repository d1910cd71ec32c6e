package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/middleware"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/availability"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/scheduling"
)

type MeHandler struct {
	store  *availability.Store
	engine *scheduling.Engine
}

func NewMeHandler(store *availability.Store, engine *scheduling.Engine) *MeHandler {
	return &MeHandler{store: store, engine: engine}
}

// GetMe summarizes the authenticated professional's agenda.
func (h *MeHandler) GetMe(c *gin.Context) {
	professionalID := middleware.ProfessionalID(c)
	ctx := c.Request.Context()

	av, err := h.store.Get(ctx, professionalID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	bookings, err := h.engine.GetProfessionalBookings(ctx, professionalID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	byStatus := map[string]int{
		"pending":   0,
		"confirmed": 0,
		"completed": 0,
		"cancelled": 0,
	}
	for _, b := range bookings {
		byStatus[b.Status]++
	}

	var updatedAt any
	if !av.UpdatedAt.IsZero() {
		updatedAt = av.UpdatedAt
	}

	c.JSON(http.StatusOK, gin.H{
		"professional_id": professionalID,
		"availability": gin.H{
			"configured": updatedAt != nil,
			"updated_at": updatedAt,
			"exceptions": len(av.Exceptions),
		},
		"bookings": gin.H{
			"total":     len(bookings),
			"by_status": byStatus,
		},
	})
}
