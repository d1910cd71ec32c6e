package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/dto"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/middleware"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/availability"
)

type AvailabilityHandler struct {
	store *availability.Store
}

func NewAvailabilityHandler(store *availability.Store) *AvailabilityHandler {
	return &AvailabilityHandler{store: store}
}

// ======================================================
// ME
// ======================================================

func (h *AvailabilityHandler) GetMine(c *gin.Context) {
	h.get(c, middleware.ProfessionalID(c))
}

func (h *AvailabilityHandler) UpdateMine(c *gin.Context) {
	var req dto.SaveAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	av, err := h.store.Save(
		c.Request.Context(),
		middleware.ProfessionalID(c),
		req.Schedule,
		req.Exceptions,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, av)
}

// ======================================================
// PUBLIC
// ======================================================

func (h *AvailabilityHandler) GetPublic(c *gin.Context) {
	h.get(c, c.Param("professionalId"))
}

func (h *AvailabilityHandler) get(c *gin.Context, professionalID string) {
	av, err := h.store.Get(c.Request.Context(), professionalID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}
