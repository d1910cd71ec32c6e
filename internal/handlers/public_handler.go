package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/dto"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/scheduling"
)

const defaultSlotDuration = 60

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	engine *scheduling.Engine
}

func NewPublicHandler(engine *scheduling.Engine) *PublicHandler {
	return &PublicHandler{engine: engine}
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	professionalID := c.Param("professionalId")
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data.")
		return
	}

	duration := defaultSlotDuration
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
			return
		}
		duration = d
	}

	slots, err := h.engine.GetAvailableSlots(
		c.Request.Context(),
		professionalID,
		date,
		duration,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SlotsResponse{
		Date:     date,
		Duration: duration,
		Slots:    slots,
	})
}

////////////////////////////////////////////////////////
// CHECK
////////////////////////////////////////////////////////

func (h *PublicHandler) Check(c *gin.Context) {
	reason, err := h.engine.Reason(
		c.Request.Context(),
		c.Param("professionalId"),
		c.Query("date"),
		c.Query("start_time"),
		c.Query("end_time"),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckResponse{
		Available: reason == "",
		Reason:    reason,
	})
}

////////////////////////////////////////////////////////
// CREATE BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	id, err := h.engine.CreateBooking(c.Request.Context(), scheduling.BookingDraft{
		ProfessionalID: c.Param("professionalId"),
		ClientID:       req.ClientID,
		ClientName:     strings.TrimSpace(req.ClientName),
		ClientPhone:    strings.TrimSpace(req.ClientPhone),
		ServiceType:    req.ServiceType,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Duration:       req.Duration,
		Price:          req.Price,
		Notes:          req.Notes,
		PaymentID:      req.PaymentID,
		PaymentStatus:  req.PaymentStatus,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.BookingCreatedResponse{
		ID:     id,
		Status: string(domain.InitialStatus()),
	})
}
