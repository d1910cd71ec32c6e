package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/dto"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/middleware"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/scheduling"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	engine   *scheduling.Engine
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewBookingHandler accepts websocket upgrades from the given origins, or
// from any origin when none is given.
func NewBookingHandler(engine *scheduling.Engine, log *zap.Logger, origins ...string) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{
		engine: engine,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(origins, origin)
			},
		},
	}
}

// ======================================================
// LIST / GET
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	list, err := h.engine.GetProfessionalBookings(
		c.Request.Context(),
		middleware.ProfessionalID(c),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	date := c.Query("date")
	status := c.Query("status")
	if date != "" || status != "" {
		filtered := make([]models.Booking, 0, len(list))
		for _, b := range list {
			if date != "" && b.Date != date {
				continue
			}
			if status != "" && b.Status != status {
				continue
			}
			filtered = append(filtered, b)
		}
		list = filtered
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, ok := h.owned(c)
	if !ok {
		return
	}
	httpresp.OK(c, b)
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if _, ok := h.owned(c); !ok {
		return
	}

	updated, err := h.engine.UpdateBookingStatus(
		c.Request.Context(),
		c.Param("id"),
		req.Status,
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, updated)
}

// owned loads the booking in the path and hides other professionals'
// bookings behind a 404.
func (h *BookingHandler) owned(c *gin.Context) (*models.Booking, bool) {
	b, err := h.engine.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return nil, false
	}
	if b.ProfessionalID != middleware.ProfessionalID(c) {
		httperr.NotFound(c, "booking_not_found", "Registro não encontrado.")
		return nil, false
	}
	return b, true
}

// ======================================================
// STREAM
// ======================================================

// Stream upgrades to a websocket and pushes the full booking list on open
// and after every change.
func (h *BookingHandler) Stream(c *gin.Context) {
	professionalID := middleware.ProfessionalID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub, err := h.engine.SubscribeToBookings(c.Request.Context(), professionalID)
	if err != nil {
		h.log.Error("booking subscription failed",
			zap.String("professional_id", professionalID),
			zap.Error(err),
		)
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe_failed"),
			time.Now().Add(streamWriteWait),
		)
		return
	}
	defer sub.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	// Client messages are ignored; a read error means the peer left.
	go func() {
		defer sub.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case list, ok := <-sub.Updates():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(httpresp.ListResponse[models.Booking]{
				Data:  list,
				Total: len(list),
			}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
