package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	reader audit.Reader
	log    *zap.Logger
}

func NewAuditLogsHandler(reader audit.Reader, log *zap.Logger) *AuditLogsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogsHandler{reader: reader, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	professionalID := middleware.ProfessionalID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if raw := c.Query("from"); raw != "" {
		if from, err := time.Parse("2006-01-02", raw); err == nil {
			f.From = from
		}
	}

	if raw := c.Query("to"); raw != "" {
		if to, err := time.Parse("2006-01-02", raw); err == nil {
			f.To = to.Add(24 * time.Hour)
		}
	}

	logs, total, err := h.reader.List(c.Request.Context(), professionalID, f)
	if err != nil {
		h.log.Error("audit list failed",
			zap.String("professional_id", professionalID),
			zap.Error(err),
		)
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
