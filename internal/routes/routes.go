package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/handlers"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/metrics"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/middleware"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/availability"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/scheduling"
)

// Deps carries the singletons the routes are built from.
type Deps struct {
	Store       *availability.Store
	Engine      *scheduling.Engine
	AuditReader audit.Reader // optional
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter // optional
	Logger      *zap.Logger
	JWTSecret   string
	CORSOrigins []string
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(deps.Store)
	publicHandler := handlers.NewPublicHandler(deps.Engine)
	bookingHandler := handlers.NewBookingHandler(deps.Engine, deps.Logger, deps.CORSOrigins...)
	meHandler := handlers.NewMeHandler(deps.Store, deps.Engine)

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/professionals/:professionalId")
		if deps.RateLimiter != nil {
			publicAPI.Use(deps.RateLimiter.Middleware())
		}
		{
			publicAPI.GET("/availability", availabilityHandler.GetPublic)
			publicAPI.GET("/slots", publicHandler.Slots)
			publicAPI.GET("/check", publicHandler.Check)
			publicAPI.POST("/bookings", publicHandler.CreateBooking)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(deps.JWTSecret))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/availability", availabilityHandler.GetMine)
			secured.PUT("/availability", availabilityHandler.UpdateMine)

			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/stream", bookingHandler.Stream)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)

			if deps.AuditReader != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditReader, deps.Logger)
				secured.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
