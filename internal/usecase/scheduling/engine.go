package scheduling

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/metrics"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/timezone"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/validators"
)

// AvailabilitySource resolves a professional's effective template.
// *availability.Store satisfies it.
type AvailabilitySource interface {
	Get(ctx context.Context, professionalID string) (*models.ProfessionalAvailability, error)
}

// Engine computes slots and admits bookings. It keeps no mutable state of
// its own; atomicity of check-and-insert belongs to the BookingRepository.
type Engine struct {
	availability AvailabilitySource
	bookings     domain.BookingRepository

	validate *validator.Validate
	log      *zap.Logger
	metrics  *metrics.Metrics
	audit    *audit.Dispatcher

	now    func() time.Time
	loc    *time.Location
	window Window
}

// Window limits how early and how far ahead clients may book.
// The zero value applies no limit.
type Window struct {
	MinAdvance  time.Duration
	HorizonDays int
}

func (w Window) enabled() bool {
	return w.MinAdvance > 0 || w.HorizonDays > 0
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithAudit(d *audit.Dispatcher) Option {
	return func(e *Engine) { e.audit = d }
}

func WithValidator(v *validator.Validate) Option {
	return func(e *Engine) {
		if v != nil {
			_ = validators.Register(v)
			e.validate = v
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone booking windows are evaluated in. Unknown
// names fall back to the default zone.
func WithLocation(tz string) Option {
	return func(e *Engine) { e.loc = timezone.Location(tz) }
}

func WithWindow(w Window) Option {
	return func(e *Engine) { e.window = w }
}

func NewEngine(
	availability AvailabilitySource,
	bookings domain.BookingRepository,
	opts ...Option,
) *Engine {
	e := &Engine{
		availability: availability,
		bookings:     bookings,
		validate:     newValidator(),
		log:          zap.NewNop(),
		now:          time.Now,
		loc:          timezone.Location(timezone.DefaultTimezone),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Only fails on a duplicate tag name.
	_ = validators.Register(v)
	return v
}
