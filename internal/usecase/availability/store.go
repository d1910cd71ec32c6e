package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// Store reads and replaces professionals' weekly templates.
type Store struct {
	repo  domain.AvailabilityRepository
	log   *zap.Logger
	audit *audit.Dispatcher
	now   func() time.Time
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithAudit(d *audit.Dispatcher) Option {
	return func(s *Store) { s.audit = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(repo domain.AvailabilityRepository, opts ...Option) *Store {
	s := &Store{
		repo: repo,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ======================================================
// GET
// ======================================================

// Get returns the stored template, or the default one when the professional
// never saved any. Store failures are returned, not masked by the default.
func (s *Store) Get(
	ctx context.Context,
	professionalID string,
) (*models.ProfessionalAvailability, error) {

	if professionalID == "" {
		return nil, httperr.ErrValidation("invalid_professional", "Profissional inválido.")
	}

	av, err := s.repo.Get(ctx, professionalID)
	if httperr.IsNotFound(err) {
		return domain.DefaultAvailability(professionalID), nil
	}
	if err != nil {
		s.log.Error("availability get failed",
			zap.String("professional_id", professionalID),
			zap.Error(err),
		)
		return nil, httperr.ErrStore("get availability", err)
	}

	if av.Exceptions == nil {
		av.Exceptions = []models.DateException{}
	}
	return av, nil
}

// ======================================================
// SAVE
// ======================================================

// Save validates and fully replaces the professional's template.
func (s *Store) Save(
	ctx context.Context,
	professionalID string,
	schedule []models.DaySchedule,
	exceptions []models.DateException,
) (*models.ProfessionalAvailability, error) {

	if professionalID == "" {
		return nil, httperr.ErrValidation("invalid_professional", "Profissional inválido.")
	}

	normalized, err := domain.NormalizeSchedule(schedule)
	if err != nil {
		return nil, err
	}

	exc, err := domain.NormalizeExceptions(exceptions)
	if err != nil {
		return nil, err
	}

	av := &models.ProfessionalAvailability{
		ProfessionalID: professionalID,
		Schedule:       normalized,
		Exceptions:     exc,
		UpdatedAt:      s.now().UTC(),
	}

	if err := s.repo.Put(ctx, av); err != nil {
		s.log.Error("availability save failed",
			zap.String("professional_id", professionalID),
			zap.Error(err),
		)
		return nil, httperr.ErrStore("save availability", err)
	}

	s.audit.Dispatch(audit.Event{
		ProfessionalID: professionalID,
		ActorID:        professionalID,
		Action:         "availability_saved",
		Entity:         "availability",
		EntityID:       professionalID,
		Metadata:       map[string]int{"exceptions": len(exc)},
	})

	return av, nil
}
