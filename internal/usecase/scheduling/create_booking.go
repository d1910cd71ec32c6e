package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BookingDraft struct {
	ProfessionalID string `validate:"required,max=64"`
	ClientID       string `validate:"required,max=64"`
	ClientName     string `validate:"required,max=100"`
	ClientPhone    string `validate:"required,max=20,phone"`
	ServiceType    string `validate:"required,max=100"`

	Date      string `validate:"required"`
	StartTime string `validate:"required"`
	EndTime   string `validate:"required"`

	// Duration is optional; when set it must match EndTime - StartTime.
	Duration int     `validate:"gte=0"`
	Price    float64 `validate:"gte=0"`
	Notes    string  `validate:"max=500"`

	PaymentID     string `validate:"max=100"`
	PaymentStatus string `validate:"omitempty,oneof=pending held_in_escrow released refunded"`

	// IdempotencyKey makes retries of the same request return the first booking.
	IdempotencyKey string `validate:"max=100"`
}

// ======================================================
// EXECUTE
// ======================================================

// CreateBooking admits a booking in pending status and returns its id.
// Availability is re-checked by the store in the same atomic unit as the
// insert, so two concurrent requests for overlapping times cannot both win.
func (e *Engine) CreateBooking(ctx context.Context, draft BookingDraft) (string, error) {
	defer e.metrics.Since("create_booking", time.Now())

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	if err := e.validate.Struct(draft); err != nil {
		e.metrics.BookingOutcome("invalid")
		return "", draftError(err)
	}

	d, req, err := parseRequest(draft.Date, draft.StartTime, draft.EndTime)
	if err != nil {
		e.metrics.BookingOutcome("invalid")
		return "", err
	}
	if draft.Duration != 0 && draft.Duration != req.Minutes() {
		e.metrics.BookingOutcome("invalid")
		return "", httperr.ErrValidation("invalid_duration", "A duração não corresponde ao horário escolhido.")
	}

	// --------------------------------------------------
	// Window + template
	// --------------------------------------------------
	if reason := e.windowReason(d, req.Start); reason != "" {
		return "", e.reject(draft, reason)
	}

	day, err := e.resolveDay(ctx, draft.ProfessionalID, draft.Date)
	if err != nil {
		return "", err
	}
	if reason := domain.CheckTemplate(day, req); reason != "" {
		return "", e.reject(draft, reason)
	}

	// --------------------------------------------------
	// Atomic conflict check + insert
	// --------------------------------------------------
	now := e.now().UTC()
	b := &models.Booking{
		ID:             uuid.NewString(),
		ProfessionalID: draft.ProfessionalID,
		ClientID:       draft.ClientID,
		ClientName:     draft.ClientName,
		ClientPhone:    draft.ClientPhone,
		ServiceType:    draft.ServiceType,
		Date:           draft.Date,
		StartTime:      domain.FormatClock(req.Start),
		EndTime:        domain.FormatClock(req.End),
		Duration:       req.Minutes(),
		StartMinute:    req.Start,
		EndMinute:      req.End,
		Status:         string(domain.InitialStatus()),
		Price:          draft.Price,
		Notes:          draft.Notes,
		PaymentID:      draft.PaymentID,
		PaymentStatus:  draft.PaymentStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if draft.IdempotencyKey != "" {
		key := draft.IdempotencyKey
		b.IdempotencyKey = &key
	}

	guard := func(blocking []models.Booking) error {
		if domain.Conflicts(req, e.toIntervals(blocking)) {
			return httperr.ErrValidation(domain.ReasonTimeConflict, domain.SlotUnavailableMessage)
		}
		return nil
	}

	stored, err := e.bookings.Insert(ctx, b, guard)
	if err != nil {
		if code := httperr.ValidationCode(err); code != "" {
			e.logRejection(draft, code)
			e.metrics.BookingOutcome(code)
			return "", err
		}
		e.metrics.BookingOutcome("store_error")
		e.log.Error("booking insert failed",
			zap.String("professional_id", draft.ProfessionalID),
			zap.String("date", draft.Date),
			zap.Error(err),
		)
		return "", httperr.ErrStore("insert booking", err)
	}

	if stored.ID != b.ID {
		e.metrics.BookingOutcome("replayed")
		e.log.Info("booking replayed by idempotency key",
			zap.String("booking_id", stored.ID),
			zap.String("professional_id", stored.ProfessionalID),
		)
		return stored.ID, nil
	}

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	e.metrics.BookingOutcome("created")
	e.audit.Dispatch(audit.Event{
		ProfessionalID: stored.ProfessionalID,
		ActorID:        stored.ClientID,
		Action:         "booking_created",
		Entity:         "booking",
		EntityID:       stored.ID,
		Metadata: map[string]string{
			"date":       stored.Date,
			"start_time": stored.StartTime,
			"end_time":   stored.EndTime,
		},
	})

	e.log.Info("booking created",
		zap.String("booking_id", stored.ID),
		zap.String("professional_id", stored.ProfessionalID),
		zap.String("date", stored.Date),
		zap.String("start_time", stored.StartTime),
	)

	return stored.ID, nil
}

func (e *Engine) reject(draft BookingDraft, reason string) error {
	e.logRejection(draft, reason)
	e.metrics.BookingOutcome(reason)
	return httperr.ErrValidation(reason, domain.SlotUnavailableMessage)
}

func (e *Engine) logRejection(draft BookingDraft, reason string) {
	e.log.Info("booking rejected",
		zap.String("professional_id", draft.ProfessionalID),
		zap.String("date", draft.Date),
		zap.String("start_time", draft.StartTime),
		zap.String("end_time", draft.EndTime),
		zap.String("reason", reason),
	)
}

func draftError(err error) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		if f.Tag() == "required" {
			return httperr.ErrValidation("missing_field", "Campo obrigatório: "+f.Field()+".")
		}
		return httperr.ErrValidation("invalid_field", "Campo inválido: "+f.Field()+".")
	}
	return httperr.ErrValidation("invalid_booking", "Dados do agendamento inválidos.")
}
