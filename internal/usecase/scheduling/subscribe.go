package scheduling

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

// Subscription streams a professional's full booking list: once on open,
// then after every change. Close must be called to release the listener.
type Subscription struct {
	updates chan []models.Booking
	cancel  context.CancelFunc
	done    chan struct{}
}

func (s *Subscription) Updates() <-chan []models.Booking {
	return s.updates
}

// Close releases the change feed listener and closes Updates. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// SubscribeToBookings opens a live booking stream. Cancelling ctx has the
// same effect as Close.
func (e *Engine) SubscribeToBookings(
	ctx context.Context,
	professionalID string,
) (*Subscription, error) {

	if professionalID == "" {
		return nil, httperr.ErrValidation("invalid_professional", "Profissional inválido.")
	}

	ctx, cancel := context.WithCancel(ctx)

	watcher, err := e.bookings.Subscribe(ctx, professionalID)
	if err != nil {
		cancel()
		return nil, httperr.ErrStore("subscribe bookings", err)
	}

	sub := &Subscription{
		updates: make(chan []models.Booking, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	e.metrics.SubscriberOpened()
	go e.stream(ctx, professionalID, watcher.Changes(), sub, func() {
		if err := watcher.Close(); err != nil {
			e.log.Warn("booking watcher close failed", zap.Error(err))
		}
	})

	return sub, nil
}

func (e *Engine) stream(
	ctx context.Context,
	professionalID string,
	changes <-chan struct{},
	sub *Subscription,
	release func(),
) {
	defer close(sub.done)
	defer close(sub.updates)
	defer e.metrics.SubscriberClosed()
	defer release()

	push := func() bool {
		list, err := e.bookings.ListByProfessional(ctx, professionalID)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			e.log.Warn("booking snapshot failed",
				zap.String("professional_id", professionalID),
				zap.Error(err),
			)
			return true
		}
		if list == nil {
			list = []models.Booking{}
		}
		select {
		case sub.updates <- list:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !push() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok || !push() {
				return
			}
		}
	}
}
