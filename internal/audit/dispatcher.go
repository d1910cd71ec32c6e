package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/models"
)

type Event struct {
	ProfessionalID string
	ActorID        string
	Action         string
	Entity         string
	EntityID       string
	Metadata       any
}

// Recorder persists one audit entry.
type Recorder interface {
	Record(ctx context.Context, entry models.AuditLog) error
}

type Dispatcher struct {
	recorder Recorder
	log      *zap.Logger
	queue    chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(recorder Recorder, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dispatcher{
		recorder: recorder,
		log:      log,
		queue:    make(chan Event, 100),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := d.recorder.Record(ctx, toEntry(ev))
		cancel()

		if err != nil {
			d.log.Warn("audit record failed",
				zap.String("action", ev.Action),
				zap.String("entity_id", ev.EntityID),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks the caller. When the queue is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() { close(d.queue) })
	<-d.done
}

func toEntry(ev Event) models.AuditLog {
	var meta string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = string(b)
		}
	}

	return models.AuditLog{
		ProfessionalID: ev.ProfessionalID,
		ActorID:        ev.ActorID,
		Action:         ev.Action,
		Entity:         ev.Entity,
		EntityID:       ev.EntityID,
		Metadata:       meta,
		CreatedAt:      time.Now().UTC(),
	}
}
