// Package changefeed carries "bookings changed" signals from writers to
// subscribers, per professional.
package changefeed

import (
	"context"
	"sync"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
)

type Broker interface {
	Publish(ctx context.Context, professionalID string) error
	Subscribe(ctx context.Context, professionalID string) (domain.Watcher, error)
}

// ======================================================
// LOCAL (in-process)
// ======================================================

type Local struct {
	mu   sync.Mutex
	subs map[string]map[*localWatcher]struct{}
}

func NewLocal() *Local {
	return &Local{subs: make(map[string]map[*localWatcher]struct{})}
}

func (l *Local) Publish(_ context.Context, professionalID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for w := range l.subs[professionalID] {
		notify(w.ch)
	}
	return nil
}

func (l *Local) Subscribe(_ context.Context, professionalID string) (domain.Watcher, error) {
	w := &localWatcher{
		parent: l,
		key:    professionalID,
		ch:     make(chan struct{}, 1),
	}

	l.mu.Lock()
	if l.subs[professionalID] == nil {
		l.subs[professionalID] = make(map[*localWatcher]struct{})
	}
	l.subs[professionalID][w] = struct{}{}
	l.mu.Unlock()

	return w, nil
}

// Subscribers reports how many watchers are attached to a professional.
func (l *Local) Subscribers(professionalID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs[professionalID])
}

type localWatcher struct {
	parent *Local
	key    string
	ch     chan struct{}
	once   sync.Once
}

func (w *localWatcher) Changes() <-chan struct{} {
	return w.ch
}

func (w *localWatcher) Close() error {
	w.once.Do(func() {
		w.parent.mu.Lock()
		delete(w.parent.subs[w.key], w)
		if len(w.parent.subs[w.key]) == 0 {
			delete(w.parent.subs, w.key)
		}
		close(w.ch)
		w.parent.mu.Unlock()
	})
	return nil
}

// notify coalesces: a pending signal already tells the reader to re-read.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
