package changefeed

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/httperr"
)

const channelPrefix = "serviflex:bookings:"

// Redis fans signals out through redis pub/sub so every API replica sees
// writes made by the others.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(client *redis.Client, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, log: log}
}

func Channel(professionalID string) string {
	return channelPrefix + professionalID
}

func (r *Redis) Publish(ctx context.Context, professionalID string) error {
	if err := r.client.Publish(ctx, Channel(professionalID), "changed").Err(); err != nil {
		return httperr.ErrStore("publish booking change", err)
	}
	return nil
}

func (r *Redis) Subscribe(ctx context.Context, professionalID string) (domain.Watcher, error) {
	ps := r.client.Subscribe(ctx, Channel(professionalID))

	// wait for the subscription confirmation so no publish is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, httperr.ErrStore("subscribe booking changes", err)
	}

	w := &redisWatcher{
		ps: ps,
		ch: make(chan struct{}, 1),
	}
	go w.pump()

	r.log.Debug("redis changefeed subscribed", zap.String("professional_id", professionalID))
	return w, nil
}

type redisWatcher struct {
	ps   *redis.PubSub
	ch   chan struct{}
	once sync.Once
}

func (w *redisWatcher) pump() {
	defer close(w.ch)
	for range w.ps.Channel() {
		notify(w.ch)
	}
}

func (w *redisWatcher) Changes() <-chan struct{} {
	return w.ch
}

func (w *redisWatcher) Close() error {
	var err error
	w.once.Do(func() { err = w.ps.Close() })
	return err
}
