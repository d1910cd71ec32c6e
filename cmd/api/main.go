package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/serviflex-scheduler/internal/audit"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/serviflex-scheduler/internal/db"
	domain "github.com/BruksfildServices01/serviflex-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/infra/changefeed"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/infra/mongostore"
	infraRepo "github.com/BruksfildServices01/serviflex-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/logger"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/metrics"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/middleware"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/routes"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/availability"
	"github.com/BruksfildServices01/serviflex-scheduler/internal/usecase/scheduling"
)

// stores is what a storage driver provides to the use cases.
type stores struct {
	availability domain.AvailabilityRepository
	bookings     domain.BookingRepository
	recorder     audit.Recorder
	reader       audit.Reader
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	m := metrics.New()

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	feed, closeFeed, err := newChangeFeed(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closeFeed()

	st, err := newStores(ctx, cfg, feed, zl)
	if err != nil {
		return err
	}
	defer st.close()

	dispatcher := audit.NewDispatcher(st.recorder, zl)
	defer dispatcher.Close()

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	store := availability.NewStore(
		st.availability,
		availability.WithLogger(zl),
		availability.WithAudit(dispatcher),
	)

	engine := scheduling.NewEngine(
		store,
		st.bookings,
		scheduling.WithLogger(zl),
		scheduling.WithMetrics(m),
		scheduling.WithAudit(dispatcher),
		scheduling.WithLocation(cfg.Booking.Timezone),
		scheduling.WithWindow(scheduling.Window{
			MinAdvance:  cfg.Booking.MinAdvance,
			HorizonDays: cfg.Booking.HorizonDays,
		}),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	go sweep(ctx, limiter)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		logger.GinMiddleware(zl),
		middleware.CORSMiddleware(cfg.CORSOrigins...),
		middleware.Metrics(m),
	)

	routes.RegisterRoutes(r, routes.Deps{
		Store:       store,
		Engine:      engine,
		AuditReader: st.reader,
		Metrics:     m,
		RateLimiter: limiter,
		Logger:      zl,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("store", cfg.StoreDriver),
			zap.String("changefeed", cfg.ChangeFeed),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newChangeFeed(
	ctx context.Context,
	cfg *config.Config,
	zl *zap.Logger,
) (changefeed.Broker, func(), error) {

	if cfg.ChangeFeed != config.FeedRedis {
		return changefeed.NewLocal(), func() {}, nil
	}

	client, err := dbpkg.NewRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return changefeed.NewRedis(client, zl), func() { _ = client.Close() }, nil
}

func newStores(
	ctx context.Context,
	cfg *config.Config,
	feed changefeed.Broker,
	zl *zap.Logger,
) (*stores, error) {

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		recorder := audit.NewGormRecorder(db)
		return &stores{
			availability: infraRepo.NewAvailabilityGormRepository(db, cfg.QueryTimeout),
			bookings:     infraRepo.NewBookingGormRepository(db, feed, zl, cfg.QueryTimeout),
			recorder:     recorder,
			reader:       recorder,
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.DriverMongo:
		client, err := dbpkg.NewMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		mdb := client.Database(cfg.Mongo.Database)
		if err := mongostore.EnsureIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		// Mongo pushes changes through its own change stream; the
		// configured feed is not needed.
		recorder := mongostore.NewAuditRecorder(mdb)
		return &stores{
			availability: mongostore.NewAvailabilityRepository(mdb, cfg.QueryTimeout),
			bookings:     mongostore.NewBookingRepository(mdb, zl, cfg.QueryTimeout),
			recorder:     recorder,
			reader:       recorder,
			close:        func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		zl.Warn("using in-memory store; data is lost on restart")
		return &stores{
			availability: memory.NewAvailabilityRepository(),
			bookings:     memory.NewBookingRepository(feed, zl),
			recorder:     audit.NewZapRecorder(zl),
			close:        func() {},
		}, nil
	}
}

func sweep(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep(10 * time.Minute)
		}
	}
}
