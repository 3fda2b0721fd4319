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
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/weekly-signup/internal/audit"
	"github.com/BruksfildServices01/weekly-signup/internal/cache"
	"github.com/BruksfildServices01/weekly-signup/internal/config"
	dbpkg "github.com/BruksfildServices01/weekly-signup/internal/db"
	domain "github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/idgen"
	infraRepo "github.com/BruksfildServices01/weekly-signup/internal/infra/repository"
	"github.com/BruksfildServices01/weekly-signup/internal/logging"
	"github.com/BruksfildServices01/weekly-signup/internal/metrics"
	"github.com/BruksfildServices01/weekly-signup/internal/routes"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		repo domain.Repository
		db   *gorm.DB
		sink audit.Sink
	)

	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, bookings are lost on restart")
		repo = infraRepo.NewBookingMemoryRepository()
		sink = audit.NewLogSink(logger)
	default:
		db, err = dbpkg.NewDB(cfg)
		if err != nil {
			logger.Fatal("database unavailable", zap.Error(err))
		}
		repo = infraRepo.NewBookingGormRepository(db)
		sink = audit.New(db)
	}

	// ======================================================
	// CACHE
	// ======================================================
	var weekCache cache.WeekCache = cache.NewMemory(cfg.CacheTTL)

	if cfg.CacheBackend == config.CacheRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		rc := cache.NewRedis(rdb, cfg.CacheTTL, logger)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, lookups will miss until it recovers", zap.Error(err))
		}
		cancel()
		weekCache = rc
	}

	// ======================================================
	// AUDIT
	// ======================================================
	dispatcher := audit.NewDispatcher(sink, logger)
	defer dispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Log:     logger,
		Repo:    repo,
		Cache:   weekCache,
		IDs:     idgen.UUID{},
		Auditor: dispatcher,
		Metrics: metrics.New(),
		DB:      db,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("storage", cfg.Storage),
			zap.String("cache", cfg.CacheBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
