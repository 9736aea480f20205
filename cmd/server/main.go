package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/linguaflash/internal/api"
	"github.com/vytor/linguaflash/internal/catalog"
	"github.com/vytor/linguaflash/internal/config"
	"github.com/vytor/linguaflash/internal/db"
	"github.com/vytor/linguaflash/internal/jobs"
	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/metrics"
	"github.com/vytor/linguaflash/internal/persistence"
	"github.com/vytor/linguaflash/internal/repository"
	redisrepo "github.com/vytor/linguaflash/internal/repository/redis"
	"github.com/vytor/linguaflash/internal/repository/sqlite"
	"github.com/vytor/linguaflash/internal/services"
	"github.com/vytor/linguaflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	log.Info("===========================================")
	log.Info("LinguaFlash Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("store_backend=%s", cfg.StoreBackend)
	log.Debug("catalog_path=%s", cfg.CatalogPath)
	log.Debug("enforce_unlock=%t", cfg.EnforceUnlock)
	log.Debug("timezone=%s", loc)
	log.Debug("decay_worker_count=%d", cfg.DecayWorkerCount)
	log.Debug("decay_queue_size=%d", cfg.DecayQueueSize)
	log.Debug("streak_sweep_interval=%v", cfg.StreakSweepInterval)
	log.Debug("tracker_cache_size=%d", cfg.TrackerCacheSize)
	log.Debug("trust_user_header=%t", cfg.TrustUserHeader)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error("failed to load catalog: %v", err)
		os.Exit(1)
	}
	log.Info("catalog loaded: %d units", len(cat.Units()))

	// SQLite always holds onboarding state, and progress unless Redis is selected.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	checks := map[string]api.Pinger{"sqlite": database}
	var progressRepo repository.ProgressRepository = sqlite.NewProgressRepository(database.DB)
	if cfg.StoreBackend == config.BackendRedis {
		rdb, err := redisrepo.Open(context.Background(), cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Error("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		defer rdb.Close()
		progressRepo = redisrepo.NewProgressRepository(rdb)
		checks["redis"] = redisrepo.Pinger{Client: rdb}
		log.Info("progress stored in redis at %s", cfg.RedisAddr)
	}

	m := metrics.New()
	store := persistence.NewAdapter(progressRepo, m)

	tracker := services.NewTracker(cat, store,
		services.WithLocation(loc),
		services.WithUnlockEnforcement(cfg.EnforceUnlock),
		services.WithMetrics(m),
		services.WithCacheSize(cfg.TrackerCacheSize),
	)

	decayPool := worker.NewPool(cfg.DecayWorkerCount, cfg.DecayQueueSize)
	queue := jobs.NewWorkerQueue(decayPool, tracker)
	scheduler := jobs.NewScheduler(store, queue, cfg.StreakSweepInterval)

	srv := &api.Server{
		Tracker:           tracker,
		CatalogService:    services.NewCatalogService(cat),
		OnboardingService: services.NewOnboardingService(sqlite.NewOnboardingRepository(database.DB)),
		Sweeper:           scheduler,
		Metrics:           m,
		Checks:            checks,
		TrustUserHeader:   cfg.TrustUserHeader,
		AdminToken:        cfg.AdminToken,
	}
	if cfg.AdminToken == "" {
		log.Info("admin routes disabled: ADMIN_TOKEN not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	decayPool.Start(ctx)
	go scheduler.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping scheduler and decay pool")
	cancel()
	decayPool.Stop()

	log.Info("===========================================")
	log.Info("LinguaFlash Server Stopped")
	log.Info("===========================================")
}
