package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fieldserve/fieldservice-system/internal/api"
	"github.com/fieldserve/fieldservice-system/internal/core/service"
	"github.com/fieldserve/fieldservice-system/internal/infrastructure/config"
	mongodb "github.com/fieldserve/fieldservice-system/internal/infrastructure/db/mongo"
	redisdb "github.com/fieldserve/fieldservice-system/internal/infrastructure/db/redis"
	"github.com/fieldserve/fieldservice-system/internal/infrastructure/queue"
	"github.com/fieldserve/fieldservice-system/internal/infrastructure/sched"
	"github.com/fieldserve/fieldservice-system/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureAllIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)
	jobRepo := mongodb.NewJobRepository(db)
	occRepo := mongodb.NewOccurrenceRepository(db)
	invoiceRepo := mongodb.NewInvoiceRepository(db)
	settingsRepo := mongodb.NewSettingsRepository(db)

	// --- Services ---
	permCache := redisdb.NewPermissionCache(rdb)
	permService := service.NewPermissionService(userRepo, permCache, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	settingsService := service.NewSettingsService(settingsRepo, log)
	customerService := service.NewCustomerService(customerRepo, log)
	scheduleService := service.NewScheduleService(jobRepo, occRepo, cfg.HorizonDays, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, settingsService, log)

	// --- Background workers ---
	dispatcher := queue.NewDispatcher(cfg.RegenWorkers, scheduleService, log)
	dispatcher.Start(ctx)

	jobService := service.NewJobService(jobRepo, occRepo, customerRepo, settingsService, dispatcher, log)

	horizon, err := sched.NewHorizonCron(cfg.HorizonCron, scheduleService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("horizon cron setup failed")
	}
	horizon.Start()
	defer horizon.Stop()

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		DB:        db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Auth:      authService,
		Perms:     permService,
		Customers: customerService,
		Jobs:      jobService,
		Invoices:  invoiceService,
		Schedule:  scheduleService,
		Settings:  settingsService,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("field service API started")

	// --- Shutdown on SIGINT/SIGTERM ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	cancel() // stops dispatcher workers

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
