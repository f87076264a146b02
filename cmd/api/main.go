package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/furwell/clinic-api/internal/config"
	"github.com/furwell/clinic-api/internal/email"
	"github.com/furwell/clinic-api/internal/handler"
	contactHandler "github.com/furwell/clinic-api/internal/handler/contact"
	petHandler "github.com/furwell/clinic-api/internal/handler/pet"
	reportHandler "github.com/furwell/clinic-api/internal/handler/report"
	reservationHandler "github.com/furwell/clinic-api/internal/handler/reservation"
	"github.com/furwell/clinic-api/internal/repository/postgres"
	"github.com/furwell/clinic-api/internal/router"
	eventService "github.com/furwell/clinic-api/internal/service/event"
	petService "github.com/furwell/clinic-api/internal/service/pet"
	reportService "github.com/furwell/clinic-api/internal/service/report"
	reservationService "github.com/furwell/clinic-api/internal/service/reservation"
	"github.com/furwell/clinic-api/internal/worker"
	"github.com/furwell/clinic-api/pkg/logger"
	"github.com/furwell/clinic-api/pkg/messaging/redis"
	"github.com/furwell/clinic-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.New("clinic_api")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	reservationRepo := postgres.NewReservationRepository(db)
	petRepo := postgres.NewPetRepository(db)
	adminPetRepo := postgres.NewAdminPetRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	reservationSvc := reservationService.NewService(reservationRepo, petRepo, eventSvc, appLogger)
	petSvc := petService.NewService(petRepo, adminPetRepo, reservationRepo)
	reportSvc := reportService.NewService(reservationRepo, adminPetRepo)

	var emailSvc email.Service = email.NoopService{}
	if cfg.Email.Enabled {
		emailSvc = email.NewService(cfg.Email)
	}

	// Handlers
	h := handler.NewHandler()
	reservationH := reservationHandler.NewHandler(reservationSvc)
	petH := petHandler.NewHandler(petSvc)
	reportH := reportHandler.NewHandler(reportSvc, reservationSvc)
	contactH := contactHandler.NewHandler(emailSvc)

	r := router.NewRouter(cfg, m, h, reservationH, petH, reportH, contactH)
	r.Setup()

	// Outbox events are published from here as well as from the worker;
	// each poller claims its batch atomically (PENDING -> PROCESSING),
	// so the two never double-publish.
	broker, err := redis.NewBroker(redis.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.ZL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		ClaimTimeout:  cfg.Outbox.ClaimTimeout,
	}, appLogger, m)
	go outboxProcessor.Start(processorCtx)

	// Midnight sweeper for stale pending reservations
	sweeper := worker.NewSweeper(reservationRepo, eventSvc, appLogger, m)
	if cfg.Sweeper.Enabled {
		if err := sweeper.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start sweeper")
		}
		defer func() {
			if err := sweeper.Stop(); err != nil {
				log.Error().Err(err).Msg("failed to stop sweeper")
			}
		}()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
