package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/medisetu/portal-api/internal/config"
	"github.com/medisetu/portal-api/internal/email"
	accountHandler "github.com/medisetu/portal-api/internal/handler/account"
	authHandler "github.com/medisetu/portal-api/internal/handler/auth"
	healthHandler "github.com/medisetu/portal-api/internal/handler/health"
	kycHandler "github.com/medisetu/portal-api/internal/handler/kyc"
	recordHandler "github.com/medisetu/portal-api/internal/handler/record"
	"github.com/medisetu/portal-api/internal/middleware"
	"github.com/medisetu/portal-api/internal/repository/postgres"
	"github.com/medisetu/portal-api/internal/router"
	authService "github.com/medisetu/portal-api/internal/service/auth"
	eventService "github.com/medisetu/portal-api/internal/service/event"
	recordService "github.com/medisetu/portal-api/internal/service/record"
	"github.com/medisetu/portal-api/pkg/auth"
	"github.com/medisetu/portal-api/pkg/logger"
	"github.com/medisetu/portal-api/pkg/messaging/redis"
	"github.com/medisetu/portal-api/pkg/metrics"
	"github.com/medisetu/portal-api/pkg/security"
	"github.com/medisetu/portal-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	emailSvc := email.NewSMTPService(cfg.SMTP)
	tokenSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authSvc := authService.NewService(
		doctorRepo,
		patientRepo,
		security.NewBcryptHasher(0),
		tokenSvc,
		eventSvc,
		emailSvc,
		log,
	)
	recordSvc := recordService.NewService(patientRepo, doctorRepo, log)

	m := metrics.NewMetrics("portal")

	// Handlers
	authH := authHandler.NewHandler(authSvc, m)
	accountH := accountHandler.NewHandler(authSvc)
	recordH := recordHandler.NewHandler(recordSvc)
	kycH := kycHandler.NewHandler(cfg.KYC, log, m)
	healthH := healthHandler.NewHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		accountH,
		recordH,
		kycH,
		healthH,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.RateLimit.RPS),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "portal_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Outbox drain runs only when a broker is configured; the API itself
	// never blocks on redis.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Redis.URL != "" {
		broker, err := redis.NewBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log)
		if err != nil {
			log.Fatal(err, "failed to connect to redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		}, log, m)
		go processor.Start(ctx)
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}

func newLogger(cfg config.LogConfig) *logger.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	return logger.NewLogger(&logger.Config{
		Level:  level,
		Pretty: cfg.Pretty,
	})
}
