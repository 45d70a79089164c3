package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/application/usecase"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
	"github.com/iprofitlabs/lending-service/internal/domain/service"
	"github.com/iprofitlabs/lending-service/internal/infrastructure/adapter"
	"github.com/iprofitlabs/lending-service/internal/infrastructure/config"
	"github.com/iprofitlabs/lending-service/internal/infrastructure/kafka"
	pgRepo "github.com/iprofitlabs/lending-service/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/iprofitlabs/lending-service/internal/presentation/grpc"
	"github.com/iprofitlabs/lending-service/internal/presentation/rest"
	"github.com/iprofitlabs/lending-service/pkg/auth"
	pkgkafka "github.com/iprofitlabs/lending-service/pkg/kafka"
	"github.com/iprofitlabs/lending-service/pkg/observability"
	pkgpostgres "github.com/iprofitlabs/lending-service/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: "json",
	})
	slog.SetDefault(logger)

	logger.Info("starting lending-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Warn("failed to initialize metrics, continuing without metrics", "error", err)
	} else {
		defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort shutdown
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), "file://migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	loanRepo := pgRepo.NewLoanRepo(pool)
	ledger := pgRepo.NewLedgerRepo(pool)
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewEventPublisher(kafkaProducer, cfg.Kafka.EventTopic, logger)
	auditor := kafka.NewAuditAppender(kafkaProducer, cfg.Kafka.AuditTopic)

	kycClient := adapter.NewKYCAdapter(adapter.DefaultKYCConfig(), nil)
	directory := adapter.NewStubApplicantDirectory()

	var notifier port.Notifier
	switch cfg.NotifierDriver {
	case "smtp":
		notifier = adapter.NewSMTPNotifier(
			cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
			directory,
		)
	case "kafka":
		notifier = kafka.NewNotifier(kafkaProducer, cfg.Kafka.NotificationTopic)
	default:
		notifier = adapter.NewLogNotifier(logger)
	}
	logger.Info("notifier configured", "driver", cfg.NotifierDriver)

	// Domain services.
	scorer := service.NewWeightedScorer()
	evaluator := service.NewEligibilityEvaluator(service.EligibilityConfig{
		MinCreditScore: cfg.Lending.MinCreditScore,
		MaxDTIPercent:  decimal.NewFromInt(int64(cfg.Lending.MaxDTIPercent)),
	})
	allocator := service.NewPaymentAllocator()

	// Wire use cases.
	applyUC := usecase.NewApplyForLoanUseCase(loanRepo, ledger, publisher, kycClient, directory, scorer, evaluator, notifier, auditor, logger)
	reviewUC := usecase.NewReviewLoanUseCase(loanRepo, ledger, publisher, notifier, auditor, logger)
	disburseUC := usecase.NewDisburseLoanUseCase(loanRepo, ledger, publisher, notifier, auditor, logger)
	paymentUC := usecase.NewMakePaymentUseCase(loanRepo, ledger, allocator, publisher, notifier, auditor, logger)
	markDefaultUC := usecase.NewMarkDefaultUseCase(loanRepo, ledger, publisher, notifier, auditor, logger)
	assessPenaltyUC := usecase.NewAssessPenaltyUseCase(loanRepo, ledger, auditor, logger)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo)

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtCfg := auth.JWTConfig{
		Issuer: cfg.Auth.Issuer,
	}
	switch {
	case os.Getenv("JWT_PUBLIC_KEY") != "":
		jwtCfg.PublicKeyPEM = os.Getenv("JWT_PUBLIC_KEY")
	case os.Getenv("JWT_PUBLIC_KEY_FILE") != "":
		keyData, loadErr := auth.LoadKeyFromFile(os.Getenv("JWT_PUBLIC_KEY_FILE"))
		if loadErr != nil {
			logger.Error("failed to load JWT public key file", "error", loadErr)
			os.Exit(1)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Auth.JWTSecret
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	handler := grpcPresentation.NewLendingHandler(
		applyUC, reviewUC, disburseUC, paymentUC, markDefaultUC, assessPenaltyUC, getLoanUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtSvc)

	// HTTP server (REST API, health checks, metrics).
	router := mux.NewRouter()
	rest.NewHealthHandler(pool, logger).RegisterRoutes(router)
	rest.NewLoanHandler(applyUC, paymentUC, getLoanUC, jwtSvc, logger).RegisterRoutes(router)
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("lending-service stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
