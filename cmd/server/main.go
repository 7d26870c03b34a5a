// Command server runs the ticket inventory HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"

	"ticketinventory/config"
	"ticketinventory/internal/adapters/auth"
	"ticketinventory/internal/adapters/email"
	delivery "ticketinventory/internal/delivery/http"
	"ticketinventory/internal/delivery/http/controllers"
	"ticketinventory/internal/domain"
	"ticketinventory/internal/inventory"
	"ticketinventory/internal/observability"
	"ticketinventory/internal/repository/postgres"
	"ticketinventory/internal/services"
)

// @title Ticket Inventory API
// @version 1.0
// @description Ticket templates, registrations and the filtered ticket view.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracing, err := observability.NewTracerProvider(ctx, observability.TracingConfig{
		Enabled:      cfg.Tracing.Enabled,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		Insecure:     cfg.Tracing.Insecure,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  "ticketinventory",
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	otel.SetTracerProvider(tracing.Provider())
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", "err", err)
		}
	}()
	logger.Info("tracing configured", "enabled", tracing.Enabled())

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to postgres")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	invMetrics, err := inventory.NewMetrics("ticket_inventory", reg)
	if err != nil {
		return err
	}
	outcomeMetrics, err := services.NewOutcomeMetrics("ticket_inventory", reg)
	if err != nil {
		return err
	}

	templateRepo := postgres.NewTemplateRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)
	activityRepo := postgres.NewActivityLogRepository(db)

	inv, err := inventory.NewCache(templateRepo, inventory.Options{
		Size:            cfg.Inventory.CacheSize,
		LockStripes:     cfg.Inventory.LockStripes,
		WarmConcurrency: cfg.Inventory.WarmConcurrency,
		Metrics:         invMetrics,
	})
	if err != nil {
		return fmt.Errorf("inventory cache: %w", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		ReplyTo:     cfg.Email.ReplyTo,
		SES: email.SESConfig{
			Region:           cfg.Email.AWSRegion,
			AccessKeyID:      cfg.Email.AWSAccessKeyID,
			SecretAccessKey:  cfg.Email.AWSSecretAccessKey,
			ConfigurationSet: cfg.Email.SESConfigSet,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailSvc := services.NewEmailService(mailer, renderer, logger)

	sinks := []domain.OutcomeSink{
		outcomeMetrics,
		services.NewActivityLogger(activityRepo),
		services.NewTicketNotifier(attendeeRepo, emailSvc, logger),
	}
	registrationSvc := services.NewRegistrationService(inv, ticketRepo, logger,
		services.WithOutcomeSinks(sinks...),
		services.WithTracerProvider(tracing.Provider()),
	)
	templateSvc := services.NewTemplateService(templateRepo, inv, logger)
	ticketViewSvc := services.NewTicketViewService(ticketRepo)

	if cfg.Inventory.WarmOnStartup {
		if _, err := templateSvc.WarmTemplates(ctx); err != nil {
			logger.Warn("inventory warm-up failed, continuing with a cold cache", "err", err)
		}
	}

	router := delivery.NewRouter(delivery.RouterDeps{
		Logger:         logger,
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		Templates:      controllers.NewTemplateController(logger, templateSvc),
		Registrations:  controllers.NewRegistrationController(logger, registrationSvc),
		Tickets:        controllers.NewTicketController(logger, ticketViewSvc),
		Gatherer:       reg,
		Ping:           db.PingContext,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
