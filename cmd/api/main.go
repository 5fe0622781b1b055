package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	consentsHttp "optin-webhook-service/internal/consents/adapters/http/fiber"
	consentsRepoPg "optin-webhook-service/internal/consents/adapters/postgres"
	consentsPorts "optin-webhook-service/internal/consents/core/ports"
	consentsUsecase "optin-webhook-service/internal/consents/core/usecase"

	"optin-webhook-service/internal/config"
	optinHeroku "optin-webhook-service/internal/optin/adapters/heroku"
	optinHttp "optin-webhook-service/internal/optin/adapters/http/fiber"
	optinMemory "optin-webhook-service/internal/optin/adapters/memory"
	optinRepoPg "optin-webhook-service/internal/optin/adapters/postgres"
	optinPorts "optin-webhook-service/internal/optin/core/ports"
	optinUsecase "optin-webhook-service/internal/optin/core/usecase"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "optin-webhook-service/docs"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Consent ledger: postgres when a DSN is configured, otherwise the
	// process-local variant (single instance only).
	var (
		ledger optinPorts.ConsentLedgerPort
		reader consentsPorts.ConsentReaderPort
	)

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open postgres")
		}
		defer db.Close()

		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("failed to ping postgres")
		}

		ledger = optinRepoPg.NewConsentLedger(optinRepoPg.NewSQLDB(db))
		reader = consentsRepoPg.NewConsentRepository(consentsRepoPg.NewSQLDB(db))
	} else {
		log.Warn().Msg("POSTGRES_DSN not set, using in-memory consent ledger (single instance only)")
		mem := optinMemory.NewConsentLedger()
		ledger = mem
		reader = mem
	}

	// Trigger dispatcher
	trigger := optinHeroku.NewClient(cfg.HerokuAPIKey, cfg.HerokuAPIURL, cfg.CampaignDynos)

	// Usecases
	processUC := optinUsecase.NewProcessEventsUseCase(ledger, trigger, cfg.OptinLabels)
	reportUC := consentsUsecase.NewGetConsentReportUseCase(reader)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	webhookHandler := optinHttp.NewWebhookHandler(processUC, cfg.VerifyToken, cfg.WebhookSecret)
	app.Get("/webhook", webhookHandler.Verify)
	app.Post("/webhook", webhookHandler.Receive)

	consentsHandler := consentsHttp.NewConsentsHandler(reportUC)
	app.Get("/consents", consentsHandler.GetConsentReport)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber stopped")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("fiber shutdown error")
	}

	log.Info().Msg("server exiting")
}
