package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchdaylabs/teamstats/external/mailgun"
	"github.com/matchdaylabs/teamstats/external/openai"
	"github.com/matchdaylabs/teamstats/external/s3store"
	"github.com/matchdaylabs/teamstats/external/stripe"
	"github.com/matchdaylabs/teamstats/internal/config"
	"github.com/matchdaylabs/teamstats/internal/infrastructure/repository/postgres"
	"github.com/matchdaylabs/teamstats/internal/interfaces/httpapi"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
	"github.com/matchdaylabs/teamstats/internal/platform/resilience"
	"github.com/matchdaylabs/teamstats/internal/platform/tasks"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

// App bundles the HTTP server with the resources it owns. Close releases
// them in reverse dependency order.
type App struct {
	Server *http.Server

	db    *sqlx.DB
	tasks *tasks.Runner
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	runner, err := tasks.NewRunner(cfg.TaskWorkerCount, cfg.TaskTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("start task runner: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	seasonRepo := postgres.NewSeasonRepository(db)
	statRepo := postgres.NewStatRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	var email usecase.EmailSender
	if cfg.MailgunEnabled {
		email = mailgun.NewClient(mailgun.ClientConfig{
			BaseURL: cfg.MailgunBaseURL,
			Domain:  cfg.MailgunDomain,
			APIKey:  cfg.MailgunAPIKey,
			Sender:  cfg.MailgunSender,
			Timeout: cfg.MailgunTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.MailgunCircuitEnabled,
				FailureThreshold: cfg.MailgunCircuitFailureCount,
				OpenTimeout:      cfg.MailgunCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.MailgunCircuitHalfOpenMaxReq,
			},
			Logger: logger,
		})
	}

	var files usecase.FileStore
	if cfg.StorageEnabled {
		store, err := s3store.New(ctx, s3store.Config{
			Endpoint:        cfg.StorageEndpoint,
			Region:          cfg.StorageRegion,
			AccessKeyID:     cfg.StorageAccessKeyID,
			SecretAccessKey: cfg.StorageSecretAccessKey,
			Bucket:          cfg.StorageBucket,
			PublicBaseURL:   cfg.StoragePublicBaseURL,
		}, logger)
		if err != nil {
			runner.Close()
			_ = db.Close()
			return nil, fmt.Errorf("build object storage: %w", err)
		}
		files = store
	}

	var parser usecase.StatSheetParser
	if cfg.ParserEnabled {
		parser = openai.NewParser(openai.ParserConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ParserCircuitEnabled,
				FailureThreshold: cfg.ParserCircuitFailureCount,
				OpenTimeout:      cfg.ParserCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ParserCircuitHalfOpenMaxReq,
			},
			Logger: logger,
		})
	}

	var portal usecase.PortalClient
	var webhooks httpapi.WebhookDecoder
	if cfg.BillingEnabled {
		portal = stripe.NewPortalClient(stripe.PortalClientConfig{
			APIKey:  cfg.StripeAPIKey,
			Timeout: cfg.StripePortalTimeout,
			Logger:  logger,
		})
		webhooks = stripe.NewWebhookVerifier(cfg.StripeWebhookSecret, cfg.StripeWebhookTolerance)
	}

	ids := idgen.NewRandomGenerator()

	authSvc := usecase.NewAuthService(userRepo, ids, logger)
	teamSvc := usecase.NewTeamService(teamRepo, membershipRepo, userRepo, playerRepo, gameRepo, statRepo, subscriptionRepo, files, ids, logger)
	playerSvc := usecase.NewPlayerService(teamRepo, membershipRepo, playerRepo, files, ids, logger)
	gameSvc := usecase.NewGameService(membershipRepo, gameRepo, playerRepo, statRepo, subscriptionRepo, ids, logger)
	seasonSvc := usecase.NewSeasonService(membershipRepo, seasonRepo, subscriptionRepo, ids, logger)
	statsSvc := usecase.NewStatsService(membershipRepo, playerRepo, statRepo, seasonRepo, subscriptionRepo, parser, ids, logger)
	inviteSvc := usecase.NewInviteService(teamRepo, membershipRepo, playerRepo, userRepo, inviteRepo, subscriptionRepo, email, runner, ids, cfg.AppBaseURL, logger)
	billingSvc := usecase.NewBillingService(membershipRepo, userRepo, subscriptionRepo, portal, cfg.BillingTeamProductID, logger)

	sessions, err := httpapi.NewSessionManager(cfg.SessionSecret, cfg.SecureCookies)
	if err != nil {
		runner.Close()
		_ = db.Close()
		return nil, fmt.Errorf("build session manager: %w", err)
	}

	handler := httpapi.NewHandler(authSvc, teamSvc, playerSvc, gameSvc, seasonSvc, statsSvc, inviteSvc, billingSvc, webhooks, sessions, logger)
	handler.SetHealthCheck(db.PingContext)
	router := httpapi.NewRouter(handler, sessions, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server: server,
		db:     db,
		tasks:  runner,
	}, nil
}

// Close drains the task runner before closing the database so in-flight
// tasks keep a usable connection pool.
func (a *App) Close() error {
	a.tasks.Close()
	return a.db.Close()
}
