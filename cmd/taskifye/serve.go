package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskifye/integration-hub/internal/api"
	"github.com/taskifye/integration-hub/internal/api/handler"
	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/service"
	"github.com/taskifye/integration-hub/internal/infrastructure/cache"
	"github.com/taskifye/integration-hub/internal/infrastructure/db/mongo"
	"github.com/taskifye/integration-hub/internal/infrastructure/db/postgres"
	"github.com/taskifye/integration-hub/internal/infrastructure/db/redis"
	"github.com/taskifye/integration-hub/internal/infrastructure/quickbooks"
	"github.com/taskifye/integration-hub/internal/infrastructure/twilio"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run schema migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, migrate bool) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		log.Warn().Msg("JWT_SECRET is empty; bearer tokens cannot be verified")
	}

	// --- Data-access handles ---
	db, err := openPostgres(cmd, cfg)
	if err != nil {
		return err
	}
	defer postgres.Close(db)
	if migrate {
		if err := postgres.AutoMigrate(ctx, db); err != nil {
			return err
		}
	}

	mc, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "taskifye-hub"})
	if err != nil {
		return err
	}
	defer func() { _ = mongo.Close(mc, 5*time.Second) }()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	credentialRepo := postgres.NewCredentialRepository(db)
	smsRepo := mongo.NewSmsRepository(mdb)
	if err := smsRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("sms index creation failed")
	}

	// --- Credential cache and cross-instance invalidation ---
	keyCache := cache.NewAPIKeyCache(credentialRepo, log)
	bus := redis.NewInvalidationBus(rdb, log)

	busCtx, stopBus := context.WithCancel(ctx)
	defer stopBus()
	go func() {
		if err := bus.Run(busCtx, keyCache.Clear); err != nil {
			log.Error().Err(err).Msg("credential invalidation subscriber stopped")
		}
	}()

	// --- Services ---
	integrationSvc := service.NewIntegrationService(credentialRepo, keyCache, bus, log)
	oauthSvc := service.NewOAuthService(
		redis.NewOAuthStateStore(rdb, domain.ProviderQuickBooks, cfg.QuickBooks.StateTTL),
		quickbooks.NewExchanger(quickbooks.Config{
			ClientID:     cfg.QuickBooks.ClientID,
			ClientSecret: cfg.QuickBooks.ClientSecret,
			RedirectURL:  cfg.QuickBooks.RedirectURL,
			Timeout:      cfg.HTTPClientTimeout,
		}),
		credentialRepo,
		integrationSvc,
		log,
	)

	e := api.NewRouter(api.Deps{
		Log:          log,
		Auth:         service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Clients:      service.NewClientService(clientRepo, log),
		Access:       service.NewAccessService(userRepo, clientRepo, templateRepo, log),
		Integrations: integrationSvc,
		OAuth:        oauthSvc,
		Sms:          service.NewSmsService(smsRepo, credentialRepo, twilio.NewSender(cfg.HTTPClientTimeout), log),
		Health: map[string]handler.Pinger{
			"postgres": handler.PingFunc(func(ctx context.Context) error { return postgres.Ping(ctx, db) }),
			"mongodb":  handler.PingFunc(func(ctx context.Context) error { return mongo.Ping(ctx, mc) }),
			"redis":    handler.PingFunc(func(ctx context.Context) error { return redis.Ping(ctx, rdb, 0) }),
		},
		JWTSecret:        cfg.Auth.JWTSecret,
		AuthRequired:     cfg.Auth.Required,
		DefaultClientID:  cfg.Tenancy.DefaultClientID,
		DefaultUserEmail: cfg.Tenancy.DefaultUserEmail,
		AppBaseURL:       cfg.AppBaseURL,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}
