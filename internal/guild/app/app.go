package app

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

	httpapi "github.com/aussiebroadwan/guild/internal/guild/http"
	"github.com/aussiebroadwan/guild/internal/guild/metrics"
	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/aussiebroadwan/guild/internal/guild/service"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/internal/guild/store/drivers/postgres"
	"github.com/aussiebroadwan/guild/internal/guild/store/drivers/sqlite"
	"github.com/aussiebroadwan/guild/pkg/cryptox"
	"github.com/aussiebroadwan/guild/pkg/jwtx"
	"github.com/aussiebroadwan/guild/pkg/slogx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the guild service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	keys     *jwtx.KeySet
	verifier jwtx.Verifier
	metrics  *metrics.Metrics
	redis    *redis.Client
	notifier *notify.Dispatcher

	// Services
	applicationService  *service.ApplicationService
	admissionService    *service.AdmissionService
	memberService       *service.MemberService
	referralService     *service.ReferralService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "guild",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	// Fail the boot, not the first registration, on a broken pepper file.
	cryptox.SetPepperPath(cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	keys, verifier, err := LoadVerifier(cfg)
	if err != nil {
		return nil, err
	}
	app.keys, app.verifier = keys, verifier

	if err := app.initDatabase(context.Background()); err != nil {
		return nil, err
	}
	if err := app.initNotifier(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunContext(ctx)
}

// RunContext serves until ctx is cancelled.
func (app *Application) RunContext(ctx context.Context) error {
	app.housekeepingService.Start()
	app.logger.Info("guild service starting",
		slog.Int("port", app.cfg.Port),
		slog.String("version", BuildVersion),
		slog.String("database", app.cfg.DatabaseDriver),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested")
		return app.Shutdown()
	})
	return g.Wait()
}

// Shutdown stops accepting requests, drains notifications and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down guild service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slog.Any("error", err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slog.Any("error", err))
		}
	}

	app.housekeepingService.Stop()

	// Deliver whatever the last requests queued.
	app.notifier.Close()
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.Any("error", err))
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slog.Any("error", err))
		return err
	}

	app.logger.Info("guild service stopped")
	return nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", slog.String("driver", app.cfg.DatabaseDriver))
	return nil
}

// initNotifier assembles the delivery chain: always the log, plus SMTP and
// a Redis stream when configured.
func (app *Application) initNotifier() error {
	senders := notify.MultiSender{notify.LogSender{Logger: app.logger}}

	if app.cfg.SMTP.Host != "" {
		smtp, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:      app.cfg.SMTP.Host,
			Port:      app.cfg.SMTP.Port,
			Username:  app.cfg.SMTP.Username,
			Password:  app.cfg.SMTP.Password,
			From:      app.cfg.SMTP.From,
			PublicURL: app.cfg.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("failed to configure smtp: %w", err)
		}
		senders = append(senders, smtp)
		app.logger.Info("smtp notifications enabled", slog.String("host", app.cfg.SMTP.Host))
	}

	if app.cfg.RedisURL != "" {
		opts, err := redis.ParseURL(app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		app.redis = redis.NewClient(opts)
		senders = append(senders, notify.NewRedisStreamSender(app.redis, app.cfg.RedisStream, app.cfg.RedisStreamMaxLen))
		app.logger.Info("redis stream notifications enabled", slog.String("stream", app.cfg.RedisStream))
	}

	app.notifier = notify.NewDispatcher(senders, app.logger, notify.DispatcherConfig{
		Buffer:      app.cfg.NotifyBuffer,
		Workers:     app.cfg.NotifyWorkers,
		SendTimeout: 30 * time.Second,
		OnResult: func(kind notify.Kind, outcome string) {
			app.metrics.ObserveNotification(string(kind), outcome)
		},
	})
	return nil
}

func (app *Application) initServices() {
	retry := service.DefaultRetrier()
	retry.MaxRetries = app.cfg.RetryMax

	deps := service.Deps{
		Store:    app.db,
		Notifier: app.notifier,
		Metrics:  app.metrics,
		Retry:    retry,
	}

	app.applicationService = service.NewApplicationService(deps)
	app.admissionService = service.NewAdmissionService(deps, service.AdmissionConfig{
		InvitationTTL:     app.cfg.InvitationTTL,
		PasswordMinLength: app.cfg.PasswordMinLength,
	})
	app.memberService = service.NewMemberService(deps)
	app.referralService = service.NewReferralService(deps)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.metrics,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.Limits = httpapi.RateLimits{
		Strict: app.cfg.RateLimit.Strict(),
		Public: app.cfg.RateLimit.Public(),
		Member: app.cfg.RateLimit.Member(),
	}

	// Wire services to router
	router.ApplicationService = app.applicationService
	router.AdmissionService = app.admissionService
	router.MemberService = app.memberService
	router.ReferralService = app.referralService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
