package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/internreg/internal/auth"
	"github.com/internreg/internal/config"
	"github.com/internreg/internal/crypto"
	"github.com/internreg/internal/db"
	"github.com/internreg/internal/mailer"
	"github.com/internreg/internal/model"
	"github.com/internreg/internal/registration"
	"github.com/internreg/internal/scheduler"
	"github.com/internreg/internal/store"
)

type App struct {
	config          *config.Config
	logger          *slog.Logger
	db              *pgxpool.Pool
	registrations   *store.RegistrationStore
	attachmentStore *store.AttachmentStore
	templateStore   *store.TemplateStore
	hrDirectory     *store.HRDirectory
	userStore       *store.UserStore
	sessionStore    *store.SessionStore
	settingsStore   *store.SettingsStore
	mailQueue       *mailer.Queue
	workflow        *registration.Workflow
	scheduler       *scheduler.Runner
}

func (app *App) Close() {
	app.db.Close()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)

	if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	crypter, err := crypto.NewFromSecret(cfg.SettingsEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("settings encryption: %w", err)
	}

	app := &App{
		config:          cfg,
		logger:          logger,
		db:              pool,
		registrations:   store.NewRegistrationStore(pool),
		attachmentStore: store.NewAttachmentStore(pool),
		templateStore:   store.NewTemplateStore(pool),
		hrDirectory:     store.NewHRDirectory(pool),
		userStore:       store.NewUserStore(pool),
		sessionStore:    store.NewSessionStore(pool),
		settingsStore:   store.NewSettingsStore(pool, crypter, defaultMailSettings(cfg)),
	}

	auth.SeedFirstAdmin(ctx, app.userStore, auth.SeedAccount{
		Email:       cfg.AdminEmail,
		DisplayName: cfg.AdminName,
		Password:    cfg.AdminPassword,
	})
	if err := app.templateStore.SeedDefault(ctx); err != nil {
		logger.Warn("template seed failed", "err", err)
	}

	settings, err := app.settingsStore.Load(ctx)
	if err != nil {
		logger.Warn("mail settings unavailable, using config defaults", "err", err)
		settings = defaultMailSettings(cfg)
	}
	m := mailer.New(mailer.NewConfigFromSettings(settings))
	app.mailQueue = mailer.NewQueue(m, cfg.MailQueueRate, cfg.MailQueueSize, cfg.MailMaxRetry)

	app.workflow = registration.New(
		app.registrations,
		app.attachmentStore,
		app.templateStore,
		app.hrDirectory,
		app.mailQueue,
		logger,
	)
	app.scheduler = scheduler.NewRunner(logger,
		scheduler.NewReminderJob(app.workflow, cfg.ReminderInterval),
		scheduler.NewSessionCleanupJob(app.sessionStore, time.Hour, logger),
	)

	return app, nil
}

func (app *App) Start(ctx context.Context) error {
	// Create an errgroup derived from the parent context
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	g.Go(func() error {
		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		app.mailQueue.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return app.scheduler.Start(gctx)
	})

	// Start shutdown listener
	g.Go(func() error {
		<-gctx.Done() // Wait for OS signal or a sibling to fail

		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	app.logger.Info("stopped server")
	return nil
}

func defaultMailSettings(cfg *config.Config) *model.MailSettings {
	return &model.MailSettings{
		SMTPHost:        cfg.SMTPHost,
		SMTPPort:        cfg.SMTPPort,
		SMTPUser:        cfg.SMTPUser,
		SMTPPass:        cfg.SMTPPass,
		SMTPFromAddress: cfg.SMTPFromEmail,
		SMTPFromName:    cfg.SMTPFromName,
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logLevel := slog.LevelInfo

	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	slog.SetDefault(logger)
	return logger
}
