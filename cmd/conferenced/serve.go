package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"conferencecentral/config"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/tasks"
	httpdelivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/platform/tracing"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
	"conferencecentral/migrations"
)

const (
	shutdownTimeout = 10 * time.Second
	taskTimeout     = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, background tasks and the announcement ticker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func runServe(ctx context.Context, skipMigrations bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewProvider(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", "err", err)
		}
	}()

	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrations {
		if err := migrations.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	profileRepo := postgres.NewProfileRepository(db)
	conferenceRepo := postgres.NewConferenceRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	registrationStore := postgres.NewRegistrationStore(db)

	dispatcher := tasks.NewDispatcher(logger, cfg.TaskWorkers, cfg.TaskQueueSize, taskTimeout)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	announcementService := services.NewAnnouncementService(conferenceRepo, sessionRepo, cache.NewMemory(logger))

	jwt := auth.NewJWT(cfg.JWTSecret)
	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Profile: controllers.NewProfileController(logger,
			services.NewProfileService(profileRepo, cfg.RequestTimeout)),
		Conference: controllers.NewConferenceController(logger,
			services.NewConferenceService(conferenceRepo, profileRepo, emailService, dispatcher, cfg.RequestTimeout),
			services.NewRegistrationService(registrationStore, profileRepo, cfg.RequestTimeout)),
		Session: controllers.NewSessionController(logger,
			services.NewSessionService(sessionRepo, conferenceRepo, speakerRepo, announcementService, dispatcher, logger, cfg.RequestTimeout)),
		Wishlist: controllers.NewWishlistController(logger,
			services.NewWishlistService(profileRepo, sessionRepo, cfg.RequestTimeout)),
		Announcement: controllers.NewAnnouncementController(logger, announcementService),
	}, jwt, cfg.CronToken, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		return tasks.Schedule(gctx, dispatcher, cfg.AnnouncementInterval, refreshAnnouncementTask(announcementService, logger))
	})
	g.Go(func() error {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func refreshAnnouncementTask(svc domain.AnnouncementService, logger *slog.Logger) domain.Task {
	return domain.Task{
		Name: "set_announcement",
		Run: func(ctx context.Context) error {
			announcement, err := svc.RefreshAnnouncement(ctx)
			if err != nil {
				return err
			}
			logger.Debug("announcement refreshed", "empty", announcement == "")
			return nil
		},
	}
}
