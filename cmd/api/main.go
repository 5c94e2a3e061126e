// Package main is the entry point for the Notekeeper API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/notekeeper/internal/auth"
	"github.com/pkordes/notekeeper/internal/config"
	"github.com/pkordes/notekeeper/internal/database"
	"github.com/pkordes/notekeeper/internal/handler"
	"github.com/pkordes/notekeeper/internal/logging"
	"github.com/pkordes/notekeeper/internal/mail"
	"github.com/pkordes/notekeeper/internal/middleware"
	"github.com/pkordes/notekeeper/internal/repo"
	"github.com/pkordes/notekeeper/internal/service"
	"github.com/pkordes/notekeeper/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.ConnectOptions{
		Attempts: cfg.Database.ConnectAttempts,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connection established")

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, pool, migrations.FS, logger); err != nil {
			return err
		}
	}
	db := database.New(pool)

	// --- Services ---------------------------------------------------------
	tokens, err := auth.NewTokenIssuer(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.VerifyTokenTTL,
	)
	if err != nil {
		return err
	}

	users := repo.NewUserRepo(db)
	notes := repo.NewNoteRepo(db)
	tags := repo.NewTagRepo(db)

	noteSvc := service.NewNoteService(db, notes, tags)
	srv := handler.NewServer(handler.Services{
		Auth: service.NewAuthService(users, tokens, newMailer(cfg.Mail, logger), logger, service.AuthOptions{
			BaseURL:              cfg.AppBaseURL,
			RequireVerifiedEmail: cfg.RequireVerifiedEmail,
		}),
		Users:  service.NewUserService(users, notes, tags),
		Notes:  noteSvc,
		Tags:   service.NewTagService(tags),
		Export: service.NewExportService(noteSvc),
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit. CORS sits before routing so preflight requests are
	// answered without authentication.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.AllowedOrigins()))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return database.KeepAlive(gctx, db, cfg.Database.KeepAliveInterval, logger)
	})

	// Graceful shutdown: on signal or a failed goroutine, give in-flight
	// requests up to shutdownTimeout to complete.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newMailer returns an SMTP mailer when a host is configured and a mailer
// that only logs otherwise.
func newMailer(cfg config.MailConfig, logger *slog.Logger) mail.Mailer {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST not set; verification emails will be logged, not sent")
		return mail.NewLogMailer(logger)
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}
