package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcery-io/sourcery/internal/auth"
	"github.com/sourcery-io/sourcery/internal/config"
	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/email"
	"github.com/sourcery-io/sourcery/internal/handler"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/middleware"
	"github.com/sourcery-io/sourcery/internal/repository"
	"github.com/sourcery-io/sourcery/internal/router"
	"github.com/sourcery-io/sourcery/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", "0.1.0").Msg("starting Sourcery server")

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Connect to Redis
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("connected to Redis")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	passwordResetRepo := repository.NewPasswordResetRepository(db)
	mfaRepo := repository.NewMFARepository(db)
	contactRepo := repository.NewContactRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize token service
	tokenSvc, err := auth.NewTokenService(cfg.Security.Tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// Initialize email sender
	sender := newSender(cfg, log)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tokenRepo, passwordResetRepo, subscriptionRepo, mfaRepo, tokenSvc, sender, cfg, log)
	mfaSvc := service.NewMFAService(mfaRepo, userRepo, cfg, log)
	generateSvc := service.NewGenerateService(rdb, log)
	contactSvc := service.NewContactService(contactRepo, log)
	templateSvc := service.NewTemplateService(templateRepo, contactRepo, log)
	sequenceSvc := service.NewSequenceService(sequenceRepo, templateRepo, contactRepo, subscriptionRepo, statsRepo, sender, log)
	statsSvc := service.NewStatsService(statsRepo, contactRepo, templateRepo, sequenceRepo, subscriptionRepo, rdb, log)

	// Initialize handlers
	h := handler.New(db, rdb, log, cfg, authSvc, mfaSvc, generateSvc, contactSvc, templateSvc, sequenceSvc, statsSvc)

	// Initialize middleware
	mw := middleware.New(rdb, log, cfg)

	// Set up router
	r := router.New(h, mw, log, tokenSvc)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Periodic cleanup of expired tokens
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go runTokenJanitor(janitorCtx, tokenRepo, passwordResetRepo, log)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopJanitor()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// runTokenJanitor deletes expired refresh and password reset tokens on an
// hourly cadence until the context is cancelled.
func runTokenJanitor(ctx context.Context, tokenRepo *repository.TokenRepository, resetRepo *repository.PasswordResetRepository, log *logger.Logger) {
	jlog := log.WithComponent("janitor")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := tokenRepo.CleanupExpiredTokens(ctx); err != nil {
				jlog.Warn().Err(err).Msg("refresh token cleanup failed")
			} else if n > 0 {
				jlog.Info().Int64("deleted", n).Msg("expired refresh tokens removed")
			}
			if n, err := resetRepo.CleanupExpired(ctx); err != nil {
				jlog.Warn().Err(err).Msg("password reset token cleanup failed")
			} else if n > 0 {
				jlog.Info().Int64("deleted", n).Msg("expired password reset tokens removed")
			}
		}
	}
}

// newSender picks the email provider from configuration, falling back to the
// log provider when Gmail credentials are absent.
func newSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if cfg.Email.Provider != "gmail" {
		return email.NewLogSender(log)
	}

	ctx := context.Background()
	gm := cfg.Email.Gmail

	switch {
	case gm.CredentialsJSON != "":
		sender, err := email.NewGmailSender(ctx, email.GmailConfig{
			CredentialsJSON: gm.CredentialsJSON,
			SenderAddress:   gm.SenderAddress,
			SenderName:      gm.SenderName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Gmail sender")
		}
		log.Info().Str("sender", gm.SenderAddress).Msg("Gmail sender initialized (service account)")
		return sender

	case gm.ClientID != "" && gm.ClientSecret != "" && gm.RefreshToken != "":
		sender, err := email.NewGmailSenderWithToken(ctx, gm.ClientID, gm.ClientSecret, gm.RefreshToken, gm.SenderAddress, gm.SenderName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Gmail sender")
		}
		log.Info().Str("sender", gm.SenderAddress).Msg("Gmail sender initialized (OAuth token)")
		return sender

	default:
		log.Warn().Msg("gmail provider selected but no credentials configured, falling back to log sender")
		return email.NewLogSender(log)
	}
}
