// Command api runs the EducTrack HTTP API.
//
// @title                      EducTrack API
// @version                    1.0
// @description                Passwordless email OTP sign-in and school user directory.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/eductrack/eductrack-api/internal/api"
	"github.com/eductrack/eductrack-api/internal/api/handler"
	"github.com/eductrack/eductrack-api/internal/core/ports"
	"github.com/eductrack/eductrack-api/internal/core/service"
	"github.com/eductrack/eductrack-api/internal/infrastructure/config"
	"github.com/eductrack/eductrack-api/internal/infrastructure/db/memory"
	mongostore "github.com/eductrack/eductrack-api/internal/infrastructure/db/mongo"
	redisstore "github.com/eductrack/eductrack-api/internal/infrastructure/db/redis"
	"github.com/eductrack/eductrack-api/internal/infrastructure/mail"
	"github.com/eductrack/eductrack-api/internal/infrastructure/queue"
	"github.com/eductrack/eductrack-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Pretty: true})
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
		Caller: !cfg.IsProduction(),
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, reading from environment")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
	log.Info().Msg("api stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var health []handler.Pinger

	// --- PendingOTP store ---
	var otpStore ports.OTPStore
	retention := 2 * cfg.OTP.TTL
	switch cfg.OTP.Store {
	case "redis":
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		otpStore = redisstore.NewOTPStore(rdb, retention)
		health = append(health, redisstore.Pinger{Client: rdb})
	default:
		mem := memory.NewOTPStore(retention)
		mem.StartReaper(ctx, cfg.OTP.SweepInterval, log)
		otpStore = mem
	}

	// --- User directory ---
	var users ports.UserDirectory
	switch cfg.UserStore {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		users = repo
		health = append(health, mongostore.Pinger{Client: client})
	default:
		log.Warn().Msg("using in-memory user directory, records are lost on restart")
		users = memory.NewUserDirectory()
	}

	// --- Mail ---
	provider := newMailer(cfg, log)
	dispatcher := queue.NewMailDispatcher(provider, cfg.Mail.Provider, log, queue.Options{Workers: cfg.Mail.Workers})
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Services ---
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	otpService := service.NewOTPService(otpStore, users, dispatcher, log, service.OTPOptions{
		TTL:         cfg.OTP.TTL,
		MaxAttempts: cfg.OTP.MaxAttempts,
	})
	userService := service.NewUserService(users, log)
	tokens := service.NewJWTIssuer(jwtSecret, cfg.JWTTTL)

	if cfg.EchoOTP() {
		log.Warn().Msg("OTP dev echo enabled, codes are returned in API responses")
	}

	e := api.NewRouter(ctx, api.Deps{
		OTP:            otpService,
		Users:          userService,
		Tokens:         tokens,
		JWTSecret:      jwtSecret,
		EchoOTP:        cfg.EchoOTP(),
		AllowOrigins:   cfg.CORSAllowedOrigins,
		RateRPS:        cfg.RateLimit.RPS,
		RateBurst:      cfg.RateLimit.Burst,
		TrustedProxies: cfg.RateLimit.TrustedProxies,
		Health:         health,
		Log:            log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("otp_store", cfg.OTP.Store).
			Str("user_store", cfg.UserStore).
			Str("mail_provider", cfg.Mail.Provider).
			Msg("api listening")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	return api.Shutdown(e, shutdownTimeout)
}

func newMailer(cfg *config.Config, log zerolog.Logger) ports.OTPMailer {
	switch cfg.Mail.Provider {
	case "smtp":
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     cfg.Mail.From,
			Validity: cfg.OTP.TTL,
		})
	case "sendgrid":
		return mail.NewSendGridMailer(mail.SendGridConfig{
			APIKey:   cfg.Mail.SendGridAPIKey,
			From:     cfg.Mail.From,
			Validity: cfg.OTP.TTL,
		})
	default:
		return mail.NewConsoleMailer(log)
	}
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
