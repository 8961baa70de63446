package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
	UserStore          string   `env:"USER_STORE,           default=memory"`

	OTP       OTPConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type OTPConfig struct {
	TTL           time.Duration `env:"OTP_TTL,            default=10m"`
	MaxAttempts   int           `env:"OTP_MAX_ATTEMPTS,   default=0"`
	DevEcho       bool          `env:"OTP_DEV_ECHO,       default=false"`
	Store         string        `env:"OTP_STORE,          default=memory"`
	SweepInterval time.Duration `env:"OTP_SWEEP_INTERVAL, default=5m"`
}

type MailConfig struct {
	Provider       string `env:"MAIL_PROVIDER,    default=console"`
	From           string `env:"MAIL_FROM,        default=noreply@eductrack.com"`
	Workers        int    `env:"MAIL_WORKERS,     default=4"`
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       string `env:"SMTP_PORT,        default=587"`
	SMTPUsername   string `env:"SMTP_USERNAME"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=5"`
	Burst int     `env:"RATE_LIMIT_BURST, default=10"`
	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. Empty
	// means the TCP peer address identifies the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=eductrack"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig
// and rejects combinations the server cannot start with.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// EchoOTP reports whether issued codes may be returned in the send-otp
// response. Never true in production.
func (c *Config) EchoOTP() bool {
	return c.OTP.DevEcho && !c.IsProduction()
}

func (c *Config) normalize() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.OTP.Store = strings.ToLower(c.OTP.Store)
	c.UserStore = strings.ToLower(c.UserStore)
	c.Mail.Provider = strings.ToLower(c.Mail.Provider)

	switch c.OTP.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: OTP_STORE must be memory or redis, got %q", c.OTP.Store)
	}
	switch c.UserStore {
	case "memory", "mongo":
	default:
		return fmt.Errorf("config: USER_STORE must be memory or mongo, got %q", c.UserStore)
	}
	switch c.Mail.Provider {
	case "console":
	case "smtp":
		if c.Mail.SMTPHost == "" {
			return errors.New("config: SMTP_HOST is required for the smtp mail provider")
		}
	case "sendgrid":
		if c.Mail.SendGridAPIKey == "" {
			return errors.New("config: SENDGRID_API_KEY is required for the sendgrid mail provider")
		}
	default:
		return fmt.Errorf("config: MAIL_PROVIDER must be console, smtp or sendgrid, got %q", c.Mail.Provider)
	}

	for _, cidr := range c.RateLimit.TrustedProxies {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			return fmt.Errorf("config: TRUSTED_PROXIES: %w", err)
		}
	}

	if c.OTP.TTL <= 0 {
		return errors.New("config: OTP_TTL must be positive")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required in production")
	}
	return nil
}
