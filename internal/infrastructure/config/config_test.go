package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadMap(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return load(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "memory", cfg.UserStore)

	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Zero(t, cfg.OTP.MaxAttempts)
	assert.False(t, cfg.OTP.DevEcho)
	assert.Equal(t, "memory", cfg.OTP.Store)

	assert.Equal(t, "console", cfg.Mail.Provider)
	assert.Equal(t, 4, cfg.Mail.Workers)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "eductrack", cfg.Mongo.Database)

	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.EchoOTP())
}

func TestLoad_NormalizesNames(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{
		"ENV":           " Staging ",
		"OTP_STORE":     "Redis",
		"USER_STORE":    "MONGO",
		"MAIL_PROVIDER": "Console",
	})
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "redis", cfg.OTP.Store)
	assert.Equal(t, "mongo", cfg.UserStore)
	assert.Equal(t, "console", cfg.Mail.Provider)
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown otp store", map[string]string{"OTP_STORE": "etcd"}},
		{"unknown user store", map[string]string{"USER_STORE": "postgres"}},
		{"unknown mail provider", map[string]string{"MAIL_PROVIDER": "pigeon"}},
		{"smtp without host", map[string]string{"MAIL_PROVIDER": "smtp"}},
		{"sendgrid without key", map[string]string{"MAIL_PROVIDER": "sendgrid"}},
		{"zero ttl", map[string]string{"OTP_TTL": "0s"}},
		{"production without secret", map[string]string{"ENV": "production"}},
		{"bad trusted proxy", map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8,not-a-cidr"}},
		{"malformed duration", map[string]string{"OTP_TTL": "ten minutes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadMap(t, tc.env)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProvidersWithSettings(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{
		"MAIL_PROVIDER": "smtp",
		"SMTP_HOST":     "smtp.example.com",
		"SMTP_USERNAME": "mailer",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTPHost)
	assert.Equal(t, "587", cfg.Mail.SMTPPort)

	cfg, err = loadMap(t, map[string]string{
		"MAIL_PROVIDER":    "sendgrid",
		"SENDGRID_API_KEY": "SG.key",
	})
	require.NoError(t, err)
	assert.Equal(t, "SG.key", cfg.Mail.SendGridAPIKey)
}

func TestLoad_TrustedProxies(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8,192.168.0.0/16"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, cfg.RateLimit.TrustedProxies)
}

func TestEchoOTP(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{"OTP_DEV_ECHO": "true"})
	require.NoError(t, err)
	assert.True(t, cfg.EchoOTP())

	cfg, err = loadMap(t, map[string]string{
		"OTP_DEV_ECHO": "true",
		"ENV":          "production",
		"JWT_SECRET":   "s3cret",
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.EchoOTP())
}
