package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleMailer writes codes to the log instead of sending them. Development only.
type ConsoleMailer struct {
	log zerolog.Logger
}

func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log.With().Str("provider", "console").Logger()}
}

func (m *ConsoleMailer) SendOTP(_ context.Context, to, code, role string) error {
	m.log.Info().
		Str("email", to).
		Str("role", role).
		Str("otp", code).
		Msg("otp issued")
	return nil
}
