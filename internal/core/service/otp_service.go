package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eductrack/eductrack-api/internal/core/domain"
	"github.com/eductrack/eductrack-api/internal/core/ports"
	"github.com/eductrack/eductrack-api/pkg/id"
)

const (
	DefaultOTPTTL = 10 * time.Minute

	codeMin   = 100000
	codeRange = 900000 // codes span [100000, 999999]
)

var validate = validator.New()

// OTPOptions tunes an OTPService. Zero values fall back to defaults.
type OTPOptions struct {
	TTL time.Duration
	// MaxAttempts deletes the pending code after this many mismatches.
	// Zero disables the cap.
	MaxAttempts int
	// HashCost is the bcrypt cost used for codes at rest.
	HashCost int
	Now      func() time.Time
}

// OTPService implements the email one-time-code handshake.
type OTPService struct {
	store       ports.OTPStore
	users       ports.UserDirectory
	mailer      ports.OTPMailer
	log         zerolog.Logger
	ttl         time.Duration
	maxAttempts int
	hashCost    int
	now         func() time.Time
}

func NewOTPService(store ports.OTPStore, users ports.UserDirectory, mailer ports.OTPMailer, log zerolog.Logger, opts OTPOptions) *OTPService {
	s := &OTPService{
		store:       store,
		users:       users,
		mailer:      mailer,
		log:         log,
		ttl:         opts.TTL,
		maxAttempts: opts.MaxAttempts,
		hashCost:    opts.HashCost,
		now:         opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultOTPTTL
	}
	if s.hashCost < bcrypt.MinCost {
		s.hashCost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// TTL reports how long an issued code stays valid.
func (s *OTPService) TTL() time.Duration { return s.ttl }

// RequestCode issues a fresh code for email, replacing any pending one, and
// hands it to the mailer. Mailer failures are logged, never returned: the
// code stays verifiable even when delivery fails.
func (s *OTPService) RequestCode(ctx context.Context, email, role string, profile *domain.PendingProfile) (string, error) {
	email = normalizeEmail(email)
	if validate.Var(email, "required,email") != nil {
		return "", domain.ErrInvalidEmail
	}
	if !domain.ValidRole(role) {
		return "", domain.ErrInvalidRole
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("request code: generate: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("request code: hash: %w", err)
	}

	pending := domain.PendingProfile{Role: role}
	if profile != nil {
		pending = *profile
		pending.Role = role
	}

	entry := &domain.PendingOTP{
		ID:       id.New(),
		Email:    email,
		CodeHash: string(hash),
		Role:     role,
		IssuedAt: s.now().UTC(),
		Profile:  &pending,
	}
	if err := s.store.Put(ctx, entry); err != nil {
		return "", fmt.Errorf("request code: store: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code, role); err != nil {
		s.log.Warn().Err(err).Str("email", email).Str("role", role).Msg("otp dispatch failed, code remains valid")
	}

	s.log.Info().Str("email", email).Str("role", role).Str("otp_id", entry.ID).Msg("otp issued")
	return code, nil
}

// VerifyCode checks code against the pending entry for email. A match
// consumes the entry; a mismatch leaves it in place for a retry.
func (s *OTPService) VerifyCode(ctx context.Context, email, code string) (*domain.VerificationResult, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, domain.ErrMissingField
	}

	entry, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, fmt.Errorf("verify code: load: %w", err)
	}

	if entry.Expired(s.now(), s.ttl) {
		if _, err := s.store.Delete(ctx, email, entry.ID); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to delete expired otp")
		}
		return nil, domain.ErrOTPExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.CodeHash), []byte(code)) != nil {
		return nil, s.recordMismatch(ctx, entry)
	}

	// Conditional delete: of two concurrent correct submissions only one
	// removes the entry, the other sees it gone.
	consumed, err := s.store.Delete(ctx, email, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("verify code: consume: %w", err)
	}
	if !consumed {
		return nil, domain.ErrOTPNotFound
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("verify code: lookup user: %w", err)
		}
		user = nil
	}

	s.log.Info().Str("email", email).Bool("known_user", user != nil).Msg("otp verified")
	return &domain.VerificationResult{Valid: true, Profile: entry.Profile, User: user}, nil
}

// recordMismatch counts a wrong guess against the issuance and, when a cap
// is configured, deletes the entry once the cap is reached.
func (s *OTPService) recordMismatch(ctx context.Context, entry *domain.PendingOTP) error {
	n, err := s.store.IncrAttempts(ctx, entry.Email, entry.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrOTPNotFound) {
			s.log.Warn().Err(err).Str("email", entry.Email).Msg("failed to count otp attempt")
		}
		return domain.ErrOTPInvalid
	}
	if s.maxAttempts <= 0 || n < s.maxAttempts {
		return domain.ErrOTPInvalid
	}

	if _, err := s.store.Delete(ctx, entry.Email, entry.ID); err != nil {
		s.log.Warn().Err(err).Str("email", entry.Email).Msg("failed to delete locked otp")
	}
	s.log.Warn().Str("email", entry.Email).Int("attempts", n).Msg("otp locked after repeated mismatches")
	return domain.ErrOTPAttemptsExceeded
}

// generateCode returns a uniformly random six-digit code with no leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
