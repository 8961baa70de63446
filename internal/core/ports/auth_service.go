package ports

import (
	"context"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

// OTPService issues and verifies one-time login codes.
type OTPService interface {
	// RequestCode returns the issued code so callers can echo it in
	// non-production builds.
	RequestCode(ctx context.Context, email, role string, profile *domain.PendingProfile) (string, error)
	VerifyCode(ctx context.Context, email, code string) (*domain.VerificationResult, error)
}

// TokenIssuer signs session tokens for verified users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}
