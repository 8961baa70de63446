package ports

import (
	"context"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

// OTPStore holds at most one pending code per email.
type OTPStore interface {
	// Put replaces any entry already stored for p.Email.
	Put(ctx context.Context, p *domain.PendingOTP) error
	// Get returns domain.ErrOTPNotFound when nothing is stored for email.
	Get(ctx context.Context, email string) (*domain.PendingOTP, error)
	// Delete removes the entry only while it is still the issuance identified
	// by id, and reports whether it did.
	Delete(ctx context.Context, email, id string) (bool, error)
	// IncrAttempts bumps the mismatch counter of issuance id and returns the
	// new value. It returns domain.ErrOTPNotFound when id is no longer live.
	IncrAttempts(ctx context.Context, email, id string) (int, error)
}
