package domain

import (
	"errors"
	"time"
)

var (
	ErrOTPNotFound         = errors.New("otp not found")
	ErrOTPExpired          = errors.New("otp expired")
	ErrOTPInvalid          = errors.New("otp mismatch")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
)

// PendingProfile is the partial user data captured when a code is requested.
// It is handed back on successful verification and never persisted by the
// authenticator itself.
type PendingProfile struct {
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	SchoolID  string `json:"schoolId,omitempty"`
}

// PendingOTP is the transient record for one issued code. CodeHash holds the
// bcrypt hash of the code, never the code itself.
type PendingOTP struct {
	ID       string
	Email    string
	CodeHash string
	Role     string
	IssuedAt time.Time
	Attempts int
	Profile  *PendingProfile
}

// Expired reports whether the entry is older than ttl at now.
func (p *PendingOTP) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.IssuedAt) > ttl
}

// VerificationResult is returned by a successful verification. User is nil
// when the directory has no record for the email yet.
type VerificationResult struct {
	Valid   bool
	Profile *PendingProfile
	User    *User
}
