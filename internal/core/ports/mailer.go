package ports

import "context"

// OTPMailer delivers a login code to an email address.
type OTPMailer interface {
	SendOTP(ctx context.Context, to, code, role string) error
}
