package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// JWTIssuer signs HS256 session tokens for users that completed the OTP
// handshake.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token carrying the user's identity, role and school.
func (i *JWTIssuer) Issue(user *domain.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"email":     user.Email,
		"role":      user.Role,
		"school_id": user.SchoolID,
		"iat":       now.Unix(),
		"exp":       now.Add(i.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}
