package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

const keyPrefix = "otp:"

// deleteIfCurrent removes the hash only while it still belongs to issuance ARGV[1].
var deleteIfCurrent = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'id') == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// incrIfCurrent bumps the attempt counter of issuance ARGV[1], or returns -1.
var incrIfCurrent = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'id') == ARGV[1] then
  return redis.call('HINCRBY', KEYS[1], 'attempts', 1)
end
return -1
`)

// OTPStore keeps pending codes in Redis so every API instance sees the same
// state. Key format: otp:<email>, one hash per email.
//
// The key TTL is a retention window, not the validity window: it should be
// longer than the OTP TTL so an expired code is still reported as expired
// rather than missing.
type OTPStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewOTPStore(client *redis.Client, retention time.Duration) *OTPStore {
	return &OTPStore{client: client, retention: retention}
}

func (s *OTPStore) Put(ctx context.Context, p *domain.PendingOTP) error {
	profile, err := json.Marshal(p.Profile)
	if err != nil {
		return fmt.Errorf("otp put: encode profile: %w", err)
	}

	key := s.key(p.Email)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"id", p.ID,
			"code_hash", p.CodeHash,
			"role", p.Role,
			"issued_at", p.IssuedAt.UnixNano(),
			"attempts", p.Attempts,
			"profile", profile,
		)
		if s.retention > 0 {
			pipe.Expire(ctx, key, s.retention)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("otp put: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domain.PendingOTP, error) {
	fields, err := s.client.HGetAll(ctx, s.key(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("otp get: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrOTPNotFound
	}
	return decodePending(email, fields)
}

func (s *OTPStore) Delete(ctx context.Context, email, id string) (bool, error) {
	n, err := deleteIfCurrent.Run(ctx, s.client, []string{s.key(email)}, id).Int()
	if err != nil {
		return false, fmt.Errorf("otp delete: %w", err)
	}
	return n > 0, nil
}

func (s *OTPStore) IncrAttempts(ctx context.Context, email, id string) (int, error) {
	n, err := incrIfCurrent.Run(ctx, s.client, []string{s.key(email)}, id).Int()
	if err != nil {
		return 0, fmt.Errorf("otp incr attempts: %w", err)
	}
	if n < 0 {
		return 0, domain.ErrOTPNotFound
	}
	return n, nil
}

func (s *OTPStore) key(email string) string {
	return keyPrefix + email
}

func decodePending(email string, f map[string]string) (*domain.PendingOTP, error) {
	issued, err := strconv.ParseInt(f["issued_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("otp decode issued_at: %w", err)
	}
	attempts, _ := strconv.Atoi(f["attempts"])

	p := &domain.PendingOTP{
		ID:       f["id"],
		Email:    email,
		CodeHash: f["code_hash"],
		Role:     f["role"],
		IssuedAt: time.Unix(0, issued).UTC(),
		Attempts: attempts,
	}
	if raw := f["profile"]; raw != "" && raw != "null" {
		var profile domain.PendingProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return nil, fmt.Errorf("otp decode profile: %w", err)
		}
		p.Profile = &profile
	}
	if p.ID == "" {
		return nil, errors.New("otp decode: missing id")
	}
	return p, nil
}
