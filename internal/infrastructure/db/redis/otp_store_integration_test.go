//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eductrack/eductrack-api/internal/core/domain"
	"github.com/eductrack/eductrack-api/pkg/id"
)

// Run with: REDIS_ADDR=localhost:6379 go test -tags integration ./internal/infrastructure/db/redis/...
func newTestStore(t *testing.T) (*OTPStore, string) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	email := "it-" + id.New() + "@school.edu"
	t.Cleanup(func() { client.Del(context.Background(), keyPrefix+email) })
	return NewOTPStore(client, time.Minute), email
}

func TestOTPStore_RoundTrip(t *testing.T) {
	s, email := newTestStore(t)
	ctx := context.Background()
	issued := time.Now().UTC().Truncate(time.Microsecond)

	_, err := s.Get(ctx, email)
	require.ErrorIs(t, err, domain.ErrOTPNotFound)

	require.NoError(t, s.Put(ctx, &domain.PendingOTP{
		ID:       "first",
		Email:    email,
		CodeHash: "$2a$04$hash",
		Role:     domain.RoleTeacher,
		IssuedAt: issued,
		Profile:  &domain.PendingProfile{Role: domain.RoleTeacher, FirstName: "Grace", SchoolID: "S1"},
	}))

	got, err := s.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, "first", got.ID)
	assert.Equal(t, "$2a$04$hash", got.CodeHash)
	assert.Equal(t, domain.RoleTeacher, got.Role)
	assert.True(t, issued.Equal(got.IssuedAt))
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Grace", got.Profile.FirstName)
}

func TestOTPStore_ConditionalOps(t *testing.T) {
	s, email := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &domain.PendingOTP{ID: "a", Email: email, CodeHash: "h", Role: domain.RoleParent, IssuedAt: time.Now()}))
	require.NoError(t, s.Put(ctx, &domain.PendingOTP{ID: "b", Email: email, CodeHash: "h", Role: domain.RoleParent, IssuedAt: time.Now()}))

	_, err := s.IncrAttempts(ctx, email, "a")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)

	n, err := s.IncrAttempts(ctx, email, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err := s.Delete(ctx, email, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, email, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Get(ctx, email)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPStore_OverwriteResetsAttempts(t *testing.T) {
	s, email := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &domain.PendingOTP{ID: "a", Email: email, CodeHash: "h", Role: domain.RoleParent, IssuedAt: time.Now()}))
	_, err := s.IncrAttempts(ctx, email, "a")
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, &domain.PendingOTP{ID: "b", Email: email, CodeHash: "h", Role: domain.RoleParent, IssuedAt: time.Now()}))
	got, err := s.Get(ctx, email)
	require.NoError(t, err)
	assert.Zero(t, got.Attempts)
	assert.Nil(t, got.Profile)
}
