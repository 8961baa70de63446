// Package memory holds process-local implementations of the stores, for
// single-instance deployments and local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

// OTPStore keeps pending codes in a mutex-guarded map. Entries are removed
// by the authenticator; Sweep additionally drops anything older than the
// retention window so abandoned requests do not accumulate.
type OTPStore struct {
	mu        sync.Mutex
	entries   map[string]domain.PendingOTP
	retention time.Duration
	now       func() time.Time
}

func NewOTPStore(retention time.Duration) *OTPStore {
	return &OTPStore{
		entries:   make(map[string]domain.PendingOTP),
		retention: retention,
		now:       time.Now,
	}
}

func (s *OTPStore) Put(_ context.Context, p *domain.PendingOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.Email] = clonePending(p)
	return nil
}

func (s *OTPStore) Get(_ context.Context, email string) (*domain.PendingOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[email]
	if !ok {
		return nil, domain.ErrOTPNotFound
	}
	c := clonePending(&p)
	return &c, nil
}

func (s *OTPStore) Delete(_ context.Context, email, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[email]
	if !ok || p.ID != id {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}

func (s *OTPStore) IncrAttempts(_ context.Context, email, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[email]
	if !ok || p.ID != id {
		return 0, domain.ErrOTPNotFound
	}
	p.Attempts++
	s.entries[email] = p
	return p.Attempts, nil
}

// Len reports the number of stored entries.
func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes entries issued more than the retention window ago and
// returns how many were dropped. A non-positive retention disables it.
func (s *OTPStore) Sweep() int {
	if s.retention <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for email, p := range s.entries {
		if p.IssuedAt.Before(cutoff) {
			delete(s.entries, email)
			n++
		}
	}
	return n
}

// StartReaper runs Sweep every interval until ctx is cancelled.
func (s *OTPStore) StartReaper(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 || s.retention <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Debug().Int("removed", n).Msg("swept stale otp entries")
				}
			}
		}
	}()
}

func clonePending(p *domain.PendingOTP) domain.PendingOTP {
	c := *p
	if p.Profile != nil {
		profile := *p.Profile
		c.Profile = &profile
	}
	return c
}
