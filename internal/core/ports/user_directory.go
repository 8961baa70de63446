package ports

import (
	"context"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

// UserDirectory defines the interface for user record persistence.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// ListTeachers returns the active teachers of a school.
	ListTeachers(ctx context.Context, schoolID string) ([]*domain.User, error)
}
