package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

// UserDirectory is an in-process user directory keyed by email.
type UserDirectory struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{byEmail: make(map[string]*domain.User)}
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (d *UserDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	d.byEmail[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (d *UserDirectory) ListTeachers(_ context.Context, schoolID string) ([]*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*domain.User, 0)
	for _, u := range d.byEmail {
		if u.Role == domain.RoleTeacher && u.SchoolID == schoolID && u.IsActive {
			out = append(out, cloneUser(u))
		}
	}
	// ULIDs sort by creation time.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.TeacherSubjects != nil {
		c.TeacherSubjects = append([]string(nil), u.TeacherSubjects...)
	}
	return &c
}
