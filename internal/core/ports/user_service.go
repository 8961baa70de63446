package ports

import (
	"context"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

// AdminRegistration carries the fields of the admin sign-up form.
type AdminRegistration struct {
	Email         string
	FirstName     string
	LastName      string
	SchoolID      string // generated from SchoolName when empty
	SchoolName    string
	SchoolAddress string
	SchoolPhone   string
	AdminTitle    string
}

// ParentRegistration carries the fields of the parent sign-up form.
type ParentRegistration struct {
	Email                 string
	FirstName             string
	LastName              string
	SchoolID              string
	ParentPhone           string
	ParentOccupation      string
	EmergencyContact      string
	EmergencyContactPhone string
	RelationshipToStudent string
}

// TeacherCreation carries the fields an admin supplies for a new teacher.
type TeacherCreation struct {
	Email                 string
	FirstName             string
	LastName              string
	SchoolID              string
	TeacherSubjects       []string
	TeacherQualifications string
	EmployeeID            string
}

// UserService defines the registration and lookup use cases.
type UserService interface {
	RegisterAdmin(ctx context.Context, in AdminRegistration) (*domain.User, error)
	RegisterParent(ctx context.Context, in ParentRegistration) (*domain.User, error)
	CreateTeacher(ctx context.Context, in TeacherCreation) (*domain.User, error)
	ListTeachers(ctx context.Context, schoolID string) ([]*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
