package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eductrack/eductrack-api/internal/core/domain"
	"github.com/eductrack/eductrack-api/internal/core/ports"
	"github.com/eductrack/eductrack-api/pkg/id"
)

type UserService struct {
	dir ports.UserDirectory
	log zerolog.Logger
	now func() time.Time
}

func NewUserService(dir ports.UserDirectory, log zerolog.Logger) *UserService {
	return &UserService{dir: dir, log: log, now: time.Now}
}

// RegisterAdmin creates the first account of a school. A school ID is
// derived from the school name when the caller does not supply one.
func (s *UserService) RegisterAdmin(ctx context.Context, in ports.AdminRegistration) (*domain.User, error) {
	if err := requireFields(map[string]string{
		"firstName":  in.FirstName,
		"lastName":   in.LastName,
		"schoolName": in.SchoolName,
	}); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	schoolID := strings.TrimSpace(in.SchoolID)
	if schoolID == "" {
		schoolID = generateSchoolID(in.SchoolName, now)
	}

	user := s.newUser(in.Email, domain.RoleAdmin, in.FirstName, in.LastName, schoolID, now)
	user.SchoolName = in.SchoolName
	user.SchoolAddress = in.SchoolAddress
	user.SchoolPhone = in.SchoolPhone
	user.AdminTitle = in.AdminTitle

	return s.create(ctx, user)
}

func (s *UserService) RegisterParent(ctx context.Context, in ports.ParentRegistration) (*domain.User, error) {
	if err := requireFields(map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"schoolId":  in.SchoolID,
	}); err != nil {
		return nil, err
	}

	user := s.newUser(in.Email, domain.RoleParent, in.FirstName, in.LastName, in.SchoolID, s.now().UTC())
	user.ParentPhone = in.ParentPhone
	user.ParentOccupation = in.ParentOccupation
	user.EmergencyContact = in.EmergencyContact
	user.EmergencyContactPhone = in.EmergencyContactPhone
	user.RelationshipToStudent = in.RelationshipToStudent

	return s.create(ctx, user)
}

// CreateTeacher adds a teacher account to a school. Callers are expected to
// have checked that the requester is an admin.
func (s *UserService) CreateTeacher(ctx context.Context, in ports.TeacherCreation) (*domain.User, error) {
	if err := requireFields(map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"schoolId":  in.SchoolID,
	}); err != nil {
		return nil, err
	}

	user := s.newUser(in.Email, domain.RoleTeacher, in.FirstName, in.LastName, in.SchoolID, s.now().UTC())
	user.TeacherSubjects = in.TeacherSubjects
	user.TeacherQualifications = in.TeacherQualifications
	user.EmployeeID = in.EmployeeID

	return s.create(ctx, user)
}

func (s *UserService) ListTeachers(ctx context.Context, schoolID string) ([]*domain.User, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return nil, domain.ErrSchoolIDRequired
	}
	teachers, err := s.dir.ListTeachers(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}
	return s.dir.FindByEmail(ctx, email)
}

func (s *UserService) newUser(email, role, firstName, lastName, schoolID string, now time.Time) *domain.User {
	return &domain.User{
		ID:        id.New(),
		Email:     normalizeEmail(email),
		Role:      role,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		SchoolID:  strings.TrimSpace(schoolID),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *UserService) create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if validate.Var(user.Email, "required,email") != nil {
		return nil, domain.ErrInvalidEmail
	}

	created, err := s.dir.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		s.log.Error().Err(err).Str("email", user.Email).Str("role", user.Role).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Str("school_id", created.SchoolID).Msg("user created")
	return created, nil
}

// generateSchoolID builds SCH_<NAME>_<unix millis> from a school name.
func generateSchoolID(schoolName string, now time.Time) string {
	name := strings.ToUpper(strings.Join(strings.Fields(schoolName), "_"))
	return fmt.Sprintf("SCH_%s_%d", name, now.UnixMilli())
}

// requireFields returns domain.ErrMissingField listing every empty field in
// alphabetical order.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", domain.ErrMissingField, strings.Join(missing, ", "))
}
