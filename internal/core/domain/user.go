package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrForbidden        = errors.New("access forbidden")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidRole      = errors.New("invalid role")
	ErrSchoolIDRequired = errors.New("school ID is required")
	ErrMissingField     = errors.New("missing required field")
)

// ValidRole reports whether role is one of the three supported roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleParent:
		return true
	}
	return false
}

// User models a member of a school tenant.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Role      string    `json:"role" bson:"role"`
	FirstName string    `json:"firstName" bson:"first_name"`
	LastName  string    `json:"lastName" bson:"last_name"`
	SchoolID  string    `json:"schoolId" bson:"school_id"`
	IsActive  bool      `json:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`

	// admin
	SchoolName    string `json:"schoolName,omitempty" bson:"school_name,omitempty"`
	SchoolAddress string `json:"schoolAddress,omitempty" bson:"school_address,omitempty"`
	SchoolPhone   string `json:"schoolPhone,omitempty" bson:"school_phone,omitempty"`
	AdminTitle    string `json:"adminTitle,omitempty" bson:"admin_title,omitempty"`

	// parent
	ParentPhone           string `json:"parentPhone,omitempty" bson:"parent_phone,omitempty"`
	ParentOccupation      string `json:"parentOccupation,omitempty" bson:"parent_occupation,omitempty"`
	EmergencyContact      string `json:"emergencyContact,omitempty" bson:"emergency_contact,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty" bson:"emergency_contact_phone,omitempty"`
	RelationshipToStudent string `json:"relationshipToStudent,omitempty" bson:"relationship_to_student,omitempty"`

	// teacher
	TeacherSubjects       []string `json:"teacherSubjects,omitempty" bson:"teacher_subjects,omitempty"`
	TeacherQualifications string   `json:"teacherQualifications,omitempty" bson:"teacher_qualifications,omitempty"`
	EmployeeID            string   `json:"employeeId,omitempty" bson:"employee_id,omitempty"`
}
