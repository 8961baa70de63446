package handler

type registerAdminRequest struct {
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"firstName" validate:"required,max=100"`
	LastName      string `json:"lastName" validate:"required,max=100"`
	SchoolID      string `json:"schoolId,omitempty"`
	SchoolName    string `json:"schoolName" validate:"required,max=200"`
	SchoolAddress string `json:"schoolAddress,omitempty"`
	SchoolPhone   string `json:"schoolPhone,omitempty"`
	AdminTitle    string `json:"adminTitle,omitempty"`
}

type registerParentRequest struct {
	Email                 string `json:"email" validate:"required,email"`
	FirstName             string `json:"firstName" validate:"required,max=100"`
	LastName              string `json:"lastName" validate:"required,max=100"`
	SchoolID              string `json:"schoolId" validate:"required"`
	ParentPhone           string `json:"parentPhone,omitempty"`
	ParentOccupation      string `json:"parentOccupation,omitempty"`
	EmergencyContact      string `json:"emergencyContact,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`
	RelationshipToStudent string `json:"relationshipToStudent,omitempty"`
}

type createTeacherRequest struct {
	Email                 string   `json:"email" validate:"required,email"`
	FirstName             string   `json:"firstName" validate:"required,max=100"`
	LastName              string   `json:"lastName" validate:"required,max=100"`
	SchoolID              string   `json:"schoolId,omitempty"`
	TeacherSubjects       []string `json:"teacherSubjects,omitempty" validate:"omitempty,dive,required"`
	TeacherQualifications string   `json:"teacherQualifications,omitempty"`
	EmployeeID            string   `json:"employeeId,omitempty"`
}

// accountRef is the slim user payload returned after registration.
type accountRef struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	SchoolID string `json:"schoolId"`
}

type registrationResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    accountRef `json:"user"`
}

type teacherListResponse struct {
	Success  bool           `json:"success"`
	Teachers []*userSummary `json:"teachers"`
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *userSummary `json:"user"`
}
