package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eductrack/eductrack-api/internal/core/domain"
	"github.com/eductrack/eductrack-api/internal/core/ports"
)

// UserHandler serves the registration and directory lookup endpoints.
type UserHandler struct {
	users ports.UserService
	log   zerolog.Logger
}

func NewUserHandler(users ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// RegisterAdmin creates a school administrator account.
//
// @Summary      Register an admin
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      registerAdminRequest  true  "Admin and school details"
// @Success      200   {object}  registrationResponse
// @Failure      400   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /api/auth/register-admin [post]
func (h *UserHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.users.RegisterAdmin(c.Request().Context(), ports.AdminRegistration{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		SchoolID:      req.SchoolID,
		SchoolName:    req.SchoolName,
		SchoolAddress: req.SchoolAddress,
		SchoolPhone:   req.SchoolPhone,
		AdminTitle:    req.AdminTitle,
	})
	if err != nil {
		return h.registrationFailed(c, err, "Registration failed")
	}
	return c.JSON(http.StatusOK, registered(user, "Admin account created successfully"))
}

// RegisterParent creates a parent account in an existing school.
//
// @Summary      Register a parent
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      registerParentRequest  true  "Parent details"
// @Success      200   {object}  registrationResponse
// @Failure      400   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /api/auth/register-parent [post]
func (h *UserHandler) RegisterParent(c echo.Context) error {
	var req registerParentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.users.RegisterParent(c.Request().Context(), ports.ParentRegistration{
		Email:                 req.Email,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		SchoolID:              req.SchoolID,
		ParentPhone:           req.ParentPhone,
		ParentOccupation:      req.ParentOccupation,
		EmergencyContact:      req.EmergencyContact,
		EmergencyContactPhone: req.EmergencyContactPhone,
		RelationshipToStudent: req.RelationshipToStudent,
	})
	if err != nil {
		return h.registrationFailed(c, err, "Registration failed")
	}
	return c.JSON(http.StatusOK, registered(user, "Parent account created successfully"))
}

// CreateTeacher lets an admin add a teacher to their school.
//
// @Summary      Create a teacher
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTeacherRequest  true  "Teacher details"
// @Success      200   {object}  registrationResponse
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /api/teachers/create [post]
func (h *UserHandler) CreateTeacher(c echo.Context) error {
	_, callerSchool, err := ctxSchool(c)
	if err != nil {
		return err
	}

	var req createTeacherRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if req.SchoolID != "" && !sameSchool(callerSchool, req.SchoolID) {
		return fail(c, http.StatusForbidden, "access forbidden")
	}
	if req.SchoolID == "" {
		req.SchoolID = callerSchool
	}

	user, err := h.users.CreateTeacher(c.Request().Context(), ports.TeacherCreation{
		Email:                 req.Email,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		SchoolID:              req.SchoolID,
		TeacherSubjects:       req.TeacherSubjects,
		TeacherQualifications: req.TeacherQualifications,
		EmployeeID:            req.EmployeeID,
	})
	if err != nil {
		return h.registrationFailed(c, err, "Teacher creation failed")
	}
	return c.JSON(http.StatusOK, registered(user, "Teacher account created successfully"))
}

// ListTeachers returns the active teachers of a school.
//
// @Summary      List teachers
// @Tags         teachers
// @Produce      json
// @Security     BearerAuth
// @Param        schoolId  query     string  true  "School ID"
// @Success      200       {object}  teacherListResponse
// @Failure      400       {object}  envelope
// @Failure      401       {object}  envelope
// @Failure      403       {object}  envelope
// @Failure      500       {object}  envelope
// @Router       /api/teachers [get]
func (h *UserHandler) ListTeachers(c echo.Context) error {
	_, callerSchool, err := ctxSchool(c)
	if err != nil {
		return err
	}

	schoolID := strings.TrimSpace(c.QueryParam("schoolId"))
	if schoolID == "" {
		return fail(c, http.StatusBadRequest, "School ID is required")
	}
	if !sameSchool(callerSchool, schoolID) {
		return fail(c, http.StatusForbidden, "access forbidden")
	}

	teachers, err := h.users.ListTeachers(c.Request().Context(), schoolID)
	if err != nil {
		if errors.Is(err, domain.ErrSchoolIDRequired) {
			return fail(c, http.StatusBadRequest, "School ID is required")
		}
		h.log.Error().Err(err).Str("school_id", schoolID).Msg("list teachers failed")
		return fail(c, http.StatusInternalServerError, "Failed to fetch teachers")
	}

	out := make([]*userSummary, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, toUserSummary(t))
	}
	return c.JSON(http.StatusOK, teacherListResponse{Success: true, Teachers: out})
}

// GetUser looks a user up by email.
//
// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email address"
// @Success      200    {object}  userResponse
// @Failure      401    {object}  envelope
// @Failure      404    {object}  envelope
// @Failure      500    {object}  envelope
// @Router       /api/users/{email} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	_, callerSchool, err := ctxSchool(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidEmail):
			return fail(c, http.StatusNotFound, "User not found")
		}
		h.log.Error().Err(err).Msg("get user failed")
		return fail(c, http.StatusInternalServerError, "Failed to fetch user")
	}
	// Users of other schools are reported as absent.
	if !sameSchool(callerSchool, user.SchoolID) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: toUserSummary(user)})
}

func (h *UserHandler) registrationFailed(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return fail(c, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, domain.ErrInvalidEmail):
		return fail(c, http.StatusBadRequest, "Invalid email address")
	case errors.Is(err, domain.ErrMissingField):
		return fail(c, http.StatusBadRequest, err.Error())
	}
	h.log.Error().Err(err).Msg("registration failed")
	return fail(c, http.StatusInternalServerError, fallback)
}

func registered(u *domain.User, msg string) registrationResponse {
	return registrationResponse{
		Success: true,
		Message: msg,
		User: accountRef{
			ID:       u.ID,
			Email:    u.Email,
			Role:     u.Role,
			SchoolID: u.SchoolID,
		},
	}
}
