package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eductrack/eductrack-api/internal/core/domain"
	"github.com/eductrack/eductrack-api/internal/core/ports"
)

type stubUserService struct {
	adminFn   func(ctx context.Context, in ports.AdminRegistration) (*domain.User, error)
	parentFn  func(ctx context.Context, in ports.ParentRegistration) (*domain.User, error)
	teacherFn func(ctx context.Context, in ports.TeacherCreation) (*domain.User, error)
	listFn    func(ctx context.Context, schoolID string) ([]*domain.User, error)
	getFn     func(ctx context.Context, email string) (*domain.User, error)
}

func (s *stubUserService) RegisterAdmin(ctx context.Context, in ports.AdminRegistration) (*domain.User, error) {
	return s.adminFn(ctx, in)
}

func (s *stubUserService) RegisterParent(ctx context.Context, in ports.ParentRegistration) (*domain.User, error) {
	return s.parentFn(ctx, in)
}

func (s *stubUserService) CreateTeacher(ctx context.Context, in ports.TeacherCreation) (*domain.User, error) {
	return s.teacherFn(ctx, in)
}

func (s *stubUserService) ListTeachers(ctx context.Context, schoolID string) ([]*domain.User, error) {
	return s.listFn(ctx, schoolID)
}

func (s *stubUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getFn(ctx, email)
}

func newValidatedContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_RegisterAdmin_Success(t *testing.T) {
	stub := &stubUserService{
		adminFn: func(_ context.Context, in ports.AdminRegistration) (*domain.User, error) {
			if in.SchoolName != "Lincoln High" || in.FirstName != "Grace" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Email: in.Email, Role: domain.RoleAdmin, SchoolID: "SCH_LINCOLN_HIGH_1"}, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodPost, "/api/auth/register-admin",
		`{"email":"grace@lincoln.edu","firstName":"Grace","lastName":"Hopper","schoolName":"Lincoln High"}`)
	if err := h.RegisterAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["success"] != true || resp["message"] != "Admin account created successfully" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["role"] != "admin" || user["schoolId"] != "SCH_LINCOLN_HIGH_1" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestUserHandler_RegisterAdmin_ValidationFailure(t *testing.T) {
	stub := &stubUserService{
		adminFn: func(context.Context, ports.AdminRegistration) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodPost, "/api/auth/register-admin", `{"email":"not-an-email","firstName":"Grace"}`)
	_ = h.RegisterAdmin(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg, _ := decode(t, rec)["message"].(string)
	for _, want := range []string{"email must be a valid email", "lastName is required", "schoolName is required"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestUserHandler_RegisterParent_Errors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrUserExists, http.StatusBadRequest, "User with this email already exists"},
		{fmt.Errorf("%w: schoolId", domain.ErrMissingField), http.StatusBadRequest, "missing required field: schoolId"},
		{errors.New("create user: mongo down"), http.StatusInternalServerError, "Registration failed"},
	}

	for _, tc := range cases {
		stub := &stubUserService{
			parentFn: func(context.Context, ports.ParentRegistration) (*domain.User, error) {
				return nil, tc.err
			},
		}
		h := NewUserHandler(stub, zerolog.Nop())

		c, rec := newValidatedContext(http.MethodPost, "/api/auth/register-parent",
			`{"email":"mum@home.net","firstName":"Ada","lastName":"Byron","schoolId":"S1"}`)
		_ = h.RegisterParent(c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if got := decode(t, rec)["message"]; got != tc.msg {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.msg, got)
		}
	}
}

func TestUserHandler_CreateTeacher_DefaultsToCallerSchool(t *testing.T) {
	stub := &stubUserService{
		teacherFn: func(_ context.Context, in ports.TeacherCreation) (*domain.User, error) {
			if in.SchoolID != "S1" {
				t.Fatalf("expected caller school, got %q", in.SchoolID)
			}
			if len(in.TeacherSubjects) != 2 {
				t.Fatalf("subjects not passed through: %+v", in.TeacherSubjects)
			}
			return &domain.User{ID: "t1", Email: in.Email, Role: domain.RoleTeacher, SchoolID: in.SchoolID}, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodPost, "/api/teachers/create",
		`{"email":"t@lincoln.edu","firstName":"Alan","lastName":"Turing","teacherSubjects":["math","cs"]}`)
	c.Set("role", domain.RoleAdmin)
	c.Set("school_id", "S1")
	if err := h.CreateTeacher(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "Teacher account created successfully" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestUserHandler_CreateTeacher_OtherSchoolForbidden(t *testing.T) {
	stub := &stubUserService{
		teacherFn: func(context.Context, ports.TeacherCreation) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodPost, "/api/teachers/create",
		`{"email":"t@other.edu","firstName":"Alan","lastName":"Turing","schoolId":"S2"}`)
	c.Set("role", domain.RoleAdmin)
	c.Set("school_id", "S1")
	_ = h.CreateTeacher(c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUserHandler_CreateTeacher_RequiresClaims(t *testing.T) {
	h := NewUserHandler(&stubUserService{}, zerolog.Nop())

	c, _ := newValidatedContext(http.MethodPost, "/api/teachers/create", `{}`)
	err := h.CreateTeacher(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_ListTeachers(t *testing.T) {
	stub := &stubUserService{
		listFn: func(_ context.Context, schoolID string) ([]*domain.User, error) {
			if schoolID != "S1" {
				t.Fatalf("unexpected school: %s", schoolID)
			}
			return []*domain.User{
				{ID: "t1", Email: "t1@s.edu", Role: domain.RoleTeacher, SchoolID: "S1"},
				{ID: "t2", Email: "t2@s.edu", Role: domain.RoleTeacher, SchoolID: "S1"},
			}, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodGet, "/api/teachers?schoolId=S1", "")
	c.Set("role", domain.RoleTeacher)
	c.Set("school_id", "S1")
	if err := h.ListTeachers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	teachers, ok := decode(t, rec)["teachers"].([]any)
	if !ok || len(teachers) != 2 {
		t.Fatalf("expected 2 teachers, got %+v", teachers)
	}
}

func TestUserHandler_ListTeachers_MissingSchool(t *testing.T) {
	h := NewUserHandler(&stubUserService{}, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodGet, "/api/teachers", "")
	c.Set("role", domain.RoleAdmin)
	_ = h.ListTeachers(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "School ID is required" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestUserHandler_GetUser(t *testing.T) {
	stub := &stubUserService{
		getFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "ada@school.edu" {
				return &domain.User{ID: "u1", Email: email, Role: domain.RoleParent, FirstName: "Ada", LastName: "Byron", SchoolID: "S1"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodGet, "/api/users/ada@school.edu", "")
	c.Set("role", domain.RoleTeacher)
	c.Set("school_id", "S1")
	c.SetParamNames("email")
	c.SetParamValues("ada@school.edu")
	_ = h.GetUser(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	user, ok := decode(t, rec)["user"].(map[string]any)
	if !ok || user["firstName"] != "Ada" || user["schoolId"] != "S1" {
		t.Fatalf("unexpected user payload: %+v", user)
	}

	c, rec = newValidatedContext(http.MethodGet, "/api/users/ghost@school.edu", "")
	c.Set("role", domain.RoleTeacher)
	c.Set("school_id", "S1")
	c.SetParamNames("email")
	c.SetParamValues("ghost@school.edu")
	_ = h.GetUser(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "User not found" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestUserHandler_GetUser_HidesOtherSchools(t *testing.T) {
	stub := &stubUserService{
		getFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, Role: domain.RoleParent, SchoolID: "S2"}, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newValidatedContext(http.MethodGet, "/api/users/ada@school.edu", "")
	c.Set("role", domain.RoleAdmin)
	c.Set("school_id", "S1")
	c.SetParamNames("email")
	c.SetParamValues("ada@school.edu")
	_ = h.GetUser(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another school's user, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "User not found" {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestUserHandler_GetUser_RequiresSession(t *testing.T) {
	h := NewUserHandler(&stubUserService{}, zerolog.Nop())

	c, _ := newValidatedContext(http.MethodGet, "/api/users/ada@school.edu", "")
	c.SetParamNames("email")
	c.SetParamValues("ada@school.edu")
	err := h.GetUser(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
