package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/eductrack/eductrack-api/internal/core/domain"
)

// envelope is the base body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// userSummary is the public projection of a user record.
type userSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	SchoolID  string `json:"schoolId"`
}

func toUserSummary(u *domain.User) *userSummary {
	if u == nil {
		return nil
	}
	return &userSummary{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		SchoolID:  u.SchoolID,
	}
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Message: msg})
}
