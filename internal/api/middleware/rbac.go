package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type forbiddenBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RBAC admits callers whose session role is one of roles. It must run after
// Auth.
func RBAC(roles ...string) echo.MiddlewareFunc {
	permitted := make(map[string]bool, len(roles))
	for _, r := range roles {
		permitted[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role, _ := c.Get(KeyRole).(string); !permitted[role] {
				return c.JSON(http.StatusForbidden, forbiddenBody{Message: "access forbidden"})
			}
			return next(c)
		}
	}
}
