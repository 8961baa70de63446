package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eductrack/eductrack-api/internal/api/middleware"
)

// ctxSchool returns the school the caller belongs to, as injected by the
// Auth middleware. An empty role means the middleware did not run.
func ctxSchool(c echo.Context) (role, schoolID string, err error) {
	role, _ = c.Get(middleware.KeyRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	schoolID, _ = c.Get(middleware.KeySchoolID).(string)
	return role, schoolID, nil
}

// sameSchool reports whether a caller bound to callerSchool may act on
// target. Tokens without a school are not restricted.
func sameSchool(callerSchool, target string) bool {
	return callerSchool == "" || callerSchool == target
}
