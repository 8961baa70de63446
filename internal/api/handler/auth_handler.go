package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eductrack/eductrack-api/internal/core/domain"
	"github.com/eductrack/eductrack-api/internal/core/ports"
	"github.com/eductrack/eductrack-api/internal/metrics"
)

const (
	msgOTPSent         = "OTP sent successfully"
	msgOTPVerified     = "OTP verified successfully"
	msgEmailRoleNeeded = "Email and role are required"
	msgEmailOTPNeeded  = "Email and OTP are required"
	msgOTPNotFound     = "OTP not found or expired"
	msgOTPExpired      = "OTP has expired"
	msgOTPInvalid      = "Invalid OTP"
	msgOTPLocked       = "Too many invalid attempts"
)

type AuthHandler struct {
	otp     ports.OTPService
	tokens  ports.TokenIssuer
	echoOTP bool
	log     zerolog.Logger
}

// NewAuthHandler wires the OTP endpoints. echoOTP adds the issued code to the
// send-otp response and must be false in production.
func NewAuthHandler(otp ports.OTPService, tokens ports.TokenIssuer, echoOTP bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{otp: otp, tokens: tokens, echoOTP: echoOTP, log: log}
}

// SendOTP issues a login code and emails it.
//
// @Summary      Request a login code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendOTPRequest  true  "Recipient and role"
// @Success      200   {object}  sendOTPResponse
// @Failure      400   {object}  envelope
// @Failure      429   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /api/auth/send-otp [post]
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req sendOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	req.Role = strings.TrimSpace(req.Role)
	if strings.TrimSpace(req.Email) == "" || req.Role == "" {
		return fail(c, http.StatusBadRequest, msgEmailRoleNeeded)
	}

	profile := &domain.PendingProfile{
		Role:      req.Role,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		SchoolID:  strings.TrimSpace(req.SchoolID),
	}

	code, err := h.otp.RequestCode(c.Request().Context(), req.Email, req.Role, profile)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			return fail(c, http.StatusBadRequest, "Invalid email address")
		case errors.Is(err, domain.ErrInvalidRole):
			return fail(c, http.StatusBadRequest, "Role must be one of: admin, teacher, parent")
		}
		h.log.Error().Err(err).Str("role", req.Role).Msg("send otp failed")
		return fail(c, http.StatusInternalServerError, "Failed to send OTP")
	}

	metrics.OTPRequestsTotal.WithLabelValues(req.Role).Inc()

	resp := sendOTPResponse{Success: true, Message: msgOTPSent}
	if h.echoOTP {
		resp.OTP = code
	}
	return c.JSON(http.StatusOK, resp)
}

// VerifyOTP checks a login code. On success it returns the user record, or
// null plus the pending profile when the email has not registered yet.
//
// @Summary      Verify a login code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and code"
// @Success      200   {object}  verifyOTPResponse
// @Failure      400   {object}  envelope
// @Failure      429   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /api/auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	req.OTP = strings.TrimSpace(req.OTP)
	if strings.TrimSpace(req.Email) == "" || req.OTP == "" {
		return fail(c, http.StatusBadRequest, msgEmailOTPNeeded)
	}

	result, err := h.otp.VerifyCode(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		status, msg, label := verifyFailure(err)
		metrics.OTPVerificationsTotal.WithLabelValues(label).Inc()
		if status == http.StatusInternalServerError {
			h.log.Error().Err(err).Msg("verify otp failed")
		}
		return fail(c, status, msg)
	}

	resp := verifyOTPResponse{
		Success: true,
		Message: msgOTPVerified,
		User:    toUserSummary(result.User),
	}
	if result.User != nil {
		token, err := h.tokens.Issue(result.User)
		if err != nil {
			metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
			h.log.Error().Err(err).Str("user_id", result.User.ID).Msg("issue session token failed")
			return fail(c, http.StatusInternalServerError, "Failed to verify OTP")
		}
		resp.Token = token
	} else {
		resp.PendingProfile = result.Profile
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, resp)
}

// verifyFailure maps a verification error to status, wire message and metric label.
func verifyFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		return http.StatusBadRequest, msgOTPNotFound, "not_found"
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusBadRequest, msgOTPExpired, "expired"
	case errors.Is(err, domain.ErrOTPInvalid):
		return http.StatusBadRequest, msgOTPInvalid, "invalid"
	case errors.Is(err, domain.ErrOTPAttemptsExceeded):
		return http.StatusBadRequest, msgOTPLocked, "locked"
	case errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest, msgEmailOTPNeeded, "invalid"
	}
	return http.StatusInternalServerError, "Failed to verify OTP", "error"
}
