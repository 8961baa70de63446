package handler

import "github.com/eductrack/eductrack-api/internal/core/domain"

type sendOTPRequest struct {
	Email     string `json:"email" example:"parent@school.edu"`
	Role      string `json:"role" example:"parent" enums:"admin,teacher,parent"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	SchoolID  string `json:"schoolId,omitempty"`
}

type sendOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// OTP is only present when dev echo is enabled outside production.
	OTP string `json:"otp,omitempty"`
}

type verifyOTPRequest struct {
	Email string `json:"email" example:"parent@school.edu"`
	OTP   string `json:"otp" example:"493027"`
}

type verifyOTPResponse struct {
	Success        bool                   `json:"success"`
	Message        string                 `json:"message"`
	User           *userSummary           `json:"user"`
	Token          string                 `json:"token,omitempty"`
	PendingProfile *domain.PendingProfile `json:"pendingProfile,omitempty"`
}
