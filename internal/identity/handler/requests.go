package handler

import (
	"strings"

	dErrors "certvault/pkg/domain-errors"
)

// StartRegistrationRequest is the body for POST /register.
type StartRegistrationRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

func (r *StartRegistrationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Phone = strings.TrimSpace(r.Phone)
	r.Name = strings.TrimSpace(r.Name)
	if r.Phone == "" || r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name and phone required")
	}
	return nil
}

// VerifyOTPRequest is the body for POST /register/verify-otp and
// POST /login/verify-otp.
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (r *VerifyOTPRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Phone = strings.TrimSpace(r.Phone)
	r.OTP = strings.TrimSpace(r.OTP)
	if r.Phone == "" || r.OTP == "" {
		return dErrors.New(dErrors.CodeBadRequest, "phone and OTP required")
	}
	return nil
}

// StartLoginRequest is the body for POST /login.
type StartLoginRequest struct {
	Phone string `json:"phone"`
}

func (r *StartLoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Phone == "" {
		return dErrors.New(dErrors.CodeBadRequest, "phone required")
	}
	return nil
}
