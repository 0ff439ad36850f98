package handler

import (
	docmodels "certvault/internal/document/models"
	"certvault/internal/identity/models"
	"certvault/internal/identity/service"
)

// OTPSentResponse answers both challenge-start endpoints with the provider's
// reported delivery status.
type OTPSentResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// RegistrationResponse is the body for a completed registration.
type RegistrationResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
}

// LoginResponse carries the identity, its certificate list and the session
// token for a completed login.
type LoginResponse struct {
	Message   string                     `json:"message"`
	Name      string                     `json:"name"`
	Phone     string                     `json:"phone"`
	Documents []docmodels.StoredDocument `json:"documents"`
	Token     string                     `json:"token"`
}

// UserResponse is the body for GET /user/{mobile}.
type UserResponse struct {
	Status string      `json:"status"`
	User   models.User `json:"user"`
}

func loginResponse(result service.LoginResult) LoginResponse {
	if result.Documents == nil {
		result.Documents = []docmodels.StoredDocument{}
	}
	return LoginResponse{
		Message:   "Login successful",
		Name:      result.User.Name,
		Phone:     result.User.Phone,
		Documents: result.Documents,
		Token:     result.Token,
	}
}
