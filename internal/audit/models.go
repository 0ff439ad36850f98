package audit

import "time"

// Actions recorded by the identity and document services.
const (
	ActionRegistrationStarted = "registration_started"
	ActionUserRegistered      = "user_registered"
	ActionLoginStarted        = "login_started"
	ActionLoginSucceeded      = "login_succeeded"
	ActionDocumentAdded       = "document_added"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out. Never put OTP codes in Detail.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Phone     string    `json:"phone"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Device    string    `json:"device,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}
