package models

import "time"

// User is the confirmed identity record, keyed by canonical E.164 phone.
// Created exactly once, when OTP verification consumes a pending registration;
// never mutated or deleted by this service afterward.
type User struct {
	Phone     string    `json:"mobile"`
	Name      string    `json:"name"`
	DOB       string    `json:"dob,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PendingRegistration holds the submitted name across the OTP round trip.
// At most one exists per phone; a restarted registration overwrites it, and a
// successful verification consumes it.
type PendingRegistration struct {
	Phone       string    `json:"mobile"`
	Name        string    `json:"name"`
	RequestedAt time.Time `json:"requestedAt"`
}
