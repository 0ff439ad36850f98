// Package shared centralizes the JSON envelopes handlers write so error
// translation stays consistent across the identity and document surfaces.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "certvault/pkg/domain-errors"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Plain
// errors are treated as internal so infrastructure details never reach callers.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	status := http.StatusInternalServerError
	code := string(dErrors.CodeInternal)
	message := "server error"
	if errors.As(err, &de) {
		status = dErrors.ToHTTPStatus(de.Code)
		code = string(de.Code)
		message = de.Message
	}
	WriteJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
