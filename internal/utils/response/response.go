// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses carry the resource itself (a record, a list of records).
// Every error response, whatever produced it, has the same shape:
//
//	{ "message": "Animal not found" }
package response

import (
	"encoding/json"
	"net/http"
)

// Message is the envelope returned for errors and bare confirmations.
type Message struct {
	Message string `json:"message"`
}

// Error builds a Message from a human-readable text.
func Error(msg string) Message {
	return Message{Message: msg}
}

// GeneralError wraps an unexpected Go error (storage failures and the like).
func GeneralError(err error) Message {
	return Message{Message: err.Error()}
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes data JSON-encoded with the given HTTP status code.
//
// Order matters: Header() then WriteHeader() then body writes. Once the
// status is written, headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError is shorthand for WriteJSON(w, status, Error(msg)).
func WriteError(w http.ResponseWriter, status int, msg string) error {
	return WriteJSON(w, status, Error(msg))
}
