// Package response writes the flat JSON shapes the commandes API speaks:
// `{"token":...}`, `{"success":true}`, `{"error":"..."}` and raw documents.
// The shapes are part of the public contract consumed by the storefront,
// so there is no envelope.
package response

import (
	"encoding/json"
	"net/http"
)

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends any payload with the given status code.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	write(w, status, body)
}

// Success sends a 200 `{"success":true}`.
func Success(w http.ResponseWriter) {
	write(w, http.StatusOK, map[string]bool{"success": true})
}

// Created sends a 201 `{"success":true}`.
func Created(w http.ResponseWriter) {
	write(w, http.StatusCreated, map[string]bool{"success": true})
}

// Error sends `{"error": message}` with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"error": message})
}

// FieldErrors sends a 400 with a per-field violation map alongside the
// top-level error message.
func FieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	write(w, http.StatusBadRequest, map[string]interface{}{
		"error":  message,
		"fields": fields,
	})
}

// ServerError sends the generic 500. Store detail stays in the logs.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Erreur serveur")
}
