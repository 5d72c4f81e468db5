// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse represents a structured error response returned by the API.
// The Detail field is optional and carries additional context about the error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// Error sends a structured error response with the given status code.
// The message should be a user-friendly description; detail carries the
// underlying error string when one exists.
//
// Example:
//
//	response.Error(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.Error(w, http.StatusNotFound, "resource not found", "")
func Error(w http.ResponseWriter, status int, message, detail string) {
	JSON(w, status, ErrorResponse{
		Error:  message,
		Detail: detail,
	})
}
