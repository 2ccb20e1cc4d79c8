// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tiw25999/license-plate-system/internal/auth"
	"github.com/tiw25999/license-plate-system/internal/handler/dto"
	"github.com/tiw25999/license-plate-system/internal/model"
)

// Hello is the root endpoint.
// GET /
func Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "License Plate API is running",
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// writeError writes an error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.NewErrorResponse(code, message))
}

// authContext returns the authenticated caller, or nil.
func authContext(r *http.Request) *model.AuthContext {
	return auth.AuthFromContext(r.Context())
}
