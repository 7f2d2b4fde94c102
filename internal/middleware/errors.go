package middleware

import (
	"encoding/json"
	"net/http"
)

// Error codes shared by middleware and handlers in the JSON error envelope.
const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeUnauthorized    = "unauthorized"
	CodeConflict        = "conflict"
	CodeRateLimited     = "rate_limited"
	CodePayloadTooLarge = "payload_too_large"
	CodeInternal        = "internal_error"
)

// ErrorBody is the JSON envelope for every error response:
//
//	{"error":{"code":"not_found","message":"trip not found"}}
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes status and the error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}
