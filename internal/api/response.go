package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hosteldesk/internal/types"
)

// maxRequestBodySize is the maximum allowed size of a request body (1 MB).
const maxRequestBodySize = 1 << 20

// APIResponse is the standard envelope for successful responses.
type APIResponse struct {
	Data any `json:"data,omitempty"`
}

// APIErrorResponse is the standard envelope for error responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned to clients.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError translates an error chain into the error envelope. AppErrors
// map by code; anything else is a 500 with a safe generic message so
// internal details never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, statusFor(appErr.Code), APIErrorResponse{
			Error: ErrorDetail{
				Code:    string(appErr.Code),
				Message: appErr.Message,
			},
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, APIErrorResponse{
		Error: ErrorDetail{
			Code:    string(types.ErrCodeInternalUnexpected),
			Message: "an unexpected error occurred",
		},
	})
}

// statusFor maps an ErrorCode to its HTTP status.
func statusFor(code types.ErrorCode) int {
	switch code {
	case types.ErrCodeValidation, types.ErrCodeCatalogParse:
		return http.StatusBadRequest
	case types.ErrCodeUpstreamRateLimited:
		return http.StatusTooManyRequests
	case types.ErrCodeUpstreamUnavailable, types.ErrCodeProviderRejected, types.ErrCodeRelayFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
