package api

import (
	"encoding/json"
	"net/http"
	"time"

	"hosteldesk/internal/dispatch"
	"hosteldesk/internal/types"
)

// bulkSendRequest is the payload for POST /v1/notifications/bulk. Tunables
// are optional; zero values fall back to the standard campaign defaults
// (batches of 50, 30s pacing, 3 retries, 5s jitter).
type bulkSendRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1"`
	Subject    string   `json:"subject" validate:"required"`
	BodyText   string   `json:"body_text" validate:"required"`
	BodyHTML   string   `json:"body_html"`

	BatchSize        int     `json:"batch_size" validate:"omitempty,min=1"`
	BaseDelaySeconds float64 `json:"base_delay_seconds" validate:"omitempty,min=0"`
	MaxRetries       int     `json:"max_retries" validate:"omitempty,min=0"`
	JitterSeconds    float64 `json:"jitter_seconds" validate:"omitempty,min=0"`
}

// testSendRequest is the payload for POST /v1/notifications/test.
type testSendRequest struct {
	To       string `json:"to" validate:"required,email"`
	Subject  string `json:"subject" validate:"required"`
	BodyText string `json:"body_text" validate:"required"`
	BodyHTML string `json:"body_html"`
}

// handleBulkSend runs one campaign and returns its DispatchSummary. The
// request blocks until the campaign completes; per-recipient failures are
// reflected in the summary counts, not in the HTTP status.
func (s *Server) handleBulkSend(w http.ResponseWriter, r *http.Request) {
	var req bulkSendRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	summary := s.dispatcher.SendBulk(r.Context(), req.Recipients, types.Message{
		Subject:  req.Subject,
		BodyText: req.BodyText,
		BodyHTML: req.BodyHTML,
	}, dispatch.BulkOptions{
		BatchSize:  req.BatchSize,
		BaseDelay:  time.Duration(req.BaseDelaySeconds * float64(time.Second)),
		MaxRetries: req.MaxRetries,
		Jitter:     time.Duration(req.JitterSeconds * float64(time.Second)),
	})

	writeJSON(w, http.StatusOK, APIResponse{Data: summary})
}

// handleTestSend delivers a single message immediately, with no batching or
// retries. Useful for verifying provider credentials after deployment.
func (s *Server) handleTestSend(w http.ResponseWriter, r *http.Request) {
	var req testSendRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.dispatcher.SendSingle(r.Context(), req.To, types.Message{
		Subject:  req.Subject,
		BodyText: req.BodyText,
		BodyHTML: req.BodyHTML,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Data: map[string]bool{"delivered": true}})
}

// decode parses and validates a JSON request body into dst.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return types.NewAppError(types.ErrCodeValidation, "request body is not valid JSON", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return types.NewAppError(types.ErrCodeValidation, "request failed validation: "+err.Error(), err)
	}
	return nil
}
