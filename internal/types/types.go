// Package types holds the shared domain model for the hosteldesk messaging
// and catalog backend: the outbound message shape, dispatch outcomes, the
// error taxonomy, and the small interfaces (Logger, Clock) that the rest of
// the codebase depends on.
package types

import "time"

// Message is the content of one campaign: a subject, a plain-text body, and
// an optional HTML body. It is constructed once by the caller and shared
// read-only across every send in the campaign.
type Message struct {
	Subject  string `json:"subject" validate:"required"`
	BodyText string `json:"body_text" validate:"required"`
	BodyHTML string `json:"body_html,omitempty"`
}

// SendOutcome classifies the result of a single delivery attempt. The
// distinction between transient and permanent failures drives logging
// severity and error-summary collection only; the retry loop treats every
// failure the same way.
type SendOutcome string

const (
	OutcomeSuccess          SendOutcome = "success"
	OutcomeTransientFailure SendOutcome = "transient_failure"
	OutcomePermanentFailure SendOutcome = "permanent_failure"
)

// SendAttempt records one delivery try for a recipient. Attempts are
// transient: they exist only for the duration of the retry loop and are
// never persisted.
type SendAttempt struct {
	Recipient string
	Attempt   int // 1-based
	Outcome   SendOutcome
	Err       error
}

// DispatchSummary is the aggregate result of one bulk send. It is built
// incrementally by the dispatcher and immutable once returned.
//
// Errors holds human-readable notes for permanent provider rejections only;
// transient failures that exhaust their retry budget are counted in Failed
// but produce no entry here.
type DispatchSummary struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Total  int      `json:"total"`
	Errors []string `json:"errors"`
}

// SenderIdentity is the configured From identity applied to every outbound
// message.
type SenderIdentity struct {
	Email string
	Name  string
}

// BookRecord is one row of the catalog import: a normalized book document
// ready for upsert. Price is nil when the source cell was absent or not
// numeric.
type BookRecord struct {
	BookID string
	Title  string
	Author string
	Price  *float64
}

// ImportSummary is the aggregate result of one catalog import run.
type ImportSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// Logger defines the structured logging interface used throughout the
// codebase. cmd/ entrypoints adapt *slog.Logger to this interface.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }
