package external

import (
	"context"

	"hosteldesk/internal/types"
)

// StubMailProvider is a no-op MailProvider for dry runs and local
// development. It logs each would-be send and reports success.
type StubMailProvider struct {
	logger types.Logger
}

// NewStubMailProvider creates a stub provider that logs sends to the given
// logger.
func NewStubMailProvider(logger types.Logger) *StubMailProvider {
	return &StubMailProvider{logger: logger}
}

// SendOne logs the send and succeeds.
func (s *StubMailProvider) SendOne(ctx context.Context, recipient string, msg types.Message) error {
	s.logger.Info("stub provider: send suppressed",
		"to", recipient,
		"subject", msg.Subject,
	)
	return nil
}

// Compile-time assertion that StubMailProvider satisfies MailProvider.
var _ MailProvider = (*StubMailProvider)(nil)
