package external

import (
	"context"

	"hosteldesk/internal/types"
)

// MailProvider abstracts the "send one message" capability implemented once
// per transport. Implementations return nil on acceptance by the provider
// and a *types.AppError on failure. Callers above the provider treat any
// error as a plain failure; the transient/permanent distinction carried in
// the error code drives logging severity and error-summary collection only.
type MailProvider interface {
	// SendOne delivers msg to a single recipient. One outbound call per
	// invocation; no local state is mutated.
	SendOne(ctx context.Context, recipient string, msg types.Message) error
}
