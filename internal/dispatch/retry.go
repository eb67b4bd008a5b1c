package dispatch

import (
	"context"
	"time"

	"hosteldesk/internal/types"
)

const (
	// retryBaseDelay is the backoff before the first retry.
	retryBaseDelay = 2 * time.Second
	// retryMaxDelay caps the doubling backoff.
	retryMaxDelay = 60 * time.Second
)

// sendWithRetries wraps a single-send call with bounded exponential backoff:
// the first retry waits 2s, doubling per failed attempt up to 60s, with no
// jitter. Total attempts = maxRetries + 1. Returns nil on the first success
// and the last send error once the budget is exhausted.
//
// The retry decision is uniform: transient and permanent failures are
// retried alike up to the budget. The classification only changes how the
// attempt is logged.
func (d *Dispatcher) sendWithRetries(ctx context.Context, logger types.Logger, recipient string, msg types.Message, maxRetries int) error {
	delay := retryBaseDelay
	var lastErr error

	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		err := d.provider.SendOne(ctx, recipient, msg)
		if err == nil {
			if attempt > 1 {
				logger.Info("send recovered after retry",
					"to", recipient,
					"attempt", attempt,
				)
			}
			return nil
		}
		lastErr = err

		d.logAttempt(logger, types.SendAttempt{
			Recipient: recipient,
			Attempt:   attempt,
			Outcome:   outcomeOf(err),
			Err:       err,
		}, maxRetries+1)

		if attempt <= maxRetries {
			d.sleep(delay)
			delay *= 2
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
		}
	}

	return lastErr
}

// outcomeOf classifies a send error for attempt logging.
func outcomeOf(err error) types.SendOutcome {
	if err == nil {
		return types.OutcomeSuccess
	}
	if types.IsTransient(err) {
		return types.OutcomeTransientFailure
	}
	return types.OutcomePermanentFailure
}

// logAttempt records one failed delivery try. Transient failures log at
// Warn; permanent failures (provider rejections, relay and config errors)
// log at Error.
func (d *Dispatcher) logAttempt(logger types.Logger, att types.SendAttempt, totalAttempts int) {
	args := []any{
		"to", att.Recipient,
		"attempt", att.Attempt,
		"max_attempts", totalAttempts,
		"outcome", string(att.Outcome),
		"error", att.Err.Error(),
	}

	if att.Outcome == types.OutcomeTransientFailure {
		logger.Warn("send attempt failed", args...)
		return
	}
	logger.Error("send attempt failed", args...)
}
