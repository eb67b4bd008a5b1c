package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hosteldesk/internal/external"
	"hosteldesk/internal/types"
)

// Default campaign tunables.
const (
	DefaultBatchSize  = 50
	DefaultBaseDelay  = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultJitter     = 5 * time.Second
)

// BulkOptions tunes one bulk-send campaign. Zero-valued fields fall back to
// the defaults above.
type BulkOptions struct {
	BatchSize  int
	BaseDelay  time.Duration
	MaxRetries int
	Jitter     time.Duration
}

// withDefaults fills unset fields so a zero-valued BulkOptions runs the
// standard campaign: batches of 50, 30s pacing, 3 retries, 5s jitter.
func (o BulkOptions) withDefaults() BulkOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.Jitter <= 0 {
		o.Jitter = DefaultJitter
	}
	return o
}

// DefaultBulkOptions returns the standard campaign tunables.
func DefaultBulkOptions() BulkOptions {
	return BulkOptions{
		BatchSize:  DefaultBatchSize,
		BaseDelay:  DefaultBaseDelay,
		MaxRetries: DefaultMaxRetries,
		Jitter:     DefaultJitter,
	}
}

// Dispatcher composes the normalizer, batch scheduler, and retry executor
// into the public bulk-send operation. One Dispatcher serves one logical
// campaign at a time; concurrent campaigns require independent invocations,
// each accumulating its own summary. There is no cross-call coordination or
// rate-limit sharing.
type Dispatcher struct {
	provider external.MailProvider
	logger   types.Logger
	sleep    func(time.Duration)
	randByte func() byte
}

// Option is a functional option for configuring a Dispatcher.
type Option func(*Dispatcher)

// WithSleepFunc overrides the sleep function used for pacing and backoff.
// Intended for testing to avoid real delays.
func WithSleepFunc(fn func(time.Duration)) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.sleep = fn
		}
	}
}

// WithRandByteFunc overrides the uniform byte source used for pacing jitter.
// Intended for testing to make delays deterministic.
func WithRandByteFunc(fn func() byte) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.randByte = fn
		}
	}
}

// NewDispatcher creates a Dispatcher sending through the given provider.
func NewDispatcher(provider external.MailProvider, logger types.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		provider: provider,
		logger:   logger,
		sleep:    time.Sleep,
		randByte: cryptoRandByte,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SendSingle delivers one message to one recipient with no batching or
// retries. Returns nil when the provider accepted the message.
func (d *Dispatcher) SendSingle(ctx context.Context, to string, msg types.Message) error {
	return d.provider.SendOne(ctx, to, msg)
}

// SendBulk dispatches one message to many recipients: recipients are
// normalized and deduplicated, partitioned into paced batches, and sent
// individually rather than as a multi-recipient envelope, which is better
// for deliverability and isolates per-recipient failures. Each send is retried
// with exponential backoff up to opts.MaxRetries additional attempts.
//
// The call blocks until every batch completes and returns the aggregate
// summary; individual recipient failures never abort the campaign. The
// summary invariant Sent+Failed == Total == len(normalized) holds for every
// run. Error notes are collected only for permanent provider rejections.
func (d *Dispatcher) SendBulk(ctx context.Context, recipients []string, msg types.Message, opts BulkOptions) types.DispatchSummary {
	opts = opts.withDefaults()

	logger := d.logger.With("campaign_id", uuid.New().String())

	deduped := Normalize(recipients)
	summary := types.DispatchSummary{
		Total:  len(deduped),
		Errors: []string{},
	}

	logger.Info("bulk send starting",
		"recipients", len(deduped),
		"raw_recipients", len(recipients),
		"batch_size", opts.BatchSize,
		"max_retries", opts.MaxRetries,
	)

	d.forEachBatch(deduped, opts.BatchSize, opts.BaseDelay, opts.Jitter, func(batch []string) {
		for _, rcpt := range batch {
			err := d.sendWithRetries(ctx, logger, rcpt, msg, opts.MaxRetries)
			if err == nil {
				summary.Sent++
				continue
			}

			summary.Failed++
			if types.CodeOf(err) == types.ErrCodeProviderRejected {
				summary.Errors = append(summary.Errors, err.Error())
			}
		}
	})

	logger.Info("bulk send complete",
		"sent", summary.Sent,
		"failed", summary.Failed,
		"total", summary.Total,
	)

	return summary
}
