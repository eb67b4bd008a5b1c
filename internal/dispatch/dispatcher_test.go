package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hosteldesk/internal/types"
)

// nopLogger discards everything. Shared by the tests in this package.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)        {}
func (nopLogger) Warn(string, ...any)        {}
func (nopLogger) Error(string, ...any)       {}
func (l nopLogger) With(...any) types.Logger { return l }

// scriptedProvider fails the first failures[recipient] calls for a recipient
// with err, then succeeds. It records every call in order.
type scriptedProvider struct {
	failures map[string]int
	err      error
	calls    []string
	attempts map[string]int
}

func newScriptedProvider(failures map[string]int, err error) *scriptedProvider {
	return &scriptedProvider{
		failures: failures,
		err:      err,
		attempts: make(map[string]int),
	}
}

func (p *scriptedProvider) SendOne(_ context.Context, recipient string, _ types.Message) error {
	p.calls = append(p.calls, recipient)
	p.attempts[recipient]++
	if p.attempts[recipient] <= p.failures[recipient] {
		return p.err
	}
	return nil
}

// newTestDispatcher builds a dispatcher with sleeping disabled and a fixed
// jitter byte, recording every requested sleep in the returned slice.
func newTestDispatcher(provider *scriptedProvider) (*Dispatcher, *[]time.Duration) {
	var sleeps []time.Duration
	d := NewDispatcher(provider, nopLogger{},
		WithSleepFunc(func(dur time.Duration) { sleeps = append(sleeps, dur) }),
		WithRandByteFunc(func() byte { return 0 }),
	)
	return d, &sleeps
}

func TestSendBulkAllSucceed(t *testing.T) {
	provider := newScriptedProvider(nil, nil)
	d, _ := newTestDispatcher(provider)

	summary := d.SendBulk(context.Background(), []string{"A@x.com", " a@x.com ", "", "b@x.com"}, types.Message{
		Subject:  "hello",
		BodyText: "body",
	}, BulkOptions{})

	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Total)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, provider.calls)
}

func TestSendBulkCountsExhaustedTransientFailures(t *testing.T) {
	transient := types.NewAppError(types.ErrCodeUpstreamRateLimited, "rate limited", nil)
	provider := newScriptedProvider(map[string]int{
		"a@x.com": 99,
		"b@x.com": 99,
	}, transient)
	d, _ := newTestDispatcher(provider)

	summary := d.SendBulk(context.Background(), []string{"a@x.com", "b@x.com"}, types.Message{
		Subject:  "s",
		BodyText: "b",
	}, BulkOptions{MaxRetries: 1})

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 2, summary.Total)

	// Transient exhaustion is counted but never noted in Errors.
	assert.Empty(t, summary.Errors)

	// 2 attempts per recipient: initial try plus one retry.
	assert.Equal(t, 2, provider.attempts["a@x.com"])
	assert.Equal(t, 2, provider.attempts["b@x.com"])
}

func TestSendBulkCollectsPermanentRejections(t *testing.T) {
	rejected := types.NewAppError(types.ErrCodeProviderRejected, "brevo send failed (400): bad address", nil)
	provider := newScriptedProvider(map[string]int{"bad@x.com": 99}, rejected)
	d, _ := newTestDispatcher(provider)

	summary := d.SendBulk(context.Background(), []string{"good@x.com", "bad@x.com"}, types.Message{
		Subject:  "s",
		BodyText: "b",
	}, BulkOptions{MaxRetries: 1})

	require.Equal(t, 1, summary.Sent)
	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 2, summary.Total)

	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "brevo send failed (400)")
}

func TestSendBulkSummaryInvariant(t *testing.T) {
	failure := types.NewAppError(types.ErrCodeRelayFailure, "relay submission failed", nil)
	provider := newScriptedProvider(map[string]int{
		"b@x.com": 99,
		"d@x.com": 1, // recovers on the retry
	}, failure)
	d, _ := newTestDispatcher(provider)

	summary := d.SendBulk(context.Background(),
		[]string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"},
		types.Message{Subject: "s", BodyText: "b"},
		BulkOptions{MaxRetries: 2},
	)

	assert.Equal(t, summary.Total, summary.Sent+summary.Failed)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
}

func TestSendBulkEmptyAfterNormalization(t *testing.T) {
	provider := newScriptedProvider(nil, nil)
	d, sleeps := newTestDispatcher(provider)

	summary := d.SendBulk(context.Background(), []string{"", "   ", ""}, types.Message{
		Subject:  "s",
		BodyText: "b",
	}, BulkOptions{})

	assert.Equal(t, types.DispatchSummary{Sent: 0, Failed: 0, Total: 0, Errors: []string{}}, summary)
	assert.Empty(t, provider.calls)
	assert.Empty(t, *sleeps)
}

func TestSendBulkErrorsFieldIsNeverNil(t *testing.T) {
	provider := newScriptedProvider(nil, nil)
	d, _ := newTestDispatcher(provider)

	summary := d.SendBulk(context.Background(), []string{"a@x.com"}, types.Message{
		Subject:  "s",
		BodyText: "b",
	}, BulkOptions{})

	require.NotNil(t, summary.Errors)
	assert.Empty(t, summary.Errors)
}

func TestSendSingleDelegatesToProvider(t *testing.T) {
	sendErr := errors.New("boom")
	provider := newScriptedProvider(map[string]int{"a@x.com": 1}, sendErr)
	d, sleeps := newTestDispatcher(provider)

	err := d.SendSingle(context.Background(), "a@x.com", types.Message{Subject: "s", BodyText: "b"})

	// No retries, no sleeps: the provider error comes straight back.
	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, []string{"a@x.com"}, provider.calls)
	assert.Empty(t, *sleeps)
}

func TestBulkOptionsDefaults(t *testing.T) {
	got := BulkOptions{}.withDefaults()
	assert.Equal(t, DefaultBulkOptions(), got)

	explicit := BulkOptions{BatchSize: 10, BaseDelay: time.Second, MaxRetries: 1, Jitter: time.Second}
	assert.Equal(t, explicit, explicit.withDefaults())
}
