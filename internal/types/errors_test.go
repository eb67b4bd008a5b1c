package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorFormatting(t *testing.T) {
	underlying := errors.New("dial tcp: connection refused")
	err := NewAppError(ErrCodeUpstreamUnavailable, "upstream request failed", underlying)

	if got := err.Error(); got != "upstream_unavailable: upstream request failed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"direct app error", NewAppError(ErrCodeProviderRejected, "rejected", nil), ErrCodeProviderRejected},
		{"wrapped app error", fmt.Errorf("send: %w", NewAppError(ErrCodeUpstreamRateLimited, "limited", nil)), ErrCodeUpstreamRateLimited},
		{"plain error", errors.New("boom"), ErrCodeInternalUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeUpstreamRateLimited, true},
		{ErrCodeUpstreamUnavailable, true},
		{ErrCodeProviderRejected, false},
		{ErrCodeRelayFailure, false},
		{ErrCodeConfigMissing, false},
		{ErrCodeInternalUnexpected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewAppError(tt.code, "x", nil)
			if got := IsTransient(err); got != tt.want {
				t.Errorf("IsTransient(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
