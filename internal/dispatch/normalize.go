// Package dispatch implements the bulk-notification pipeline: recipient
// normalization, batch scheduling with paced jittered delays, per-recipient
// retries with exponential backoff, and the orchestrating Dispatcher that
// composes them into the public SendSingle/SendBulk operations.
//
// The pipeline is strictly sequential: batches, and recipients
// within a batch, are processed one at a time so that provider rate limits
// are respected and one recipient's retries never race with another's.
package dispatch

import "strings"

// Normalize trims, lower-cases, and deduplicates raw recipient addresses,
// preserving first-occurrence order. Entries that are empty before or after
// trimming are dropped. Pure function; no side effects.
func Normalize(raw []string) []string {
	deduped := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		if r == "" {
			continue
		}
		addr := strings.ToLower(strings.TrimSpace(r))
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		deduped = append(deduped, addr)
	}

	return deduped
}
