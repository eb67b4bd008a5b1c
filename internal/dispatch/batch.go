package dispatch

import (
	"crypto/rand"
	"time"
)

// cryptoRandByte draws one uniform byte from crypto/rand. Uniformity is the
// only property the pacing jitter needs. A read failure falls back to the
// midpoint, which yields zero jitter.
func cryptoRandByte() byte {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 128
	}
	return b[0]
}

// pacingDelay computes the inter-batch pause: baseDelay plus a jitter offset
// of up to ±jitter/2, clamped to a minimum of zero. The offset is
// jitter * (0.5 − b/255) for a uniform byte b, so the delay is centered on
// baseDelay.
func (d *Dispatcher) pacingDelay(baseDelay, jitter time.Duration) time.Duration {
	b := d.randByte()
	offset := float64(jitter) * (0.5 - float64(b)/255.0)
	delay := baseDelay + time.Duration(offset)
	if delay < 0 {
		return 0
	}
	return delay
}

// forEachBatch partitions list into contiguous slices of at most batchSize
// elements, invoking onBatch for each in original order. After every batch
// except the last it sleeps for a jittered pacing delay; no pause follows
// the final batch.
func (d *Dispatcher) forEachBatch(list []string, batchSize int, baseDelay, jitter time.Duration, onBatch func(batch []string)) {
	for i := 0; i < len(list); i += batchSize {
		end := i + batchSize
		if end > len(list) {
			end = len(list)
		}

		onBatch(list[i:end])

		if end < len(list) {
			d.sleep(d.pacingDelay(baseDelay, jitter))
		}
	}
}
