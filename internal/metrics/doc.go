// Package metrics provides real-time metrics collection for the relay.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Received, forwarded and dropped datagram counts
//   - Per-backend packet and byte counts
//   - Drop counts broken down by reason
//
// The collector runs in a dedicated goroutine and processes events without
// blocking the relay loop. Events are sent via a buffered channel with
// non-blocking semantics; under overload events are discarded rather than
// stalling packet forwarding.
package metrics
