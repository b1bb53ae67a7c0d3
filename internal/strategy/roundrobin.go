package strategy

import (
	"sync/atomic"

	"github.com/angeloszaimis/udp-relay/internal/backend"
)

type roundRobinStrategy struct {
	current uint64
}

// SelectBackend picks the next backend in arrival order. The counter is
// atomic so multiple relay loops over SO_REUSEPORT listeners share one
// round robin sequence. Wraparound after 2^64 datagrams restarts the cycle.
func (rr *roundRobinStrategy) SelectBackend(_ []byte, backends []*backend.Backend) *backend.Backend {
	if len(backends) == 0 {
		return nil
	}

	n := atomic.AddUint64(&rr.current, 1)

	index := (n - 1) % uint64(len(backends))

	return backends[index]
}

func NewRoundRobinStrategy() Strategy {
	return &roundRobinStrategy{
		current: 0,
	}
}
