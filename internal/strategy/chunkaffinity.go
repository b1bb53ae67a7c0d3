package strategy

import (
	"github.com/angeloszaimis/udp-relay/internal/backend"
	"github.com/angeloszaimis/udp-relay/internal/gelf"
)

type chunkAffinityStrategy struct {
	fallback Strategy
}

// SelectBackend routes chunked GELF fragments by their message ID hash so
// all fragments of one message reach the same backend, which performs the
// reassembly. Non-chunk payloads are delegated to the fallback strategy;
// only that path advances the fallback's counter state.
func (s *chunkAffinityStrategy) SelectBackend(payload []byte, backends []*backend.Backend) *backend.Backend {
	if len(backends) == 0 {
		return nil
	}

	if !gelf.IsChunk(payload) {
		return s.fallback.SelectBackend(payload, backends)
	}

	index := uint64(gelf.Hash8(gelf.MessageID(payload))) % uint64(len(backends))

	return backends[index]
}

func NewChunkAffinityStrategy(fallback Strategy) Strategy {
	return &chunkAffinityStrategy{
		fallback: fallback,
	}
}
