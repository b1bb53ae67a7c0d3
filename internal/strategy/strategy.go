package strategy

import (
	"github.com/angeloszaimis/udp-relay/internal/backend"
)

type Strategy interface {
	SelectBackend(payload []byte, backends []*backend.Backend) *backend.Backend
}
