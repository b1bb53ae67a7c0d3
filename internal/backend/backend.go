package backend

import (
	"net"
	"sync"
)

// Backend represents an upstream UDP destination with delivery statistics.
// The address is immutable once the backend is created.
type Backend struct {
	addr       *net.UDPAddr
	name       string
	mutex      sync.Mutex
	packets    uint64
	bytes      uint64
	sendErrors uint64
}

// Stats is a point-in-time copy of a backend's delivery counters.
type Stats struct {
	Packets    uint64
	Bytes      uint64
	SendErrors uint64
}

// Addr returns the backend's resolved UDP address.
func (b *Backend) Addr() *net.UDPAddr {
	return b.addr
}

// Name returns the backend address in host:port notation.
func (b *Backend) Name() string {
	return b.name
}

// RecordDelivery counts one successfully forwarded datagram of n bytes.
func (b *Backend) RecordDelivery(n int) {
	b.mutex.Lock()
	b.packets++
	b.bytes += uint64(n)
	b.mutex.Unlock()
}

// RecordSendError counts one failed or short send to this backend.
func (b *Backend) RecordSendError() {
	b.mutex.Lock()
	b.sendErrors++
	b.mutex.Unlock()
}

// Snapshot returns a copy of the backend's delivery counters.
func (b *Backend) Snapshot() Stats {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return Stats{
		Packets:    b.packets,
		Bytes:      b.bytes,
		SendErrors: b.sendErrors,
	}
}

// New creates a Backend for an already resolved UDP address.
func New(addr *net.UDPAddr) *Backend {
	return &Backend{
		addr: addr,
		name: addr.String(),
	}
}

// Resolve parses an "ipv4:port" string into a Backend.
func Resolve(hostport string) (*Backend, error) {
	addr, err := net.ResolveUDPAddr("udp4", hostport)
	if err != nil {
		return nil, err
	}

	return New(addr), nil
}
