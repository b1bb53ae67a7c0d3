package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mutex     sync.RWMutex
	received  int64
	bytesIn   int64
	forwarded map[string]int64
	bytesOut  map[string]int64
	failures  map[string]int64
	drops     map[string]int64
	startTime time.Time
}

type Snapshot struct {
	TotalReceived  int64                     `json:"total_received"`
	TotalForwarded int64                     `json:"total_forwarded"`
	TotalDropped   int64                     `json:"total_dropped"`
	BytesReceived  int64                     `json:"bytes_received"`
	Uptime         time.Duration             `json:"uptime"`
	Backends       map[string]BackendMetrics `json:"backends"`
	Drops          map[string]int64          `json:"drops"`
	Algorithm      string                    `json:"algorithm"`
}

type BackendMetrics struct {
	Packets    int64 `json:"packets"`
	Bytes      int64 `json:"bytes"`
	SendErrors int64 `json:"send_errors"`
}

func (m *Metrics) RecordReceived(bytes int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.received++
	m.bytesIn += int64(bytes)
}

func (m *Metrics) RecordForwarded(backend string, bytes int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.forwarded[backend]++
	m.bytesOut[backend] += int64(bytes)
}

func (m *Metrics) RecordSendFailure(backend string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failures[backend]++
}

func (m *Metrics) RecordDrop(reason string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.drops[reason]++
}

func (m *Metrics) Snapshot(algorithm string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		TotalReceived: m.received,
		BytesReceived: m.bytesIn,
		Uptime:        time.Since(m.startTime),
		Backends:      make(map[string]BackendMetrics),
		Drops:         make(map[string]int64),
		Algorithm:     algorithm,
	}

	// Collect all backends seen on either the success or failure path.
	allBackends := make(map[string]bool)
	for backend := range m.forwarded {
		allBackends[backend] = true
	}
	for backend := range m.failures {
		allBackends[backend] = true
	}

	for backend := range allBackends {
		snap.TotalForwarded += m.forwarded[backend]

		snap.Backends[backend] = BackendMetrics{
			Packets:    m.forwarded[backend],
			Bytes:      m.bytesOut[backend],
			SendErrors: m.failures[backend],
		}
	}

	for reason, count := range m.drops {
		snap.Drops[reason] = count
		snap.TotalDropped += count
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		forwarded: make(map[string]int64),
		bytesOut:  make(map[string]int64),
		failures:  make(map[string]int64),
		drops:     make(map[string]int64),
		startTime: time.Now(),
	}
}
