package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventPacketReceived  EventType = "packet_received"
	EventPacketForwarded EventType = "packet_forwarded"
	EventPacketDropped   EventType = "packet_dropped"
)

// Drop reasons attached to EventPacketDropped events.
const (
	DropMalformed  = "malformed"
	DropSendFailed = "send_failed"
)

type MetricEvent struct {
	Type      EventType
	Timestamp time.Time
	Backend   string
	Bytes     int
	Reason    string
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventPacketReceived:
		c.metrics.RecordReceived(event.Bytes)

	case EventPacketForwarded:
		c.metrics.RecordForwarded(event.Backend, event.Bytes)

	case EventPacketDropped:
		c.metrics.RecordDrop(event.Reason)
		if event.Reason == DropSendFailed && event.Backend != "" {
			c.metrics.RecordSendFailure(event.Backend)
		}
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot(algorithm string) Snapshot {
	return c.metrics.Snapshot(algorithm)
}
