package relay

import (
	"log/slog"
	"net"
	"time"

	"github.com/angeloszaimis/udp-relay/internal/backend"
	"github.com/angeloszaimis/udp-relay/internal/gelf"
	"github.com/angeloszaimis/udp-relay/internal/metrics"
	"github.com/angeloszaimis/udp-relay/internal/strategy"
)

// maxDatagramSize is the largest payload a UDP datagram can carry.
const maxDatagramSize = 65536

// unknownSender is logged when a receive fails before a sender address
// could be obtained.
const unknownSender = "<unknown>"

type Relay struct {
	logger           *slog.Logger
	conn             *net.UDPConn
	strategy         strategy.Strategy
	backends         []*backend.Backend
	metricsCollector *metrics.Collector
}

func New(logger *slog.Logger, conn *net.UDPConn, strat strategy.Strategy, backends []*backend.Backend, collector *metrics.Collector) *Relay {
	return &Relay{
		logger:           logger,
		conn:             conn,
		strategy:         strat,
		backends:         backends,
		metricsCollector: collector,
	}
}

// Run receives and forwards datagrams until the socket reports a receive
// failure, which is returned. The buffer is reused across iterations; the
// payload is forwarded byte for byte, never mutated.
func (r *Relay) Run() error {
	buf := make([]byte, maxDatagramSize)

	for {
		n, sender, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			r.logger.Error("Receive failed",
				slog.String("from", unknownSender),
				slog.Any("err", err))
			return err
		}

		payload := buf[:n]

		r.emitEvent(metrics.MetricEvent{
			Type:      metrics.EventPacketReceived,
			Timestamp: time.Now(),
			Bytes:     n,
		})

		// The length gate runs strictly before classification so the
		// chunk header region can never be read out of bounds.
		if n < gelf.MinDatagramLen {
			r.logger.Warn("Dropping malformed packet",
				slog.String("from", sender.String()),
				slog.Int("length", n))

			r.emitEvent(metrics.MetricEvent{
				Type:      metrics.EventPacketDropped,
				Timestamp: time.Now(),
				Reason:    metrics.DropMalformed,
			})
			continue
		}

		dest := r.strategy.SelectBackend(payload, r.backends)

		sent, err := r.conn.WriteToUDP(payload, dest.Addr())
		if err != nil || sent != n {
			r.logger.Warn("Delivery failed",
				slog.String("to", dest.Name()),
				slog.Int("received", n),
				slog.Int("sent", sent),
				slog.Any("err", err))

			dest.RecordSendError()
			r.emitEvent(metrics.MetricEvent{
				Type:      metrics.EventPacketDropped,
				Timestamp: time.Now(),
				Backend:   dest.Name(),
				Reason:    metrics.DropSendFailed,
			})
			continue
		}

		dest.RecordDelivery(n)
		r.emitEvent(metrics.MetricEvent{
			Type:      metrics.EventPacketForwarded,
			Timestamp: time.Now(),
			Backend:   dest.Name(),
			Bytes:     n,
		})
	}
}

func (r *Relay) emitEvent(event metrics.MetricEvent) {
	if r.metricsCollector == nil {
		return
	}

	select {
	case r.metricsCollector.EventChannel() <- event:
	default:
	}
}
