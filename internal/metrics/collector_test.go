package metrics_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/udp-relay/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError, // Suppress logs in tests
		}))
		ctx, cancel = context.WithCancel(context.Background())
		collector = metrics.NewCollector(100, log)
	})

	AfterEach(func() {
		cancel()
		time.Sleep(10 * time.Millisecond) // Allow goroutine to finish
	})

	Describe("NewCollector", func() {
		It("should create a collector with specified buffer size", func() {
			c := metrics.NewCollector(500, log)
			Expect(c).NotTo(BeNil())
		})
	})

	Describe("Start and event processing", func() {
		It("should process EventPacketReceived", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.MetricEvent{
				Type:      metrics.EventPacketReceived,
				Timestamp: time.Now(),
				Bytes:     512,
			}

			Eventually(func() int64 {
				return collector.Snapshot("round-robin").TotalReceived
			}).Should(Equal(int64(1)))
			Expect(collector.Snapshot("round-robin").BytesReceived).To(Equal(int64(512)))
		})

		It("should process EventPacketForwarded", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.MetricEvent{
				Type:      metrics.EventPacketForwarded,
				Timestamp: time.Now(),
				Backend:   "127.0.0.1:12201",
				Bytes:     100,
			}

			Eventually(func() int64 {
				return collector.Snapshot("round-robin").Backends["127.0.0.1:12201"].Packets
			}).Should(Equal(int64(1)))
		})

		It("should process EventPacketDropped with a send failure", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.MetricEvent{
				Type:      metrics.EventPacketDropped,
				Timestamp: time.Now(),
				Backend:   "127.0.0.1:12201",
				Reason:    metrics.DropSendFailed,
			}

			Eventually(func() int64 {
				return collector.Snapshot("round-robin").Drops[metrics.DropSendFailed]
			}).Should(Equal(int64(1)))
			Expect(collector.Snapshot("round-robin").Backends["127.0.0.1:12201"].SendErrors).To(Equal(int64(1)))
		})

		It("should process EventPacketDropped for malformed packets", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.MetricEvent{
				Type:      metrics.EventPacketDropped,
				Timestamp: time.Now(),
				Reason:    metrics.DropMalformed,
			}

			Eventually(func() int64 {
				return collector.Snapshot("round-robin").Drops[metrics.DropMalformed]
			}).Should(Equal(int64(1)))
		})

		It("should drain events on context cancellation", func() {
			collector.Start(ctx)

			for i := 0; i < 5; i++ {
				collector.EventChannel() <- metrics.MetricEvent{
					Type:      metrics.EventPacketReceived,
					Timestamp: time.Now(),
					Bytes:     10,
				}
			}

			cancel()

			Eventually(func() int64 {
				return collector.Snapshot("round-robin").TotalReceived
			}).Should(Equal(int64(5)))
		})
	})

	Describe("Handler", func() {
		It("should return a valid http.HandlerFunc", func() {
			handler := collector.Handler("round-robin")
			Expect(handler).NotTo(BeNil())
		})
	})

	Describe("Snapshot", func() {
		It("should report the configured algorithm", func() {
			snap := collector.Snapshot("gelf-affinity")
			Expect(snap.Algorithm).To(Equal("gelf-affinity"))
		})
	})
})
