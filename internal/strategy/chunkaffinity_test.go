package strategy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/udp-relay/internal/backend"
	"github.com/angeloszaimis/udp-relay/internal/gelf"
	"github.com/angeloszaimis/udp-relay/internal/strategy"
)

func chunkPayload(id []byte, seq, count, filler byte) []byte {
	payload := []byte{0x1e, 0x0f}
	payload = append(payload, id...)
	payload = append(payload, seq, count)
	payload = append(payload, filler, filler, filler)
	return payload
}

var _ = Describe("ChunkAffinity", func() {
	var (
		strat    strategy.Strategy
		backends []*backend.Backend
	)

	BeforeEach(func() {
		strat = strategy.NewChunkAffinityStrategy(strategy.NewRoundRobinStrategy())

		backends = []*backend.Backend{
			mustResolve("127.0.0.1:12201"),
			mustResolve("127.0.0.1:12202"),
			mustResolve("127.0.0.1:12203"),
		}
	})

	Describe("SelectBackend", func() {
		Context("with chunked GELF payloads", func() {
			It("should route fragments with the same message ID identically", func() {
				id := []byte{1, 2, 3, 4, 5, 6, 7, 8}

				first := strat.SelectBackend(chunkPayload(id, 0, 2, 'a'), backends)
				second := strat.SelectBackend(chunkPayload(id, 1, 2, 'z'), backends)

				expected := backends[int(gelf.Hash8(id))%len(backends)]
				Expect(first).To(Equal(expected))
				Expect(second).To(Equal(expected))
			})

			It("should select hash8(messageID) modulo the pool size", func() {
				id := []byte{1, 2, 3, 4, 5, 6, 7, 8}

				// Hash8 of this ID is 0x2c = 44, 44 % 3 == 2.
				selected := strat.SelectBackend(chunkPayload(id, 0, 1, 'x'), backends)
				Expect(selected).To(Equal(backends[2]))
			})

			It("should ignore the round robin counter state", func() {
				id := []byte{9, 9, 9, 9, 1, 1, 1, 1}

				first := strat.SelectBackend(chunkPayload(id, 0, 3, 'a'), backends)

				// Advance the fallback counter with plain traffic in between.
				for i := 0; i < 7; i++ {
					strat.SelectBackend([]byte("plain datagram padding"), backends)
				}

				second := strat.SelectBackend(chunkPayload(id, 1, 3, 'b'), backends)
				Expect(second).To(Equal(first))
			})

			It("should not advance the round robin counter", func() {
				id := []byte{1, 2, 3, 4, 5, 6, 7, 8}
				plain := []byte("plain datagram padding")

				Expect(strat.SelectBackend(plain, backends)).To(Equal(backends[0]))
				strat.SelectBackend(chunkPayload(id, 0, 2, 'a'), backends)
				strat.SelectBackend(chunkPayload(id, 1, 2, 'b'), backends)
				Expect(strat.SelectBackend(plain, backends)).To(Equal(backends[1]))
				Expect(strat.SelectBackend(plain, backends)).To(Equal(backends[2]))
			})
		})

		Context("with plain payloads", func() {
			It("should fall back to round robin in order", func() {
				plain := []byte("not a chunk, definitely.")

				Expect(strat.SelectBackend(plain, backends)).To(Equal(backends[0]))
				Expect(strat.SelectBackend(plain, backends)).To(Equal(backends[1]))
				Expect(strat.SelectBackend(plain, backends)).To(Equal(backends[2]))
				Expect(strat.SelectBackend(plain, backends)).To(Equal(backends[0]))
			})
		})

		Context("with empty backend list", func() {
			It("should return nil", func() {
				payload := chunkPayload([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 0, 1, 'x')
				Expect(strat.SelectBackend(payload, []*backend.Backend{})).To(BeNil())
			})
		})
	})
})
