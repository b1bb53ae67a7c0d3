package gelf

const (
	// Chunked GELF header layout: 2 magic bytes, an 8 byte message ID,
	// then a sequence number and sequence count byte.
	MagicLen     = 2
	MessageIDLen = 8
	HeaderLen    = MagicLen + MessageIDLen

	// MinDatagramLen is the smallest datagram the relay accepts. It covers
	// the full chunk header including the two sequence bytes, so the header
	// region can always be read once a datagram passes this gate.
	MinDatagramLen = HeaderLen + 2
)

var chunkMagic = [MagicLen]byte{0x1e, 0x0f}

// IsChunk reports whether the payload begins with the chunked GELF magic
// bytes. Payloads shorter than the chunk header are never chunks.
func IsChunk(payload []byte) bool {
	if len(payload) < HeaderLen {
		return false
	}

	return payload[0] == chunkMagic[0] && payload[1] == chunkMagic[1]
}

// MessageID returns the 8 byte message ID region of a chunked GELF payload.
// The caller must have checked IsChunk first.
func MessageID(payload []byte) []byte {
	return payload[MagicLen:HeaderLen]
}
