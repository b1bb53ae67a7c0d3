package gelf

// Polynomial for the message ID checksum. The value must stay bit-exact
// across restarts and versions: the backends perform reassembly, so every
// fragment of a message has to keep landing on the same backend.
const crc8Poly = 0x81

// Hash8 computes an 8 bit CRC over data using polynomial 0x81, initial
// value 0, no input or output reflection and no final XOR. The accumulator
// is shifted before the high bit is tested. Hash8(nil) == 0.
func Hash8(data []byte) uint8 {
	var crc uint8

	for _, b := range data {
		crc ^= b

		for bit := 0; bit < 8; bit++ {
			crc <<= 1

			if crc&0x80 != 0 {
				crc ^= crc8Poly
			}
		}
	}

	return crc
}
