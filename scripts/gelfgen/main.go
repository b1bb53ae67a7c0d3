// Gelfgen generates UDP test traffic for the relay: plain datagrams and
// chunked GELF messages with random message IDs. Run several udpsink
// instances as upstreams to observe round robin distribution and chunk
// affinity.
//
// Usage:
//
//	go run ./scripts/gelfgen -target 127.0.0.1:12200 -plain 100
//	go run ./scripts/gelfgen -target 127.0.0.1:12200 -messages 20 -fragments 4
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net"
)

func main() {
	target := flag.String("target", "127.0.0.1:12200", "relay address to send to")
	plain := flag.Int("plain", 0, "number of plain datagrams to send")
	messages := flag.Int("messages", 0, "number of chunked messages to send")
	fragments := flag.Int("fragments", 2, "fragments per chunked message")
	size := flag.Int("size", 64, "payload bytes per plain datagram")
	flag.Parse()

	if *size < 12 {
		log.Fatalf("-size must be at least 12, the relay drops shorter datagrams")
	}
	if *fragments < 1 || *fragments > 128 {
		log.Fatalf("-fragments must be between 1 and 128")
	}

	conn, err := net.Dial("udp4", *target)
	if err != nil {
		log.Fatalf("dial %s: %v", *target, err)
	}
	defer conn.Close()

	for i := 0; i < *plain; i++ {
		payload := make([]byte, *size)
		copy(payload, fmt.Sprintf("plain-%06d ", i))
		if _, err := conn.Write(payload); err != nil {
			log.Fatalf("send plain datagram %d: %v", i, err)
		}
	}

	for i := 0; i < *messages; i++ {
		id := make([]byte, 8)
		if _, err := rand.Read(id); err != nil {
			log.Fatalf("generate message id: %v", err)
		}

		for seq := 0; seq < *fragments; seq++ {
			payload := []byte{0x1e, 0x0f}
			payload = append(payload, id...)
			payload = append(payload, byte(seq), byte(*fragments))
			payload = append(payload, fmt.Sprintf("fragment %d of message %s", seq, hex.EncodeToString(id))...)

			if _, err := conn.Write(payload); err != nil {
				log.Fatalf("send fragment %d of message %d: %v", seq, i, err)
			}
		}
	}

	fmt.Printf("sent %d plain datagrams and %d chunked messages (%d fragments each) to %s\n",
		*plain, *messages, *fragments, *target)
}
