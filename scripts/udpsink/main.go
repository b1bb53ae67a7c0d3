// Udpsink is a counting UDP sink used as a stand-in backend when testing
// the relay. It logs every datagram it receives and prints totals on
// shutdown, so distribution across several sinks can be compared.
//
// Usage:
//
//	go run ./scripts/udpsink -listen 127.0.0.1:12201
//	go run ./scripts/udpsink -listen 127.0.0.1:12202 -quiet
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:12201", "address to listen on")
	quiet := flag.Bool("quiet", false, "suppress per-datagram logging")
	flag.Parse()

	addr, err := net.ResolveUDPAddr("udp4", *listen)
	if err != nil {
		log.Fatalf("invalid listen address %q: %v", *listen, err)
	}

	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		log.Fatalf("bind %s: %v", *listen, err)
	}
	defer conn.Close()

	log.Printf("sink listening on %s", conn.LocalAddr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var datagrams, bytes, chunks uint64
	done := make(chan struct{})

	go func() {
		buf := make([]byte, 65536)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				close(done)
				return
			}

			datagrams++
			bytes += uint64(n)

			isChunk := n >= 10 && buf[0] == 0x1e && buf[1] == 0x0f
			if isChunk {
				chunks++
			}

			if !*quiet {
				if isChunk {
					log.Printf("chunk from %s: %d bytes, message id %s",
						from, n, hex.EncodeToString(buf[2:10]))
				} else {
					log.Printf("datagram from %s: %d bytes", from, n)
				}
			}
		}
	}()

	<-sigCh
	conn.Close()
	<-done

	fmt.Printf("\n%s: %d datagrams, %d chunk fragments, %d bytes\n",
		*listen, datagrams, chunks, bytes)
}
