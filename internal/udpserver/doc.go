// Package udpserver owns socket setup for the relay: it validates the
// listen address, binds one or more UDP sockets and applies the configured
// send/receive buffer sizes. With more than one listener the sockets are
// bound with SO_REUSEPORT so the kernel distributes inbound datagrams
// across the relay loops.
package udpserver
