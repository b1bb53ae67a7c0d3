// Package relay implements the receive/classify/select/forward loop. It
// reads datagrams from the listening socket, picks a backend through the
// configured strategy and forwards the payload verbatim on the same socket.
// Malformed datagrams and delivery failures are logged and dropped; only a
// receive failure stops the loop.
package relay
