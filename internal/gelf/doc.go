// Package gelf implements the minimal chunked GELF framing knowledge the
// relay needs: recognizing the chunk magic bytes and hashing the message ID
// that ties fragments of one message together. The relay never reassembles
// or interprets chunk payloads beyond this header.
package gelf
