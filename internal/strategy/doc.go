// Package strategy defines the backend selection interface and implements
// the relay's two routing algorithms:
//
//   - Round Robin: sequential distribution across backends in config order
//   - Chunk Affinity: chunked GELF fragments are pinned to the backend
//     derived from their message ID hash; everything else falls back to
//     round robin
//
// Selection is deterministic: for a given payload, backend list and counter
// state there is exactly one possible choice.
package strategy
