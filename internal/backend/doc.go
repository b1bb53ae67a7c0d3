// Package backend models one upstream UDP destination. A Backend holds the
// resolved address of a configured upstream together with delivery counters
// used by the metrics collector. The backend list is ordered; a backend's
// index in that list drives the round robin arithmetic.
package backend
