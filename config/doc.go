// Package config loads the relay configuration. Routing settings come from
// a directive file (listen, upstream, handle-gelf, send-buffer, recv-buffer,
// listeners); process settings such as environment, log level and the
// metrics address are layered from environment variables with defaults.
// The loaded configuration is validated before the relay starts and is
// read-only afterwards.
package config
