package udpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"syscall"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/sys/unix"
)

// Options carries the socket tuning knobs from the configuration.
// Zero values leave the kernel defaults in place.
type Options struct {
	SendBuffer int
	RecvBuffer int
	Listeners  int
}

// Server holds the bound listening sockets of the relay.
type Server struct {
	conns []*net.UDPConn
}

// New validates addr and binds the configured number of UDP sockets to it.
// Buffer sizing failures are logged and ignored, matching the relay's
// best-effort socket tuning; a bind failure closes any sockets already
// bound and is returned.
func New(logger *slog.Logger, addr string, opts Options) (*Server, error) {
	if err := validateAddr(addr); err != nil {
		return nil, err
	}

	listeners := opts.Listeners
	if listeners <= 0 {
		listeners = 1
	}

	srv := &Server{}

	for i := 0; i < listeners; i++ {
		conn, err := bind(logger, addr, opts, listeners > 1)
		if err != nil {
			srv.Close()
			return nil, err
		}
		srv.conns = append(srv.conns, conn)
	}

	return srv, nil
}

// Conns returns the bound sockets, one per configured listener.
func (s *Server) Conns() []*net.UDPConn {
	return s.conns
}

// Close closes all listening sockets, unblocking any relay loop reads.
func (s *Server) Close() error {
	var errs []error

	for _, conn := range s.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func bind(logger *slog.Logger, addr string, opts Options, reusePort bool) (*net.UDPConn, error) {
	lc := net.ListenConfig{}

	if reusePort {
		lc.Control = func(network, address string, c syscall.RawConn) error {
			var opErr error
			err := c.Control(func(fd uintptr) {
				opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return opErr
		}
	}

	pc, err := lc.ListenPacket(context.Background(), "udp4", addr)
	if err != nil {
		return nil, err
	}

	conn := pc.(*net.UDPConn)

	if opts.SendBuffer > 0 {
		if err := conn.SetWriteBuffer(opts.SendBuffer); err != nil {
			logger.Warn("Failed to set send buffer",
				slog.Int("size", opts.SendBuffer),
				slog.Any("err", err))
		}
	}

	if opts.RecvBuffer > 0 {
		if err := conn.SetReadBuffer(opts.RecvBuffer); err != nil {
			logger.Warn("Failed to set recv buffer",
				slog.Int("size", opts.RecvBuffer),
				slog.Any("err", err))
		}
	}

	return conn, nil
}

func validateAddr(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)

	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cant be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return err
}
