package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ErrListen wraps any failure to bind the listening socket.
var ErrListen = errors.New("listen failed")

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Logger            *slog.Logger
}

type Server struct {
	cfg Config
	ln  net.Listener
	srv *http.Server
	log *slog.Logger
}

// Listen binds cfg.Addr right away so a busy port fails before anything is
// served.
func Listen(cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListen, cfg.Addr, err)
	}

	return &Server{
		cfg: cfg,
		ln:  ln,
		srv: &http.Server{
			Handler:           NewRouter(log),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		log: log,
	}, nil
}

// Addr is the bound address, useful when cfg.Addr used port 0.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve blocks until ctx is cancelled or the server fails. Cancellation
// drains in-flight requests for up to ShutdownTimeout and returns nil.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.ln)
	}()

	s.log.Info("server.listening", "addr", s.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server.shutting_down", "timeout", s.cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	s.log.Info("server.stopped")
	return nil
}

// Close releases the socket without serving. Used when startup aborts
// after Listen.
func (s *Server) Close() error {
	return s.ln.Close()
}
