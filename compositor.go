// Package compositor is the server side of a Wayland-like display protocol:
// it accepts client connections over a local stream socket, decodes a
// binary object-oriented RPC with file-descriptor passing, and implements
// the subset of core interfaces needed for clients to discover globals,
// allocate shared-memory buffers, create surfaces, and request frame
// callbacks.
package compositor

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/wlbind/waycompd/internal/client"
	"github.com/wlbind/waycompd/internal/constants"
	"github.com/wlbind/waycompd/internal/globals"
	"github.com/wlbind/waycompd/internal/logging"
)

// Config holds the listener's tunable knobs. cmd/wlcompd sets SocketPath and
// Backlog from its -socket and -backlog flags; MaxFrame, MaxFDs and LogLevel
// have no flag (its -v flag sets the logger's level, not LogLevel). There is
// no file-based configuration format.
type Config struct {
	SocketPath string
	Backlog    int
	MaxFrame   int
	MaxFDs     int
	LogLevel   logging.LogLevel
}

// DefaultConfig returns the §6 defaults.
func DefaultConfig() *Config {
	return &Config{
		SocketPath: constants.DefaultSocketPath,
		Backlog:    constants.ListenBacklog,
		MaxFrame:   constants.MaxFrameSize,
		MaxFDs:     constants.MaxFDsPerRecv,
		LogLevel:   logging.LevelInfo,
	}
}

// Options carries everything Listen and ListenAndServe accept beyond the
// listener config: a caller-supplied context for graceful shutdown, an
// optional logger, and an optional observer.
type Options struct {
	// Context is read by ListenAndServe: when cancelled, it stops accepting
	// new connections and lets in-flight client tasks drain. If nil,
	// context.Background() is used. Listen ignores it; Serve takes its own
	// context.
	Context context.Context

	// Logger receives structured logs at every accepted connection, fatal
	// protocol error, and (at debug level) dispatched request. If nil,
	// logging.Default() is used.
	Logger *logging.Logger

	// Observer receives connection and request counters. If nil, a
	// NoOpObserver is used.
	Observer Observer
}

// Server owns the listening socket and the set of in-flight client tasks.
type Server struct {
	cfg      Config
	log      *logging.Logger
	ln       *net.UnixListener
	globals  *globals.Table
	observer Observer

	wg      sync.WaitGroup
	nextID  atomic.Uint64
	cancel  context.CancelFunc
	closeCh chan struct{}
	once    sync.Once
}

// Listen binds the socket at cfg.SocketPath, removing any stale path first,
// and returns a Server ready to Serve. The listener is built directly on
// unix.Socket/Bind/Listen rather than net.ListenUnix so the configured
// backlog (default 1024) is actually honored instead of the runtime's
// built-in default.
func Listen(cfg *Config, opts *Options) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	observer := opts.Observer
	if observer == nil {
		observer = NoOpObserver{}
	}

	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		return nil, fmt.Errorf("compositor: removing stale socket: %w", err)
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("compositor: socket: %w", err)
	}
	addr := &unix.SockaddrUnix{Name: cfg.SocketPath}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("compositor: bind %s: %w", cfg.SocketPath, err)
	}
	if err := unix.Listen(fd, cfg.Backlog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("compositor: listen: %w", err)
	}

	file := os.NewFile(uintptr(fd), cfg.SocketPath)
	ln, err := net.FileListener(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("compositor: wrapping listener: %w", err)
	}
	_ = file.Close() // FileListener dup'd the fd; the original is no longer needed.

	unixLn, ok := ln.(*net.UnixListener)
	if !ok {
		ln.Close()
		return nil, fmt.Errorf("compositor: unexpected listener type %T", ln)
	}

	return &Server{
		cfg:      *cfg,
		log:      logger,
		ln:       unixLn,
		globals:  globals.NewDefaultTable(),
		observer: observer,
		closeCh:  make(chan struct{}),
	}, nil
}

// Serve accepts connections until ctx is cancelled or the listener errors,
// spawning one goroutine per client and waiting for all in-flight clients to
// drain before returning.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		<-ctx.Done()
		s.once.Do(func() { close(s.closeCh) })
		_ = s.ln.Close()
	}()

	var acceptErr error
	for {
		conn, err := s.ln.AcceptUnix()
		if err != nil {
			select {
			case <-s.closeCh:
				acceptErr = nil
			default:
				acceptErr = fmt.Errorf("compositor: accept: %w", err)
			}
			break
		}

		id := s.nextID.Add(1)
		s.log.Info("client connected", "client", id)
		s.observer.ObserveConnection()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.observer.ObserveDisconnection()
			c := client.NewWithLimits(id, conn, s.globals, s.log, s.observer, s.cfg.MaxFrame, s.cfg.MaxFDs)
			if err := c.Serve(); err != nil {
				s.log.Warn("client connection ended with error", "client", id, "error", err)
			} else {
				s.log.Info("client disconnected", "client", id)
			}
		}()
	}

	s.wg.Wait()
	return acceptErr
}

// Shutdown stops accepting new connections and closes the listener. Serve's
// caller should still wait for Serve to return to know in-flight clients
// have drained.
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Addr returns the listener's bound address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// ListenAndServe binds the socket and serves until opts.Context is
// cancelled (or context.Background() runs forever). cmd/wlcompd does not use
// it; it calls Listen and Serve itself so it can call Shutdown on a signal.
func ListenAndServe(cfg *Config, opts *Options) error {
	s, err := Listen(cfg, opts)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if opts != nil && opts.Context != nil {
		ctx = opts.Context
	}
	return s.Serve(ctx)
}
