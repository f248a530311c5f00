// Package client runs one accepted connection's receive-assemble-dispatch-
// write loop, serializing all work for that client onto a single goroutine.
package client

import (
	"errors"
	"io"
	"net"

	"github.com/wlbind/waycompd/internal/ancillary"
	"github.com/wlbind/waycompd/internal/constants"
	"github.com/wlbind/waycompd/internal/dispatch"
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/globals"
	"github.com/wlbind/waycompd/internal/logging"
	"github.com/wlbind/waycompd/internal/observe"
	"github.com/wlbind/waycompd/internal/protoerr"

	"golang.org/x/sys/unix"
)

// Client owns one connection's full lifecycle: receive bytes+fds, assemble
// frames, dispatch each to the compositor state, write back any resulting
// events, and on fatal error write a best-effort display.error before
// tearing down.
type Client struct {
	id       uint64
	conn     *net.UnixConn
	recv     *ancillary.Receiver
	asm      *frame.Assembler
	disp     *dispatch.Dispatcher
	log      *logging.Logger
	observer observe.Observer
}

// New wires a fresh per-connection pipeline over conn using the package
// default frame-size and fd-count ceilings. observer may be nil, in which
// case observations are discarded.
func New(id uint64, conn *net.UnixConn, globalsTable *globals.Table, log *logging.Logger, observer observe.Observer) *Client {
	return NewWithLimits(id, conn, globalsTable, log, observer, constants.MaxFrameSize, constants.MaxFDsPerRecv)
}

// NewWithLimits is New with an explicit frame-size and fd-count ceiling,
// letting a server configured away from the package defaults (compositor.
// Config's MaxFrame/MaxFDs) enforce its own bounds per connection.
func NewWithLimits(id uint64, conn *net.UnixConn, globalsTable *globals.Table, log *logging.Logger, observer observe.Observer, maxFrame, maxFDs int) *Client {
	if observer == nil {
		observer = observe.NoOp{}
	}
	scoped := log.With("client", id)
	return &Client{
		id:       id,
		conn:     conn,
		recv:     ancillary.NewReceiverWithMax(conn, maxFDs),
		asm:      frame.NewAssemblerWithMax(maxFrame),
		disp:     dispatch.New(globalsTable, scoped),
		log:      scoped,
		observer: observer,
	}
}

// Dispatcher exposes the client's dispatcher for tests and a future output
// collaborator that needs to flip SetOutputCollaborator per-client.
func (c *Client) Dispatcher() *dispatch.Dispatcher {
	return c.disp
}

// Serve runs the receive-assemble-dispatch-write loop until the peer closes
// the connection or a fatal protocol error occurs. It never returns an error
// for a clean peer-initiated close.
func (c *Client) Serve() error {
	defer c.teardown()

	for {
		data, fds, err := c.recv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, ancillary.ErrTooManyFDs) {
				return c.fail(protoerr.Wrap("ancillary.read", protoerr.CodeProtocolViolation, err))
			}
			return err
		}

		if len(fds) > 0 {
			if err := c.disp.FDs.Push(fds); err != nil {
				return c.fail(protoerr.Wrap("fdqueue.push", protoerr.CodeProtocolViolation, err))
			}
		}

		frames, err := c.asm.Feed(data)
		if err != nil {
			return c.fail(protoerr.Wrap("frame.feed", protoerr.CodeMalformedFrame, err))
		}

		for _, f := range frames {
			events, err := c.disp.Dispatch(f)
			if err != nil {
				return c.fail(err)
			}
			c.observer.ObserveRequest(len(events))
			if err := c.writeEvents(events); err != nil {
				return err
			}
		}
	}
}

func (c *Client) writeEvents(events []dispatch.Event) error {
	for _, e := range events {
		if _, err := c.conn.Write(e.Encode()); err != nil {
			return err
		}
	}
	return nil
}

// fail implements the §7 propagation policy: best-effort display.error on
// the wire, then the caller shuts the connection down via teardown.
func (c *Client) fail(err error) error {
	c.log.Error("fatal protocol error", "error", err)

	var pe *protoerr.Error
	if errors.As(err, &pe) {
		c.observer.ObserveError(pe.Code)
		msg := pe.Msg
		if msg == "" {
			msg = string(pe.Code)
		}
		_ = c.writeEvents([]dispatch.Event{dispatch.ErrorEvent(pe.ObjectID, errorCodeFor(pe.Code), msg)})
	}
	return err
}

// errorCodeFor maps a taxonomy Code to the numeric code carried on the wire
// in display.error. These are this core's own stable assignment, since the
// taxonomy itself is an internal detail the wire format has no opinion on.
func errorCodeFor(code protoerr.Code) uint32 {
	switch code {
	case protoerr.CodeMalformedFrame:
		return 1
	case protoerr.CodeInvalidObject:
		return 2
	case protoerr.CodeProtocolViolation:
		return 3
	case protoerr.CodeMappingError:
		return 4
	case protoerr.CodeResizeFailed:
		return 5
	default:
		return 0
	}
}

// teardown releases every per-client resource: unconsumed fds and shm
// mappings held by surviving registry objects, then the socket itself.
func (c *Client) teardown() {
	c.disp.FDs.DrainAndClose(func(fd int) error {
		return unix.Close(fd)
	})
	for _, id := range c.disp.Registry.Ids() {
		obj, ok := c.disp.Registry.Get(id)
		if !ok {
			continue
		}
		if obj.ShmPool != nil {
			_ = obj.ShmPool.Pool.Release()
		}
		if obj.Buffer != nil {
			_ = obj.Buffer.Pool.Release()
		}
	}
	_ = c.conn.Close()
}
