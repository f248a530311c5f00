// Package ancillary reads bytes together with file descriptors passed via
// SCM_RIGHTS ancillary data off a Unix-domain stream socket.
package ancillary

import (
	"errors"
	"io"
	"net"

	"golang.org/x/sys/unix"

	"github.com/wlbind/waycompd/internal/constants"
)

// ErrTooManyFDs is returned when a single read's control message carries
// more file descriptors than the server is willing to accept at once.
var ErrTooManyFDs = errors.New("ancillary: too many file descriptors in one read")

// Receiver pulls bytes and fds off a single client connection.
type Receiver struct {
	conn        *net.UnixConn
	byteScratch []byte
	oobScratch  []byte
	maxFDs      int
}

// NewReceiver wraps conn, bounding fds-per-read by constants.MaxFDsPerRecv.
// conn must be a connected *net.UnixConn (SOCK_STREAM).
func NewReceiver(conn *net.UnixConn) *Receiver {
	return NewReceiverWithMax(conn, constants.MaxFDsPerRecv)
}

// NewReceiverWithMax wraps conn, bounding fds-per-read by maxFDs instead of
// the package default, for servers configured with a non-default ceiling.
func NewReceiverWithMax(conn *net.UnixConn, maxFDs int) *Receiver {
	return &Receiver{
		conn:        conn,
		byteScratch: make([]byte, constants.RecvScratchSize),
		// Sized generously beyond maxFDs so an over-sending peer's excess
		// fds land in the buffer (and get rejected) rather than being
		// silently truncated by the kernel before we can count them.
		oobScratch: make([]byte, unix.CmsgSpace(4*maxFDs*4)),
		maxFDs:     maxFDs,
	}
}

// Read performs one receive call, returning the bytes and fds delivered
// together. A (nil, nil, io.EOF) result means the peer closed the
// connection cleanly. Fds are returned in the order the peer sent them.
func (r *Receiver) Read() (data []byte, fds []int, err error) {
	n, oobn, _, _, err := r.conn.ReadMsgUnix(r.byteScratch, r.oobScratch)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, nil, io.EOF
		}
		return nil, nil, err
	}
	if n == 0 && oobn == 0 {
		return nil, nil, io.EOF
	}

	if oobn > 0 {
		fds, err = parseFDs(r.oobScratch[:oobn], r.maxFDs)
		if err != nil {
			return nil, nil, err
		}
	}

	if n == 0 {
		return nil, fds, nil
	}
	out := make([]byte, n)
	copy(out, r.byteScratch[:n])
	return out, fds, nil
}

func parseFDs(oob []byte, maxFDs int) ([]int, error) {
	messages, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}

	var fds []int
	for _, msg := range messages {
		parsed, err := unix.ParseUnixRights(&msg)
		if err != nil {
			continue
		}
		fds = append(fds, parsed...)
	}
	if len(fds) > maxFDs {
		for _, fd := range fds {
			unix.Close(fd)
		}
		return nil, ErrTooManyFDs
	}
	return fds, nil
}

// Close closes the underlying connection.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
