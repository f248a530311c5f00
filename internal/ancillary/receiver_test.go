package ancillary

import (
	"io"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// socketpair returns a connected pair of *net.UnixConn for testing, avoiding
// any dependency on a filesystem socket path.
func socketpair(t *testing.T) (*net.UnixConn, *net.UnixConn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)

	toConn := func(fd int) *net.UnixConn {
		f := os.NewFile(uintptr(fd), "socketpair")
		c, err := net.FileConn(f)
		require.NoError(t, err)
		f.Close()
		return c.(*net.UnixConn)
	}
	return toConn(fds[0]), toConn(fds[1])
}

func TestReadPlainBytes(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	_, err := client.Write([]byte("hello"))
	require.NoError(t, err)

	r := NewReceiver(server)
	data, fds, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
	require.Empty(t, fds)
}

func TestReadBytesWithFD(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	tmp, err := os.CreateTemp(t.TempDir(), "passed-fd-*")
	require.NoError(t, err)
	defer tmp.Close()

	rights := unix.UnixRights(int(tmp.Fd()))
	n, oobn, err := client.WriteMsgUnix([]byte("fd-coming"), rights, nil)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, len(rights), oobn)

	r := NewReceiver(server)
	data, fds, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "fd-coming", string(data))
	require.Len(t, fds, 1)
	defer unix.Close(fds[0])

	// The received fd must refer to the same file: write through the
	// original, read back through the received duplicate.
	_, err = tmp.WriteString("payload")
	require.NoError(t, err)

	buf := make([]byte, 7)
	n2, err := unix.Pread(fds[0], buf, 0)
	require.NoError(t, err)
	require.Equal(t, "payload", string(buf[:n2]))
}

func TestReadReturnsEOFOnPeerClose(t *testing.T) {
	client, server := socketpair(t)
	defer server.Close()
	client.Close()

	r := NewReceiver(server)
	_, _, err := r.Read()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadRejectsTooManyFDs(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	fdList := make([]int, 0, 11)
	for i := 0; i < 11; i++ {
		f, err := os.CreateTemp(t.TempDir(), "fd-*")
		require.NoError(t, err)
		files = append(files, f)
		fdList = append(fdList, int(f.Fd()))
	}

	rights := unix.UnixRights(fdList...)
	_, _, err := client.WriteMsgUnix([]byte("x"), rights, nil)
	require.NoError(t, err)

	r := NewReceiver(server)
	_, _, err = r.Read()
	require.ErrorIs(t, err, ErrTooManyFDs)
}
