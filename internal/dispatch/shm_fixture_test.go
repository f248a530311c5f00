package dispatch

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// backingFD returns a raw fd for a temp file truncated to size, suitable for
// shm.create_pool. The returned cleanup closes the original *os.File; dup'd
// copies handed off to a Pool are independently owned.
func backingFD(t *testing.T, size int64) (fd int, cleanup func()) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "waycompd-pool-*")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))

	dupFD, err := unix.Dup(int(f.Fd()))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	return dupFD, func() { unix.Close(dupFD) }
}
