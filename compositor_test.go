package compositor

import (
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/wlbind/waycompd/internal/client"
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/globals"
	"github.com/wlbind/waycompd/internal/logging"
	"github.com/wlbind/waycompd/internal/wire"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Level: logging.LevelError})
}

func startClient(t *testing.T) (peer *net.UnixConn, done chan error) {
	t.Helper()
	server, p, err := NewLoopbackPair()
	require.NoError(t, err)

	c := client.New(1, server, globals.NewDefaultTable(), testLogger(), nil)
	done = make(chan error, 1)
	go func() { done <- c.Serve() }()
	return p, done
}

func readN(t *testing.T, conn *net.UnixConn, n int) []frame.Frame {
	t.Helper()
	asm := frame.NewAssembler()
	var out []frame.Frame
	buf := make([]byte, 4096)
	for len(out) < n {
		read, err := conn.Read(buf)
		require.NoError(t, err)
		got, err := asm.Feed(buf[:read])
		require.NoError(t, err)
		out = append(out, got...)
	}
	return out
}

// Scenario 1: handshake.
func TestScenarioHandshake(t *testing.T) {
	peer, done := startClient(t)
	defer func() { peer.Close(); <-done }()

	_, err := peer.Write(wire.Encode(1, wire.OpDisplayGetRegistry, wire.NewWriter().PutUint32(2).Bytes()))
	require.NoError(t, err)

	frames := readN(t, peer, 3)
	wantInterfaces := []string{wire.InterfaceShm, wire.InterfaceCompositor, wire.InterfaceXdgWmBase}
	for i, f := range frames {
		r := wire.NewReader(f.Args)
		name, err := r.Uint32()
		require.NoError(t, err)
		iface, err := r.String()
		require.NoError(t, err)
		require.Equal(t, uint32(i+1), name)
		require.Equal(t, wantInterfaces[i], iface)
	}
}

// Scenario 2: sync.
func TestScenarioSync(t *testing.T) {
	peer, done := startClient(t)
	defer func() { peer.Close(); <-done }()

	_, err := peer.Write(wire.Encode(1, wire.OpDisplaySync, wire.NewWriter().PutUint32(3).Bytes()))
	require.NoError(t, err)

	frames := readN(t, peer, 1)
	require.Equal(t, uint32(3), frames[0].ObjectID)
	require.Equal(t, wire.EvCallbackDone, frames[0].Opcode)
}

func bindGlobal(t *testing.T, peer *net.UnixConn, registryID, name uint32, iface string, newID uint32) {
	t.Helper()
	args := wire.NewWriter().PutUint32(name).PutString(iface).PutUint32(1).PutUint32(newID).Bytes()
	_, err := peer.Write(wire.Encode(registryID, wire.OpRegistryBind, args))
	require.NoError(t, err)
}

// Scenario 3: shm bind advertises formats.
func TestScenarioShmBindAdvertisesFormats(t *testing.T) {
	peer, done := startClient(t)
	defer func() { peer.Close(); <-done }()

	_, err := peer.Write(wire.Encode(1, wire.OpDisplayGetRegistry, wire.NewWriter().PutUint32(2).Bytes()))
	require.NoError(t, err)
	readN(t, peer, 3)

	bindGlobal(t, peer, 2, 1, wire.InterfaceShm, 4)
	frames := readN(t, peer, 2)
	require.Equal(t, wire.EvShmFormat, frames[0].Opcode)
	require.Equal(t, wire.EvShmFormat, frames[1].Opcode)

	r0 := wire.NewReader(frames[0].Args)
	f0, err := r0.Uint32()
	require.NoError(t, err)
	require.Equal(t, wire.ShmFormatArgb8888, f0)

	r1 := wire.NewReader(frames[1].Args)
	f1, err := r1.Uint32()
	require.NoError(t, err)
	require.Equal(t, wire.ShmFormatRgb888, f1)
}

// Scenario 4: pool + buffer.
func TestScenarioPoolAndBuffer(t *testing.T) {
	peer, done := startClient(t)
	defer func() { peer.Close(); <-done }()

	_, err := peer.Write(wire.Encode(1, wire.OpDisplayGetRegistry, wire.NewWriter().PutUint32(2).Bytes()))
	require.NoError(t, err)
	readN(t, peer, 3)

	bindGlobal(t, peer, 2, 1, wire.InterfaceShm, 4)
	readN(t, peer, 2)

	f, err := os.CreateTemp(t.TempDir(), "pool-*")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(4096))
	rights := unix.UnixRights(int(f.Fd()))
	_, _, err = peer.WriteMsgUnix(
		wire.Encode(4, wire.OpShmCreatePool, wire.NewWriter().PutUint32(5).PutInt32(4096).Bytes()),
		rights, nil)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = peer.Write(wire.Encode(5, wire.OpShmPoolCreateBuffer, wire.NewWriter().
		PutUint32(6).PutInt32(0).PutInt32(16).PutInt32(16).PutInt32(64).PutUint32(wire.ShmFormatArgb8888).Bytes()))
	require.NoError(t, err)

	_, err = peer.Write(wire.Encode(6, wire.OpBufferDestroy, nil))
	require.NoError(t, err)

	frames := readN(t, peer, 2)
	require.Equal(t, wire.EvBufferRelease, frames[0].Opcode)
	require.Equal(t, wire.EvDisplayDeleteID, frames[1].Opcode)
}

// Scenario 5: frame callback ordering.
func TestScenarioFrameCallbackOrdering(t *testing.T) {
	peer, done := startClient(t)
	defer func() { peer.Close(); <-done }()

	_, err := peer.Write(wire.Encode(1, wire.OpDisplayGetRegistry, wire.NewWriter().PutUint32(2).Bytes()))
	require.NoError(t, err)
	readN(t, peer, 3)

	bindGlobal(t, peer, 2, 2, wire.InterfaceCompositor, 3)
	_, err = peer.Write(wire.Encode(3, wire.OpCompositorCreateSurface, wire.NewWriter().PutUint32(7).Bytes()))
	require.NoError(t, err)

	_, err = peer.Write(wire.Encode(7, wire.OpSurfaceFrame, wire.NewWriter().PutUint32(100).Bytes()))
	require.NoError(t, err)
	_, err = peer.Write(wire.Encode(7, wire.OpSurfaceFrame, wire.NewWriter().PutUint32(101).Bytes()))
	require.NoError(t, err)
	_, err = peer.Write(wire.Encode(7, wire.OpSurfaceCommit, nil))
	require.NoError(t, err)

	frames := readN(t, peer, 2)
	require.Equal(t, uint32(100), frames[0].ObjectID)
	require.Equal(t, uint32(101), frames[1].ObjectID)
}
