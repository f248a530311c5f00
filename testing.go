package compositor

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// NewLoopbackPair returns two connected *net.UnixConn endpoints backed by an
// in-process socketpair, letting scenario tests drive a Client without a
// filesystem socket path. The first return value is conventionally handed
// to a client.Client; the second is driven directly by the test as the
// simulated peer.
func NewLoopbackPair() (server, peer *net.UnixConn, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, err
	}

	serverFile := os.NewFile(uintptr(fds[0]), "waycompd-server")
	peerFile := os.NewFile(uintptr(fds[1]), "waycompd-peer")

	serverConn, err := net.FileConn(serverFile)
	if err != nil {
		serverFile.Close()
		peerFile.Close()
		return nil, nil, err
	}
	peerConn, err := net.FileConn(peerFile)
	if err != nil {
		serverConn.Close()
		peerFile.Close()
		return nil, nil, err
	}
	_ = serverFile.Close()
	_ = peerFile.Close()

	return serverConn.(*net.UnixConn), peerConn.(*net.UnixConn), nil
}
