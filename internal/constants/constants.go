// Package constants holds the compositor's tunable defaults.
package constants

// Transport defaults.
const (
	// DefaultSocketPath is the filesystem path the listener binds by default.
	DefaultSocketPath = "/tmp/my-wayland-socket.sock"

	// ListenBacklog is the backlog passed to the listen(2) equivalent.
	ListenBacklog = 1024

	// MaxFDsPerRecv bounds how many file descriptors a single ancillary-data
	// read is allowed to carry.
	MaxFDsPerRecv = 10

	// RecvScratchSize is the byte-scratch size used for each ancillary-data read.
	RecvScratchSize = 4096
)

// Frame sanity bounds, enforced by the frame assembler on every header it reads.
const (
	// MinFrameSize is the smallest legal frame: the 8-byte header with no args.
	MinFrameSize = 8

	// MaxFrameSize bounds a single frame to guard against a peer claiming an
	// absurd length in the header.
	MaxFrameSize = 64 * 1024
)

// FDQueueFairnessBound caps how many unconsumed file descriptors a client may
// have queued at once before it is considered to be flooding the connection.
const FDQueueFairnessBound = 16

// Well-known global names, matching the default globals table.
const (
	GlobalNameShm        = uint32(1)
	GlobalNameCompositor = uint32(2)
	GlobalNameXdgWmBase  = uint32(3)
)

// Interface version numbers advertised alongside the global names above.
const (
	VersionShm        = uint32(1)
	VersionCompositor = uint32(6)
	VersionXdgWmBase  = uint32(7)
)
