// Package wire implements the binary message codec: fixed header plus
// 4-byte-aligned typed arguments, matching the upstream wire format.
package wire

// HeaderSize is the fixed 8-byte message header: object id (u32), opcode
// (u16), total length including header (u16).
const HeaderSize = 8

// Interface names as they appear on the wire in registry.bind and are
// advertised in registry.global.
const (
	InterfaceDisplay    = "wl_display"
	InterfaceRegistry   = "wl_registry"
	InterfaceCallback   = "wl_callback"
	InterfaceShm        = "wl_shm"
	InterfaceShmPool    = "wl_shm_pool"
	InterfaceBuffer     = "wl_buffer"
	InterfaceCompositor = "wl_compositor"
	InterfaceSurface    = "wl_surface"
	InterfaceRegion     = "wl_region"
	InterfaceXdgWmBase  = "xdg_wm_base"
	InterfaceOutput     = "wl_output"
)

// Pixel formats advertised by shm.format, matching fourcc-style upstream values.
const (
	ShmFormatArgb8888 = uint32(0)
	ShmFormatXrgb8888 = uint32(1)
	ShmFormatRgb888   = uint32(0x34324752)
)

// Display opcodes.
const (
	OpDisplaySync        = uint16(0)
	OpDisplayGetRegistry = uint16(1)
)

// Display event opcodes.
const (
	EvDisplayError    = uint16(0)
	EvDisplayDeleteID = uint16(1)
)

// Registry opcodes.
const (
	OpRegistryBind = uint16(0)
)

// Registry event opcodes.
const (
	EvRegistryGlobal       = uint16(0)
	EvRegistryGlobalRemove = uint16(1)
)

// Callback event opcodes.
const (
	EvCallbackDone = uint16(0)
)

// Shm opcodes.
const (
	OpShmCreatePool = uint16(0)
	OpShmRelease    = uint16(1)
)

// Shm event opcodes.
const (
	EvShmFormat = uint16(0)
)

// ShmPool opcodes.
const (
	OpShmPoolCreateBuffer = uint16(0)
	OpShmPoolDestroy      = uint16(1)
	OpShmPoolResize       = uint16(2)
)

// Buffer opcodes.
const (
	OpBufferDestroy = uint16(0)
)

// Buffer event opcodes.
const (
	EvBufferRelease = uint16(0)
)

// Compositor opcodes.
const (
	OpCompositorCreateSurface = uint16(0)
	OpCompositorCreateRegion  = uint16(1)
)

// Surface opcodes.
const (
	OpSurfaceDestroy            = uint16(0)
	OpSurfaceAttach             = uint16(1)
	OpSurfaceDamage             = uint16(2)
	OpSurfaceFrame              = uint16(3)
	OpSurfaceSetOpaqueRegion    = uint16(4)
	OpSurfaceSetInputRegion     = uint16(5)
	OpSurfaceCommit             = uint16(6)
	OpSurfaceSetBufferTransform = uint16(7)
	OpSurfaceSetBufferScale     = uint16(8)
	OpSurfaceDamageBuffer       = uint16(9)
	OpSurfaceOffset             = uint16(10)
)

// Surface event opcodes.
const (
	EvSurfaceEnter                     = uint16(0)
	EvSurfaceLeave                     = uint16(1)
	EvSurfacePreferredBufferScale      = uint16(2)
	EvSurfacePreferredBufferTransform  = uint16(3)
)

// MaxBufferTransform is the highest valid wl_output.transform enum value.
const MaxBufferTransform = int32(7)
