package registry

import "github.com/wlbind/waycompd/internal/shm"

// Kind tags which interface an Object belongs to. Dispatch is by this single
// integer tag rather than per-interface virtual dispatch, since the set of
// interfaces is closed and small.
type Kind int

const (
	KindDisplay Kind = iota
	KindRegistry
	KindCallback
	KindShm
	KindShmPool
	KindBuffer
	KindCompositor
	KindSurface
	KindRegion
	KindXdgWmBase
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindDisplay:
		return "wl_display"
	case KindRegistry:
		return "wl_registry"
	case KindCallback:
		return "wl_callback"
	case KindShm:
		return "wl_shm"
	case KindShmPool:
		return "wl_shm_pool"
	case KindBuffer:
		return "wl_buffer"
	case KindCompositor:
		return "wl_compositor"
	case KindSurface:
		return "wl_surface"
	case KindRegion:
		return "wl_region"
	case KindXdgWmBase:
		return "xdg_wm_base"
	case KindOutput:
		return "wl_output"
	default:
		return "unknown"
	}
}

// Rect is a damage rectangle in either surface or buffer coordinates.
type Rect struct {
	X, Y, W, H int32
}

// ShmPoolState is the per-object data for a bound wl_shm_pool: shared
// ownership of the underlying mapping.
type ShmPoolState struct {
	Pool *shm.Pool
}

// BufferState is the per-object data for a wl_buffer: its view parameters
// and a shared reference into its pool's mapping.
type BufferState struct {
	Pool   *shm.Pool
	Offset int32
	Width  int32
	Height int32
	Stride int32
	Format uint32
}

// SurfaceSlot is one half (pending or current) of a surface's
// double-buffered attributes.
type SurfaceSlot struct {
	Buffer        *uint32
	SurfaceDamage []Rect
	BufferDamage  []Rect
	OpaqueRegion  *uint32
	InputRegion   *uint32
	Transform     int32
	Scale         int32
	OffsetX       int32
	OffsetY       int32
}

// newSurfaceSlot returns a slot with the documented defaults: no attached
// buffer, identity transform, and unit scale.
func newSurfaceSlot() SurfaceSlot {
	return SurfaceSlot{Transform: 0, Scale: 1}
}

// EffectiveScale returns the slot's buffer scale, treating any non-positive
// value as 1 per the design note on set_buffer_scale.
func (s SurfaceSlot) EffectiveScale() int32 {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

// SurfaceState is the per-object data for a wl_surface: pending/current
// double-buffered slots plus the FIFO of registered frame callbacks.
type SurfaceState struct {
	Pending        SurfaceSlot
	Current        SurfaceSlot
	FrameCallbacks []uint32
}

// NewSurfaceState returns a surface with both slots at their documented
// defaults.
func NewSurfaceState() *SurfaceState {
	return &SurfaceState{Pending: newSurfaceSlot(), Current: newSurfaceSlot()}
}

// Commit atomically copies pending into current and returns the frame
// callbacks to complete, in registration order. Only the damage lists and
// the callback list are drained from pending; every other field (buffer,
// regions, transform, scale, offset) carries forward as the baseline for
// the next commit, so an idle commit with no intervening requests is a
// no-op beyond draining callbacks.
func (s *SurfaceState) Commit() []uint32 {
	s.Current = s.Pending
	s.Pending.SurfaceDamage = nil
	s.Pending.BufferDamage = nil

	callbacks := s.FrameCallbacks
	s.FrameCallbacks = nil
	return callbacks
}

// Object is the tagged-variant per-object state keyed by object id in the
// registry. Only the field matching Kind is populated; the rest are nil.
type Object struct {
	Kind    Kind
	ShmPool *ShmPoolState
	Buffer  *BufferState
	Surface *SurfaceState
}
