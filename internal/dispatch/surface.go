package dispatch

import (
	"fmt"

	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/protoerr"
	"github.com/wlbind/waycompd/internal/registry"
	"github.com/wlbind/waycompd/internal/wire"
)

func (d *Dispatcher) dispatchSurface(f frame.Frame, obj *registry.Object) ([]Event, error) {
	switch f.Opcode {
	case wire.OpSurfaceDestroy:
		return d.surfaceDestroy(f)
	case wire.OpSurfaceAttach:
		return d.surfaceAttach(f, obj)
	case wire.OpSurfaceDamage:
		return d.surfaceDamage(f, obj)
	case wire.OpSurfaceFrame:
		return d.surfaceFrame(f, obj)
	case wire.OpSurfaceSetOpaqueRegion:
		return d.surfaceSetOpaqueRegion(f, obj)
	case wire.OpSurfaceSetInputRegion:
		return d.surfaceSetInputRegion(f, obj)
	case wire.OpSurfaceCommit:
		return d.surfaceCommit(f, obj)
	case wire.OpSurfaceSetBufferTransform:
		return d.surfaceSetBufferTransform(f, obj)
	case wire.OpSurfaceSetBufferScale:
		return d.surfaceSetBufferScale(f, obj)
	case wire.OpSurfaceDamageBuffer:
		return d.surfaceDamageBuffer(f, obj)
	case wire.OpSurfaceOffset:
		return d.surfaceOffset(f, obj)
	default:
		d.Log.Warn("unknown surface opcode", "opcode", f.Opcode)
		return nil, nil
	}
}

func (d *Dispatcher) surfaceDestroy(f frame.Frame) ([]Event, error) {
	return []Event{d.destroyObject(f.ObjectID)}, nil
}

func (d *Dispatcher) surfaceAttach(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	bufferID, err := r.Uint32()
	if err != nil {
		return nil, malformed("surface.attach", f, err)
	}
	// x and y are decoded but not applied; only surface.offset sets the
	// pending offset.
	if _, err := r.Int32(); err != nil {
		return nil, malformed("surface.attach", f, err)
	}
	if _, err := r.Int32(); err != nil {
		return nil, malformed("surface.attach", f, err)
	}

	slot := &obj.Surface.Pending
	if bufferID == 0 {
		slot.Buffer = nil
	} else {
		id := bufferID
		slot.Buffer = &id
	}
	return nil, nil
}

func (d *Dispatcher) surfaceDamage(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	x, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage", f, err)
	}
	y, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage", f, err)
	}
	w, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage", f, err)
	}
	h, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage", f, err)
	}

	slot := &obj.Surface.Pending
	slot.SurfaceDamage = append(slot.SurfaceDamage, registry.Rect{X: x, Y: y, W: w, H: h})
	return nil, nil
}

func (d *Dispatcher) surfaceFrame(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	callbackID, err := r.Uint32()
	if err != nil {
		return nil, malformed("surface.frame", f, err)
	}

	if err := d.Registry.Insert(callbackID, &registry.Object{Kind: registry.KindCallback}); err != nil {
		return nil, err
	}
	obj.Surface.FrameCallbacks = append(obj.Surface.FrameCallbacks, callbackID)
	return nil, nil
}

func (d *Dispatcher) surfaceSetOpaqueRegion(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	regionID, err := r.Uint32()
	if err != nil {
		return nil, malformed("surface.set_opaque_region", f, err)
	}

	slot := &obj.Surface.Pending
	if regionID == 0 {
		slot.OpaqueRegion = nil
	} else {
		id := regionID
		slot.OpaqueRegion = &id
	}
	return nil, nil
}

func (d *Dispatcher) surfaceSetInputRegion(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	regionID, err := r.Uint32()
	if err != nil {
		return nil, malformed("surface.set_input_region", f, err)
	}

	slot := &obj.Surface.Pending
	if regionID == 0 {
		slot.InputRegion = nil
	} else {
		id := regionID
		slot.InputRegion = &id
	}
	return nil, nil
}

// surfaceCommit swaps pending into current and completes every frame
// callback registered against the pending slot, in registration order.
func (d *Dispatcher) surfaceCommit(f frame.Frame, obj *registry.Object) ([]Event, error) {
	callbacks := obj.Surface.Commit()

	events := make([]Event, 0, len(callbacks))
	for _, id := range callbacks {
		events = append(events, callbackDone(id, 0))
		// Implicit destruction after done, not an explicit destroy/release:
		// no delete_id follows, matching display.sync's callback.
		d.Registry.Remove(id)
	}
	return events, nil
}

// surfaceSetBufferTransform validates the transform against the closed
// wl_output.transform enum (0..7) before storing it. The original
// implementation reached this value via an unchecked transmute from an
// arbitrary i32; any out-of-range value here is a protocol violation, not a
// silently-accepted invalid enum member.
func (d *Dispatcher) surfaceSetBufferTransform(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	transform, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.set_buffer_transform", f, err)
	}
	if transform < 0 || transform > wire.MaxBufferTransform {
		return nil, protoerr.New("surface.set_buffer_transform", protoerr.CodeProtocolViolation,
			fmt.Sprintf("transform %d outside valid range 0..%d", transform, wire.MaxBufferTransform)).
			WithObject(f.ObjectID, int(f.Opcode))
	}

	obj.Surface.Pending.Transform = transform
	return nil, nil
}

func (d *Dispatcher) surfaceSetBufferScale(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	scale, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.set_buffer_scale", f, err)
	}

	obj.Surface.Pending.Scale = scale
	return nil, nil
}

func (d *Dispatcher) surfaceDamageBuffer(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	x, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage_buffer", f, err)
	}
	y, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage_buffer", f, err)
	}
	w, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage_buffer", f, err)
	}
	h, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.damage_buffer", f, err)
	}

	slot := &obj.Surface.Pending
	slot.BufferDamage = append(slot.BufferDamage, registry.Rect{X: x, Y: y, W: w, H: h})
	return nil, nil
}

func (d *Dispatcher) surfaceOffset(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	x, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.offset", f, err)
	}
	y, err := r.Int32()
	if err != nil {
		return nil, malformed("surface.offset", f, err)
	}

	slot := &obj.Surface.Pending
	slot.OffsetX, slot.OffsetY = x, y
	return nil, nil
}
