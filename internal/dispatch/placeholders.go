package dispatch

import (
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/registry"
)

// dispatchPlaceholder serves interfaces this core installs objects for but
// implements no opcode semantics on: wl_callback (one-shot, completed by
// display.sync or by the surface commit it was registered for), wl_region (geometry is accepted by surface but
// region contents are opaque to this core), xdg_wm_base, and wl_output. Any
// request against one of these is logged and otherwise ignored; this is not
// a protocol violation since the request still targets a live object.
func (d *Dispatcher) dispatchPlaceholder(f frame.Frame, obj *registry.Object) ([]Event, error) {
	d.Log.Debug("unimplemented interface request ignored", "kind", obj.Kind.String(), "opcode", f.Opcode)
	return nil, nil
}

// outputEvents returns surface.enter, surface.preferred_buffer_scale and
// surface.preferred_buffer_transform for the given surface and output, gated
// on a collaborator being registered; surface.leave is not among them. No
// output collaborator exists in this core, so this is never called with a
// non-empty result today; it exists as the wiring point for one.
func (d *Dispatcher) outputEvents(surfaceID, outputID uint32, transform uint32, scale int32) []Event {
	if !d.hasOutputCollaborator {
		return nil
	}
	return []Event{
		surfaceEnter(surfaceID, outputID),
		surfacePreferredBufferScale(surfaceID, scale),
		surfacePreferredBufferTransform(surfaceID, transform),
	}
}
