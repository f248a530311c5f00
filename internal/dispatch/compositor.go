package dispatch

import (
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/registry"
	"github.com/wlbind/waycompd/internal/wire"
)

func (d *Dispatcher) dispatchCompositor(f frame.Frame) ([]Event, error) {
	switch f.Opcode {
	case wire.OpCompositorCreateSurface:
		return d.compositorCreateSurface(f)
	case wire.OpCompositorCreateRegion:
		return d.compositorCreateRegion(f)
	default:
		d.Log.Warn("unknown compositor opcode", "opcode", f.Opcode)
		return nil, nil
	}
}

func (d *Dispatcher) compositorCreateSurface(f frame.Frame) ([]Event, error) {
	r := wire.NewReader(f.Args)
	newID, err := r.Uint32()
	if err != nil {
		return nil, malformed("compositor.create_surface", f, err)
	}

	if err := d.Registry.Insert(newID, &registry.Object{
		Kind:    registry.KindSurface,
		Surface: registry.NewSurfaceState(),
	}); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *Dispatcher) compositorCreateRegion(f frame.Frame) ([]Event, error) {
	r := wire.NewReader(f.Args)
	newID, err := r.Uint32()
	if err != nil {
		return nil, malformed("compositor.create_region", f, err)
	}

	if err := d.Registry.Insert(newID, &registry.Object{Kind: registry.KindRegion}); err != nil {
		return nil, err
	}
	return nil, nil
}
