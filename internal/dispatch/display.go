package dispatch

import (
	"fmt"

	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/protoerr"
	"github.com/wlbind/waycompd/internal/registry"
	"github.com/wlbind/waycompd/internal/wire"
)

func (d *Dispatcher) dispatchDisplay(f frame.Frame) ([]Event, error) {
	switch f.Opcode {
	case wire.OpDisplaySync:
		return d.displaySync(f)
	case wire.OpDisplayGetRegistry:
		return d.displayGetRegistry(f)
	default:
		d.Log.Warn("unknown display opcode", "opcode", f.Opcode)
		return nil, nil
	}
}

func (d *Dispatcher) displaySync(f frame.Frame) ([]Event, error) {
	r := wire.NewReader(f.Args)
	newID, err := r.Uint32()
	if err != nil {
		return nil, malformed("display.sync", f, err)
	}

	if err := d.Registry.Insert(newID, &registry.Object{Kind: registry.KindCallback}); err != nil {
		return nil, err
	}
	// A callback is logically destroyed once its done event is sent; this is
	// not an explicit destroy/release, so no delete_id follows it.
	d.Registry.Remove(newID)
	return []Event{callbackDone(newID, 0)}, nil
}

func (d *Dispatcher) displayGetRegistry(f frame.Frame) ([]Event, error) {
	r := wire.NewReader(f.Args)
	newID, err := r.Uint32()
	if err != nil {
		return nil, malformed("display.get_registry", f, err)
	}

	if err := d.Registry.Insert(newID, &registry.Object{Kind: registry.KindRegistry}); err != nil {
		return nil, err
	}

	var events []Event
	for _, g := range d.Globals.Snapshot() {
		events = append(events, registryGlobal(newID, g.Name, g.Interface, g.Version))
	}
	return events, nil
}

// malformed wraps a wire-decoding failure as a fatal MalformedFrame error,
// tagged with the request that triggered it.
func malformed(op string, f frame.Frame, cause error) error {
	return protoerr.Wrap(op, protoerr.CodeMalformedFrame,
		fmt.Errorf("decoding args for object %d opcode %d: %w", f.ObjectID, f.Opcode, cause)).
		WithObject(f.ObjectID, int(f.Opcode))
}
