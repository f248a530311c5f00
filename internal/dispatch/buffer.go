package dispatch

import (
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/registry"
	"github.com/wlbind/waycompd/internal/wire"
)

func (d *Dispatcher) dispatchBuffer(f frame.Frame) ([]Event, error) {
	switch f.Opcode {
	case wire.OpBufferDestroy:
		return d.bufferDestroy(f)
	default:
		d.Log.Warn("unknown buffer opcode", "opcode", f.Opcode)
		return nil, nil
	}
}

func (d *Dispatcher) bufferDestroy(f frame.Frame) ([]Event, error) {
	obj, ok := d.Registry.Remove(f.ObjectID)
	if !ok {
		return nil, nil
	}
	if buf, ok := obj.Buffer, obj.Kind == registry.KindBuffer; ok && buf != nil {
		if err := buf.Pool.Release(); err != nil {
			d.Log.Warn("buffer.destroy: releasing pool", "error", err)
		}
	}
	return []Event{bufferRelease(f.ObjectID), displayDeleteID(f.ObjectID)}, nil
}
