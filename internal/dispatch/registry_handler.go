package dispatch

import (
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/registry"
	"github.com/wlbind/waycompd/internal/wire"
)

func (d *Dispatcher) dispatchRegistry(f frame.Frame) ([]Event, error) {
	switch f.Opcode {
	case wire.OpRegistryBind:
		return d.registryBind(f)
	default:
		d.Log.Warn("unknown registry opcode", "opcode", f.Opcode)
		return nil, nil
	}
}

// kindForInterface maps an advertised interface string to the object Kind
// it installs. Only globals this core actually advertises have an entry;
// anything else cannot be bound here regardless of what a client requests.
func kindForInterface(iface string) (registry.Kind, bool) {
	switch iface {
	case wire.InterfaceShm:
		return registry.KindShm, true
	case wire.InterfaceCompositor:
		return registry.KindCompositor, true
	case wire.InterfaceXdgWmBase:
		return registry.KindXdgWmBase, true
	default:
		return 0, false
	}
}

func (d *Dispatcher) registryBind(f frame.Frame) ([]Event, error) {
	r := wire.NewReader(f.Args)
	name, err := r.Uint32()
	if err != nil {
		return nil, malformed("registry.bind", f, err)
	}
	iface, err := r.String()
	if err != nil {
		return nil, malformed("registry.bind", f, err)
	}
	_, err = r.Uint32() // version, unused: this core does not down-negotiate.
	if err != nil {
		return nil, malformed("registry.bind", f, err)
	}
	newID, err := r.Uint32()
	if err != nil {
		return nil, malformed("registry.bind", f, err)
	}

	global, ok := d.Globals.Lookup(name)
	if !ok || global.Interface != iface {
		d.Log.Warn("registry.bind: no matching global", "name", name, "interface", iface)
		return nil, nil
	}

	kind, ok := kindForInterface(iface)
	if !ok {
		d.Log.Warn("registry.bind: unsupported interface", "interface", iface)
		return nil, nil
	}

	if err := d.Registry.Insert(newID, &registry.Object{Kind: kind}); err != nil {
		return nil, err
	}

	if kind == registry.KindShm {
		return []Event{
			shmFormat(newID, wire.ShmFormatArgb8888),
			shmFormat(newID, wire.ShmFormatRgb888),
		}, nil
	}
	return nil, nil
}
