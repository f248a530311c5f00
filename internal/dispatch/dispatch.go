// Package dispatch routes decoded frames to their interface handler and
// produces the resulting outgoing events.
package dispatch

import (
	"fmt"

	"github.com/wlbind/waycompd/internal/fdqueue"
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/globals"
	"github.com/wlbind/waycompd/internal/logging"
	"github.com/wlbind/waycompd/internal/protoerr"
	"github.com/wlbind/waycompd/internal/registry"
)

// Dispatcher owns one client's registry and fd queue, and reads a process-
// wide globals snapshot per request. It is task-local, matching the
// connection supervisor's one-goroutine-per-client model.
type Dispatcher struct {
	Registry *registry.Registry
	Globals  *globals.Table
	FDs      *fdqueue.Queue
	Log      *logging.Logger

	// hasOutputCollaborator gates surface.enter/leave/preferred_* events,
	// which this core never fires on its own since output enumeration is
	// out of scope; a future collaborator would flip this after
	// registering an Output object.
	hasOutputCollaborator bool
}

// New returns a dispatcher over a fresh registry for one client connection,
// seeding the well-known display object at id 1.
func New(globalsTable *globals.Table, log *logging.Logger) *Dispatcher {
	reg := registry.New()
	_ = reg.Insert(1, &registry.Object{Kind: registry.KindDisplay})
	return &Dispatcher{
		Registry: reg,
		Globals:  globalsTable,
		FDs:      fdqueue.New(),
		Log:      log,
	}
}

// SetOutputCollaborator flips the gate for surface.enter/leave/preferred_*
// events. Exercised by tests standing in for a future output/shell module.
func (d *Dispatcher) SetOutputCollaborator(present bool) {
	d.hasOutputCollaborator = present
}

// Dispatch routes one frame to its interface handler and returns any events
// produced. A miss on the target id is logged and the frame is skipped
// (non-fatal, per §4.4). Any returned error is fatal to the connection.
func (d *Dispatcher) Dispatch(f frame.Frame) ([]Event, error) {
	obj, ok := d.Registry.Get(f.ObjectID)
	if !ok {
		d.Log.Warn("request targets unknown object", "object", f.ObjectID, "opcode", f.Opcode)
		return nil, nil
	}
	d.Log.Debug("dispatching request", "object", f.ObjectID, "opcode", f.Opcode)

	switch obj.Kind {
	case registry.KindDisplay:
		return d.dispatchDisplay(f)
	case registry.KindRegistry:
		return d.dispatchRegistry(f)
	case registry.KindShm:
		return d.dispatchShm(f)
	case registry.KindShmPool:
		return d.dispatchShmPool(f, obj)
	case registry.KindBuffer:
		return d.dispatchBuffer(f)
	case registry.KindCompositor:
		return d.dispatchCompositor(f)
	case registry.KindSurface:
		return d.dispatchSurface(f, obj)
	case registry.KindCallback, registry.KindRegion, registry.KindXdgWmBase, registry.KindOutput:
		return d.dispatchPlaceholder(f, obj)
	default:
		return nil, protoerr.New("dispatch", protoerr.CodeProtocolViolation,
			fmt.Sprintf("unhandled object kind %v", obj.Kind)).WithObject(f.ObjectID, int(f.Opcode))
	}
}

// destroyObject removes id from the registry and returns the display's
// delete_id event, so that every explicit destroy/release handled by shm,
// shm_pool, buffer and surface tells the client the id is free to reuse.
// Requests to the placeholder interfaces, their destroy included, are
// ignored and get no delete_id.
func (d *Dispatcher) destroyObject(id uint32) Event {
	d.Registry.Remove(id)
	return displayDeleteID(id)
}
