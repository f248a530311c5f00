package dispatch

import (
	"github.com/wlbind/waycompd/internal/wire"
)

// Event is one server-to-client message ready to be written to the wire.
type Event struct {
	ObjectID uint32
	Opcode   uint16
	Args     []byte
}

// Encode assembles the event's wire frame.
func (e Event) Encode() []byte {
	return wire.Encode(e.ObjectID, e.Opcode, e.Args)
}

func displayError(objectID, code uint32, message string) Event {
	args := wire.NewWriter().PutUint32(objectID).PutUint32(code).PutString(message).Bytes()
	return Event{ObjectID: 1, Opcode: wire.EvDisplayError, Args: args}
}

// ErrorEvent builds a display.error event, exported for the client task's
// fatal-error propagation path.
func ErrorEvent(objectID, code uint32, message string) Event {
	return displayError(objectID, code, message)
}

func displayDeleteID(id uint32) Event {
	args := wire.NewWriter().PutUint32(id).Bytes()
	return Event{ObjectID: 1, Opcode: wire.EvDisplayDeleteID, Args: args}
}

func callbackDone(callbackID, serial uint32) Event {
	args := wire.NewWriter().PutUint32(serial).Bytes()
	return Event{ObjectID: callbackID, Opcode: wire.EvCallbackDone, Args: args}
}

func registryGlobal(registryID, name uint32, iface string, version uint32) Event {
	args := wire.NewWriter().PutUint32(name).PutString(iface).PutUint32(version).Bytes()
	return Event{ObjectID: registryID, Opcode: wire.EvRegistryGlobal, Args: args}
}

func shmFormat(shmID, format uint32) Event {
	args := wire.NewWriter().PutUint32(format).Bytes()
	return Event{ObjectID: shmID, Opcode: wire.EvShmFormat, Args: args}
}

func bufferRelease(bufferID uint32) Event {
	return Event{ObjectID: bufferID, Opcode: wire.EvBufferRelease, Args: nil}
}

func surfaceEnter(surfaceID, outputID uint32) Event {
	args := wire.NewWriter().PutUint32(outputID).Bytes()
	return Event{ObjectID: surfaceID, Opcode: wire.EvSurfaceEnter, Args: args}
}

func surfaceLeave(surfaceID, outputID uint32) Event {
	args := wire.NewWriter().PutUint32(outputID).Bytes()
	return Event{ObjectID: surfaceID, Opcode: wire.EvSurfaceLeave, Args: args}
}

func surfacePreferredBufferScale(surfaceID uint32, factor int32) Event {
	args := wire.NewWriter().PutInt32(factor).Bytes()
	return Event{ObjectID: surfaceID, Opcode: wire.EvSurfacePreferredBufferScale, Args: args}
}

func surfacePreferredBufferTransform(surfaceID, transform uint32) Event {
	args := wire.NewWriter().PutUint32(transform).Bytes()
	return Event{ObjectID: surfaceID, Opcode: wire.EvSurfacePreferredBufferTransform, Args: args}
}
