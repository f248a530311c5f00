// Package registry holds one client's object-id-to-object-state map. It is
// task-local: each client connection owns exactly one Registry and accesses
// it only from its own goroutine, so no internal locking is needed.
package registry

import (
	"fmt"

	"github.com/wlbind/waycompd/internal/protoerr"
)

// Registry maps a client's object ids to their tagged-variant state.
type Registry struct {
	objects map[uint32]*Object
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{objects: make(map[uint32]*Object)}
}

// Insert binds a new object under id. Colliding with an already-bound id is
// a protocol error per §4.4: client-allocated id uniqueness is the client's
// responsibility, and the server treats a collision as fatal.
func (r *Registry) Insert(id uint32, obj *Object) error {
	if _, exists := r.objects[id]; exists {
		return protoerr.New("registry.insert", protoerr.CodeInvalidObject,
			fmt.Sprintf("id %d already bound", id)).WithObject(id, -1)
	}
	r.objects[id] = obj
	return nil
}

// Get looks up an object by id. A miss is not itself an error: callers
// should log and skip the request per the dispatcher's policy for unknown
// ids.
func (r *Registry) Get(id uint32) (*Object, bool) {
	obj, ok := r.objects[id]
	return obj, ok
}

// Remove unbinds and returns the object at id, if present.
func (r *Registry) Remove(id uint32) (*Object, bool) {
	obj, ok := r.objects[id]
	if ok {
		delete(r.objects, id)
	}
	return obj, ok
}

// SnapshotKind reports the Kind of the object at id, if present.
func (r *Registry) SnapshotKind(id uint32) (Kind, bool) {
	obj, ok := r.objects[id]
	if !ok {
		return 0, false
	}
	return obj.Kind, true
}

// Ids returns every currently-bound object id, for tests and invariant
// checks. Order is unspecified.
func (r *Registry) Ids() []uint32 {
	ids := make([]uint32, 0, len(r.objects))
	for id := range r.objects {
		ids = append(ids, id)
	}
	return ids
}

// Len reports how many objects are currently bound.
func (r *Registry) Len() int {
	return len(r.objects)
}
