package dispatch

import (
	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/protoerr"
	"github.com/wlbind/waycompd/internal/registry"
	"github.com/wlbind/waycompd/internal/shm"
	"github.com/wlbind/waycompd/internal/wire"
)

func (d *Dispatcher) dispatchShm(f frame.Frame) ([]Event, error) {
	switch f.Opcode {
	case wire.OpShmCreatePool:
		return d.shmCreatePool(f)
	case wire.OpShmRelease:
		return d.shmRelease(f)
	default:
		d.Log.Warn("unknown shm opcode", "opcode", f.Opcode)
		return nil, nil
	}
}

func (d *Dispatcher) shmCreatePool(f frame.Frame) ([]Event, error) {
	r := wire.NewReader(f.Args)
	newID, err := r.Uint32()
	if err != nil {
		return nil, malformed("shm.create_pool", f, err)
	}
	size, err := r.Int32()
	if err != nil {
		return nil, malformed("shm.create_pool", f, err)
	}

	fd, ok := d.FDs.Pop()
	if !ok {
		return nil, protoerr.New("shm.create_pool", protoerr.CodeProtocolViolation,
			"create_pool requires a file descriptor but none was queued").WithObject(f.ObjectID, int(f.Opcode))
	}

	pool, err := shm.NewPool(fd, int64(size))
	if err != nil {
		return nil, protoerr.Wrap("shm.create_pool", protoerr.CodeMappingError, err).WithObject(f.ObjectID, int(f.Opcode))
	}

	if err := d.Registry.Insert(newID, &registry.Object{
		Kind:    registry.KindShmPool,
		ShmPool: &registry.ShmPoolState{Pool: pool},
	}); err != nil {
		pool.Close()
		return nil, err
	}
	return nil, nil
}

func (d *Dispatcher) shmRelease(f frame.Frame) ([]Event, error) {
	return []Event{d.destroyObject(f.ObjectID)}, nil
}
