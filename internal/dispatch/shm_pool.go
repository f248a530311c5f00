package dispatch

import (
	"errors"

	"github.com/wlbind/waycompd/internal/frame"
	"github.com/wlbind/waycompd/internal/protoerr"
	"github.com/wlbind/waycompd/internal/registry"
	"github.com/wlbind/waycompd/internal/shm"
	"github.com/wlbind/waycompd/internal/wire"
)

func (d *Dispatcher) dispatchShmPool(f frame.Frame, obj *registry.Object) ([]Event, error) {
	switch f.Opcode {
	case wire.OpShmPoolCreateBuffer:
		return d.shmPoolCreateBuffer(f, obj)
	case wire.OpShmPoolDestroy:
		return d.shmPoolDestroy(f, obj)
	case wire.OpShmPoolResize:
		return d.shmPoolResize(f, obj)
	default:
		d.Log.Warn("unknown shm_pool opcode", "opcode", f.Opcode)
		return nil, nil
	}
}

func (d *Dispatcher) shmPoolCreateBuffer(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	newID, err := r.Uint32()
	if err != nil {
		return nil, malformed("shm_pool.create_buffer", f, err)
	}
	offset, err := r.Int32()
	if err != nil {
		return nil, malformed("shm_pool.create_buffer", f, err)
	}
	width, err := r.Int32()
	if err != nil {
		return nil, malformed("shm_pool.create_buffer", f, err)
	}
	height, err := r.Int32()
	if err != nil {
		return nil, malformed("shm_pool.create_buffer", f, err)
	}
	stride, err := r.Int32()
	if err != nil {
		return nil, malformed("shm_pool.create_buffer", f, err)
	}
	format, err := r.Uint32()
	if err != nil {
		return nil, malformed("shm_pool.create_buffer", f, err)
	}

	pool := obj.ShmPool.Pool
	pool.Retain()

	if err := d.Registry.Insert(newID, &registry.Object{
		Kind: registry.KindBuffer,
		Buffer: &registry.BufferState{
			Pool:   pool,
			Offset: offset,
			Width:  width,
			Height: height,
			Stride: stride,
			Format: format,
		},
	}); err != nil {
		pool.Release()
		return nil, err
	}
	return nil, nil
}

// shmPoolDestroy removes the shm_pool object. Buffers created from it keep
// the mapping alive via their own reference, per §3's lifecycle rule.
func (d *Dispatcher) shmPoolDestroy(f frame.Frame, obj *registry.Object) ([]Event, error) {
	d.Registry.Remove(f.ObjectID)
	if err := obj.ShmPool.Pool.Release(); err != nil {
		d.Log.Warn("shm_pool.destroy: releasing mapping", "error", err)
	}
	return []Event{displayDeleteID(f.ObjectID)}, nil
}

func (d *Dispatcher) shmPoolResize(f frame.Frame, obj *registry.Object) ([]Event, error) {
	r := wire.NewReader(f.Args)
	newSize, err := r.Int32()
	if err != nil {
		return nil, malformed("shm_pool.resize", f, err)
	}

	if err := obj.ShmPool.Pool.Resize(int64(newSize)); err != nil {
		code := protoerr.CodeResizeFailed
		var mappingErr shm.MappingError
		if errors.As(err, &mappingErr) {
			code = protoerr.CodeProtocolViolation
		}
		return nil, protoerr.Wrap("shm_pool.resize", code, err).WithObject(f.ObjectID, int(f.Opcode))
	}
	return nil, nil
}
