// Package shm implements the shared-memory pool subsystem: a client-passed
// file descriptor is memory-mapped and can be resized in place, with buffers
// aliasing into the mapping via shared ownership.
package shm

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// MappingError wraps a failure to establish or validate a memory mapping.
type MappingError struct {
	Op  string
	Err error
}

func (e MappingError) Error() string {
	return fmt.Sprintf("shm: %s: %v", e.Op, e.Err)
}

func (e MappingError) Unwrap() error { return e.Err }

// ResizeError reports that an in-place resize could not keep the mapping's
// address, which this pool requires (buffers alias into the mapping by raw
// offset and cannot tolerate the backing address moving under them).
type ResizeError struct {
	Err error
}

func (e ResizeError) Error() string {
	return fmt.Sprintf("shm: in-place resize failed: %v", e.Err)
}

func (e ResizeError) Unwrap() error { return e.Err }

// Pool is the shared, resizable mapping behind an shm_pool object. It is
// held jointly by the ShmPool object and every Buffer created from it; the
// mapping is released only when every holder has dropped it.
type Pool struct {
	mu      sync.Mutex
	mapping []byte
	fd      int
	closed  bool
	refs    int
}

// NewPool memory-maps size bytes of fd read-write. The fd is duplicated so
// the caller remains free to close its own copy; ownership of the duplicate
// passes to the Pool.
func NewPool(fd int, size int64) (*Pool, error) {
	if size <= 0 {
		return nil, MappingError{Op: "create_pool", Err: fmt.Errorf("size must be positive, got %d", size)}
	}

	dupFD, err := unix.Dup(fd)
	if err != nil {
		return nil, MappingError{Op: "dup", Err: err}
	}

	mapping, err := unix.Mmap(dupFD, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(dupFD)
		return nil, MappingError{Op: "mmap", Err: err}
	}

	return &Pool{mapping: mapping, fd: dupFD, refs: 1}, nil
}

// Retain increments the pool's shared-ownership count. Call once per Buffer
// created from it, in addition to the implicit reference the ShmPool object
// itself holds from NewPool.
func (p *Pool) Retain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refs++
}

// Release decrements the shared-ownership count and unmaps the memory once
// the last holder (the ShmPool object or its last surviving Buffer) releases
// it. Safe to call more than once per holder only if each call is paired
// with exactly one prior Retain/NewPool.
func (p *Pool) Release() error {
	p.mu.Lock()
	p.refs--
	shouldClose := p.refs <= 0 && !p.closed
	p.mu.Unlock()
	if shouldClose {
		return p.Close()
	}
	return nil
}

// Resize grows or shrinks the mapping in place. If the kernel cannot satisfy
// the request without relocating the mapping, it returns ResizeError and the
// pool's existing mapping is left untouched.
func (p *Pool) Resize(newSize int64) error {
	if newSize <= 0 {
		return MappingError{Op: "resize", Err: fmt.Errorf("size must be positive, got %d", newSize)}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return MappingError{Op: "resize", Err: fmt.Errorf("pool already closed")}
	}

	// Flags=0 forbids the kernel from relocating the mapping; buffers hold
	// raw slices into it and cannot tolerate the address moving under them.
	resized, err := unix.Mremap(p.mapping, int(newSize), 0)
	if err != nil {
		return ResizeError{Err: err}
	}
	p.mapping = resized
	return nil
}

// Bytes returns the current mapping. Callers must not retain the slice past
// a subsequent Resize: the mapping keeps its address, but its length changes,
// and a shrink unmaps the tail the old slice still covers.
func (p *Pool) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mapping
}

// View returns the [offset, offset+length) slice of the mapping for a
// buffer, bounds-checked against the pool's current size.
func (p *Pool) View(offset, length int64) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if offset < 0 || length < 0 || offset+length > int64(len(p.mapping)) {
		return nil, fmt.Errorf("shm: view [%d, %d) out of bounds for pool of size %d", offset, offset+length, len(p.mapping))
	}
	return p.mapping[offset : offset+length], nil
}

// Size reports the current mapping length.
func (p *Pool) Size() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.mapping))
}

// Close unmaps the memory and closes the duplicated fd. Safe to call more
// than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	err := unix.Munmap(p.mapping)
	closeErr := unix.Close(p.fd)
	if err != nil {
		return err
	}
	return closeErr
}
