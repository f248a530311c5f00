// Package frame extracts complete wire messages from a client's byte stream.
package frame

import (
	"fmt"

	"github.com/wlbind/waycompd/internal/constants"
	"github.com/wlbind/waycompd/internal/wire"
)

// Frame is one fully-decoded message ready for dispatch.
type Frame struct {
	ObjectID uint32
	Opcode   uint16
	Args     []byte
}

// SizeError reports a frame whose declared length violates the sanity bounds.
type SizeError struct {
	Declared int
	Max      int
}

func (e SizeError) Error() string {
	return fmt.Sprintf("frame: declared length %d outside [%d, %d]", e.Declared, constants.MinFrameSize, e.Max)
}

// Assembler buffers partial bytes across reads and yields complete frames.
// It is not safe for concurrent use; each client owns exactly one.
type Assembler struct {
	buf      []byte
	maxFrame int
}

// NewAssembler returns an empty assembler bounded by constants.MaxFrameSize.
func NewAssembler() *Assembler {
	return NewAssemblerWithMax(constants.MaxFrameSize)
}

// NewAssemblerWithMax returns an empty assembler bounded by maxFrame instead
// of the package default, for servers configured with a non-default frame
// size ceiling.
func NewAssemblerWithMax(maxFrame int) *Assembler {
	return &Assembler{maxFrame: maxFrame}
}

// Feed appends newly-received bytes and returns every complete frame that
// can now be extracted, in wire order. Partial trailing bytes are retained
// for the next call.
func (a *Assembler) Feed(data []byte) ([]Frame, error) {
	a.buf = append(a.buf, data...)

	var frames []Frame
	for len(a.buf) >= wire.HeaderSize {
		declared := int(wire.PeekLength(a.buf))
		if declared < constants.MinFrameSize || declared > a.maxFrame {
			return frames, SizeError{Declared: declared, Max: a.maxFrame}
		}
		if len(a.buf) < declared {
			break
		}

		h := wire.DecodeHeader(a.buf[:wire.HeaderSize])
		args := make([]byte, declared-wire.HeaderSize)
		copy(args, a.buf[wire.HeaderSize:declared])
		frames = append(frames, Frame{ObjectID: h.ObjectID, Opcode: h.Opcode, Args: args})

		a.buf = a.buf[declared:]
	}
	return frames, nil
}

// Pending reports how many unconsumed bytes are buffered, for tests.
func (a *Assembler) Pending() int {
	return len(a.buf)
}
