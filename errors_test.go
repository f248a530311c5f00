package compositor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wlbind/waycompd/internal/protoerr"
)

func TestStructuredErrorMessage(t *testing.T) {
	err := protoerr.New("shm.create_pool", CodeMappingError, "mmap failed")
	require.Equal(t, "waycompd: mmap failed (op=shm.create_pool)", err.Error())
}

func TestIsCodeMatchesTaxonomy(t *testing.T) {
	err := protoerr.New("surface.set_buffer_transform", CodeProtocolViolation, "transform out of range")
	require.True(t, IsCode(err, CodeProtocolViolation))
	require.False(t, IsCode(err, CodeMappingError))
}

func TestErrorsIsMatchesOnCodeNotIdentity(t *testing.T) {
	a := protoerr.New("op-a", CodeInvalidObject, "first")
	b := protoerr.New("op-b", CodeInvalidObject, "second")
	require.True(t, errors.Is(a, b), "two distinct errors sharing a taxonomy code should satisfy errors.Is")
}

func TestWrapPreservesCauseAndCode(t *testing.T) {
	inner := errors.New("boom")
	wrapped := protoerr.Wrap("shm_pool.resize", CodeResizeFailed, inner)
	require.ErrorIs(t, wrapped, inner)
	require.True(t, IsCode(wrapped, CodeResizeFailed))
}

func TestWithObjectAttachesContext(t *testing.T) {
	err := protoerr.New("buffer.destroy", CodeInvalidObject, "unknown id").WithObject(6, 0)
	require.Equal(t, uint32(6), err.ObjectID)
	require.Equal(t, 0, err.Opcode)
}
