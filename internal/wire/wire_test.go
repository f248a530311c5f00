package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{ObjectID: 7, Opcode: 3, Length: 16}
	buf := make([]byte, HeaderSize)
	h.Encode(buf)

	decoded := DecodeHeader(buf)
	require.Equal(t, h, decoded)
	require.Equal(t, h.Length, PeekLength(buf))
}

func TestEncodeProducesWellFormedFrame(t *testing.T) {
	args := NewWriter().PutUint32(42).PutString("wl_shm").Bytes()
	frame := Encode(2, OpRegistryBind, args)

	h := DecodeHeader(frame)
	require.Equal(t, uint32(2), h.ObjectID)
	require.Equal(t, OpRegistryBind, h.Opcode)
	require.Equal(t, int(h.Length), len(frame))
	require.Equal(t, HeaderSize+len(args), len(frame))
}

func TestWriterPadsStringToFourByteBoundary(t *testing.T) {
	w := NewWriter().PutString("hi")
	// "hi" + nul = 3 bytes, padded to 4; plus the 4-byte length prefix = 8.
	require.Equal(t, 8, len(w.Bytes()))
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "wl_shm", "exactly4", "this is a longer interface name"} {
		w := NewWriter().PutString(s)
		r := NewReader(w.Bytes())
		got, err := r.String()
		require.NoError(t, err)
		require.Equal(t, s, got)
		require.Equal(t, 0, r.Remaining())
	}
}

func TestArrayRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	w := NewWriter().PutArray(data)
	r := NewReader(w.Bytes())
	got, err := r.Array()
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestReaderRejectsTruncatedUint32(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.Uint32()
	require.Error(t, err)
	var malformed MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestReaderRejectsTruncatedString(t *testing.T) {
	// Claims a 10-byte string but only provides 2 bytes of payload.
	w := NewWriter().PutUint32(10)
	buf := append(w.Bytes(), []byte{'h', 'i'}...)
	r := NewReader(buf)
	_, err := r.String()
	require.Error(t, err)
}

func TestMixedArgumentSequence(t *testing.T) {
	w := NewWriter().
		PutUint32(1).
		PutString("wl_compositor").
		PutUint32(6).
		PutUint32(2)

	r := NewReader(w.Bytes())
	name, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(1), name)

	iface, err := r.String()
	require.NoError(t, err)
	require.Equal(t, "wl_compositor", iface)

	version, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(6), version)

	newID, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(2), newID)
	require.Equal(t, 0, r.Remaining())
}
