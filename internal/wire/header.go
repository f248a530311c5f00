package wire

import "encoding/binary"

// Header is the 8-byte message prefix common to every request and event.
type Header struct {
	ObjectID uint32
	Opcode   uint16
	Length   uint16
}

// Encode writes the header's wire representation into dst, which must be at
// least HeaderSize bytes.
func (h Header) Encode(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], h.ObjectID)
	binary.LittleEndian.PutUint16(dst[4:6], h.Opcode)
	binary.LittleEndian.PutUint16(dst[6:8], h.Length)
}

// DecodeHeader reads a header from the first HeaderSize bytes of src. The
// caller is responsible for ensuring src is at least HeaderSize long.
func DecodeHeader(src []byte) Header {
	return Header{
		ObjectID: binary.LittleEndian.Uint32(src[0:4]),
		Opcode:   binary.LittleEndian.Uint16(src[4:6]),
		Length:   binary.LittleEndian.Uint16(src[6:8]),
	}
}

// PeekLength reads just the length field out of a buffer that is known to
// hold at least HeaderSize bytes, without decoding the rest of the header.
func PeekLength(src []byte) uint16 {
	return binary.LittleEndian.Uint16(src[6:8])
}

// Encode assembles a complete frame (header + args) for objectID/opcode.
func Encode(objectID uint32, opcode uint16, args []byte) []byte {
	total := HeaderSize + len(args)
	buf := make([]byte, total)
	Header{ObjectID: objectID, Opcode: opcode, Length: uint16(total)}.Encode(buf)
	copy(buf[HeaderSize:], args)
	return buf
}
