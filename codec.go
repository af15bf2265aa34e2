package xls97

import (
	"encoding/binary"
	"math"
)

// cursor is a bounds-checked little-endian reader over a byte buffer.
// No read ever panics: a read past the end of buf leaves the cursor
// unchanged and returns ok=false, so a corrupt or truncated input yields
// a ParseError at the call site instead of an out-of-bounds crash.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) u8() (byte, bool) {
	if c.remaining() < 1 {
		return 0, false
	}
	v := c.buf[c.pos]
	c.pos++
	return v, true
}

func (c *cursor) u16() (uint16, bool) {
	if c.remaining() < 2 {
		return 0, false
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v, true
}

func (c *cursor) u32() (uint32, bool) {
	if c.remaining() < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v, true
}

func (c *cursor) i32() (int32, bool) {
	v, ok := c.u32()
	if !ok {
		return 0, false
	}
	return int32(v), true
}

func (c *cursor) u64() (uint64, bool) {
	if c.remaining() < 8 {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos : c.pos+8])
	c.pos += 8
	return v, true
}

func (c *cursor) f64() (float64, bool) {
	v, ok := c.u64()
	if !ok {
		return 0, false
	}
	return math.Float64frombits(v), true
}

func (c *cursor) bytes(n int) ([]byte, bool) {
	if n < 0 || c.remaining() < n {
		return nil, false
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v, true
}

// Free functions for call sites that already hold a byte slice and an
// absolute offset, mirroring the cursor's bounds checks without requiring
// a cursor to be constructed first.

func readU16At(buf []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(buf[off : off+2]), true
}

func readU32At(buf []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[off : off+4]), true
}

func readF64At(buf []byte, off int) (float64, bool) {
	v, ok := readU64At(buf, off)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(v), true
}

func readU64At(buf []byte, off int) (uint64, bool) {
	if off < 0 || off+8 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[off : off+8]), true
}

// putU16/putU32/putU64/putF64 append little-endian encodings to dst,
// matching the teacher's make-a-fixed-buffer-then-PutUintNN idiom but as
// an append-style helper so record builders don't need to pre-compute
// exact payload lengths.

func putU8(dst []byte, v byte) []byte {
	return append(dst, v)
}

func putU16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func putU32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func putU64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func putF64(dst []byte, v float64) []byte {
	return putU64(dst, math.Float64bits(v))
}
