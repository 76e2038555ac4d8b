package btf

import "encoding/binary"

// reader is a forward-only cursor over a byte slice with endian-aware
// fixed-width reads. It never allocates and never copies the backing
// slice; callers that need a private copy of a substring take one
// themselves.
type reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func newReader(buf []byte, order binary.ByteOrder) *reader {
	return &reader{buf: buf, order: order}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) u32() (uint32, bool) {
	if r.remaining() < 4 {
		return 0, false
	}
	v := r.order.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, true
}

func (r *reader) i32() (int32, bool) {
	v, ok := r.u32()
	return int32(v), ok
}

func (r *reader) u16() (uint16, bool) {
	if r.remaining() < 2 {
		return 0, false
	}
	v := r.order.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, true
}

func (r *reader) u8() (uint8, bool) {
	if r.remaining() < 1 {
		return 0, false
	}
	v := r.buf[r.pos]
	r.pos++
	return v, true
}

// skip advances the cursor by n bytes, reporting false without moving
// if that would run past the end of the buffer.
func (r *reader) skip(n int) bool {
	if r.remaining() < n {
		return false
	}
	r.pos += n
	return true
}
