package wire

import "encoding/binary"

// writer serializes a packed record to its wire bytes. Scalar writes align
// to the field's natural alignment before appending, the same way the
// legacy compiler's #pragma pack(N) directive does; byte and byte-array
// writes never align. Call alignEnd once all fields are written to apply
// the struct's own tail padding.
type writer struct {
	buf []byte
}

func newWriter(sizeHint int) *writer {
	return &writer{buf: make([]byte, 0, sizeHint)}
}

func (w *writer) align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *writer) alignEnd(n int) { w.align(n) }

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) i8(v int8)    { w.u8(uint8(v)) }
func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *writer) u16(v uint16) {
	w.align(2)
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) i16(v int16) { w.u16(uint16(v)) }

func (w *writer) u32(v uint32) {
	w.align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) f32(v float32) { w.u32(f32bits(v)) }

// raw variants skip alignment entirely, for tight-pack-1 records where no
// field is ever padded regardless of its natural alignment.
func (w *writer) u16raw(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *writer) u32raw(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) i32raw(v int32)  { w.u32raw(uint32(v)) }

// reader parses a packed record from its exact-size wire bytes, mirroring
// writer's alignment rules field for field.
type reader struct {
	buf []byte
	off int
}

func newReader(b []byte) *reader { return &reader{buf: b} }

func (r *reader) align(n int) {
	for r.off%n != 0 {
		r.off++
	}
}

func (r *reader) alignEnd(n int) { r.align(n) }

func (r *reader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) i8() int8 { return int8(r.u8()) }

func (r *reader) bytes(n int) []byte {
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u16() uint16 {
	r.align(2)
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *reader) i16() int16 { return int16(r.u16()) }

func (r *reader) u32() uint32 {
	r.align(4)
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) f32() float32 { return f32frombits(r.u32()) }

func (r *reader) u16raw() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *reader) u32raw() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) i32raw() int32 { return int32(r.u32raw()) }
