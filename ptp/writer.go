package ptp

import (
	"encoding/binary"
	"unicode/utf16"
)

// Writer accumulates little-endian PTP wire primitives into a growable byte
// buffer: the encode-side mirror of Reader.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer. size is a hint for the initial
// capacity; zero is fine.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteU8 appends one unsigned byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteI8 appends one signed byte.
func (w *Writer) WriteI8(v int8) {
	w.WriteU8(uint8(v))
}

// WriteU16 appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteI16 appends a little-endian int16.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteI32 appends a little-endian int32.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteU64 appends a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteI64 appends a little-endian int64.
func (w *Writer) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteU128 appends a 128-bit value as two consecutive little-endian u64s,
// wire order (lo, hi).
func (w *Writer) WriteU128(lo, hi uint64) {
	w.WriteU64(lo)
	w.WriteU64(hi)
}

// WriteI128 has the same wire representation as WriteU128.
func (w *Writer) WriteI128(lo, hi uint64) {
	w.WriteU128(lo, hi)
}

func writeVector[T any](w *Writer, vs []T, writeOne func(*Writer, T)) {
	w.WriteU32(uint32(len(vs)))
	for _, v := range vs {
		writeOne(w, v)
	}
}

// WriteU8Vec appends a u32-length-prefixed vector of uint8.
func (w *Writer) WriteU8Vec(vs []uint8) { writeVector(w, vs, (*Writer).WriteU8) }

// WriteI8Vec appends a u32-length-prefixed vector of int8.
func (w *Writer) WriteI8Vec(vs []int8) { writeVector(w, vs, (*Writer).WriteI8) }

// WriteU16Vec appends a u32-length-prefixed vector of uint16.
func (w *Writer) WriteU16Vec(vs []uint16) { writeVector(w, vs, (*Writer).WriteU16) }

// WriteI16Vec appends a u32-length-prefixed vector of int16.
func (w *Writer) WriteI16Vec(vs []int16) { writeVector(w, vs, (*Writer).WriteI16) }

// WriteU32Vec appends a u32-length-prefixed vector of uint32.
func (w *Writer) WriteU32Vec(vs []uint32) { writeVector(w, vs, (*Writer).WriteU32) }

// WriteI32Vec appends a u32-length-prefixed vector of int32.
func (w *Writer) WriteI32Vec(vs []int32) { writeVector(w, vs, (*Writer).WriteI32) }

// WriteU64Vec appends a u32-length-prefixed vector of uint64.
func (w *Writer) WriteU64Vec(vs []uint64) { writeVector(w, vs, (*Writer).WriteU64) }

// WriteI64Vec appends a u32-length-prefixed vector of int64.
func (w *Writer) WriteI64Vec(vs []int64) { writeVector(w, vs, (*Writer).WriteI64) }

func (w *Writer) writeU128Pair(v U128Pair) {
	w.WriteU128(v.Lo, v.Hi)
}

// WriteU128Vec appends a u32-length-prefixed vector of 128-bit values.
func (w *Writer) WriteU128Vec(vs []U128Pair) { writeVector(w, vs, (*Writer).writeU128Pair) }

// WriteI128Vec appends a u32-length-prefixed vector of 128-bit values.
func (w *Writer) WriteI128Vec(vs []U128Pair) { writeVector(w, vs, (*Writer).writeU128Pair) }

// WriteString appends s as a PTP string: a one-byte length in UTF-16 code
// units (including the mandatory null terminator) followed by that many
// little-endian UTF-16 code units. The empty string is written as a single
// zero length byte with no code units.
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.WriteU8(0)
		return
	}
	units := utf16.Encode([]rune(s))
	w.WriteU8(uint8(len(units) + 1))
	for _, u := range units {
		w.WriteU16(u)
	}
	w.WriteU16(0)
}
