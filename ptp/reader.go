package ptp

import (
	"encoding/binary"
	"unicode/utf16"
)

// Reader decodes the little-endian PTP wire primitives from an in-memory
// buffer: fixed-width integers, 128-bit (lo,hi) pairs, length-prefixed
// vectors, and PTP strings. It never reads past the buffer it was given;
// every method reports a *MalformedError instead.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential little-endian decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes remaining.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// ExpectEnd fails with a MalformedError if bytes remain unconsumed. Every
// descriptor decode (§4.3) calls this once it has read every field.
func (r *Reader) ExpectEnd() error {
	if r.Len() != 0 {
		return malformed("%d trailing byte(s) after decode", r.Len())
	}
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.Len() < n {
		return nil, ErrUnexpectedEnd
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadI16 reads a little-endian int16.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI64 reads a little-endian int64.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadU128 reads a 128-bit value as two consecutive little-endian u64s,
// wire order (lo, hi).
func (r *Reader) ReadU128() (lo uint64, hi uint64, err error) {
	lo, err = r.ReadU64()
	if err != nil {
		return 0, 0, err
	}
	hi, err = r.ReadU64()
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// ReadI128 has the same wire representation as ReadU128; PTP does not
// distinguish sign for the purpose of transport.
func (r *Reader) ReadI128() (lo uint64, hi uint64, err error) {
	return r.ReadU128()
}

func readVector[T any](r *Reader, readOne func(*Reader) (T, error)) ([]T, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := readOne(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadU8Vec reads a u32-length-prefixed vector of uint8.
func (r *Reader) ReadU8Vec() ([]uint8, error) { return readVector(r, (*Reader).ReadU8) }

// ReadI8Vec reads a u32-length-prefixed vector of int8.
func (r *Reader) ReadI8Vec() ([]int8, error) { return readVector(r, (*Reader).ReadI8) }

// ReadU16Vec reads a u32-length-prefixed vector of uint16.
func (r *Reader) ReadU16Vec() ([]uint16, error) { return readVector(r, (*Reader).ReadU16) }

// ReadI16Vec reads a u32-length-prefixed vector of int16.
func (r *Reader) ReadI16Vec() ([]int16, error) { return readVector(r, (*Reader).ReadI16) }

// ReadU32Vec reads a u32-length-prefixed vector of uint32.
func (r *Reader) ReadU32Vec() ([]uint32, error) { return readVector(r, (*Reader).ReadU32) }

// ReadI32Vec reads a u32-length-prefixed vector of int32.
func (r *Reader) ReadI32Vec() ([]int32, error) { return readVector(r, (*Reader).ReadI32) }

// ReadU64Vec reads a u32-length-prefixed vector of uint64.
func (r *Reader) ReadU64Vec() ([]uint64, error) { return readVector(r, (*Reader).ReadU64) }

// ReadI64Vec reads a u32-length-prefixed vector of int64.
func (r *Reader) ReadI64Vec() ([]int64, error) { return readVector(r, (*Reader).ReadI64) }

// U128Pair is the in-memory (lo, hi) representation of a 128-bit PTP value.
type U128Pair struct {
	Lo, Hi uint64
}

func (r *Reader) readU128Pair() (U128Pair, error) {
	lo, hi, err := r.ReadU128()
	return U128Pair{Lo: lo, Hi: hi}, err
}

// ReadU128Vec reads a u32-length-prefixed vector of 128-bit values.
func (r *Reader) ReadU128Vec() ([]U128Pair, error) { return readVector(r, (*Reader).readU128Pair) }

// ReadI128Vec reads a u32-length-prefixed vector of 128-bit values.
func (r *Reader) ReadI128Vec() ([]U128Pair, error) { return readVector(r, (*Reader).readU128Pair) }

// ReadString reads a PTP string: a one-byte length (in UTF-16 code units,
// including the mandatory null terminator), followed by that many
// little-endian UTF-16 code units. A length of zero means the empty string
// and no further bytes are consumed.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	units := make([]uint16, n)
	for i := 0; i < int(n); i++ {
		u, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		units[i] = u
	}
	// the last code unit is the mandatory null terminator; discard it.
	units = units[:len(units)-1]
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u < 0xDC00 {
			if i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] < 0xE000 {
				i++
				continue
			}
			return "", malformed("unpaired UTF-16 surrogate at code unit %d", i)
		}
		if u >= 0xDC00 && u < 0xE000 {
			return "", malformed("unpaired UTF-16 surrogate at code unit %d", i)
		}
	}
	return string(utf16.Decode(units)), nil
}
