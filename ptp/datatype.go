package ptp

// Type codes for the PTP DataType tagged union (ISO 15740 §5.3, table 14).
const (
	TypeUndef   uint16 = 0x0000
	TypeInt8    uint16 = 0x0001
	TypeUint8   uint16 = 0x0002
	TypeInt16   uint16 = 0x0003
	TypeUint16  uint16 = 0x0004
	TypeInt32   uint16 = 0x0005
	TypeUint32  uint16 = 0x0006
	TypeInt64   uint16 = 0x0007
	TypeUint64  uint16 = 0x0008
	TypeInt128  uint16 = 0x0009
	TypeUint128 uint16 = 0x000A

	TypeAInt8    uint16 = 0x4001
	TypeAUint8   uint16 = 0x4002
	TypeAInt16   uint16 = 0x4003
	TypeAUint16  uint16 = 0x4004
	TypeAInt32   uint16 = 0x4005
	TypeAUint32  uint16 = 0x4006
	TypeAInt64   uint16 = 0x4007
	TypeAUint64  uint16 = 0x4008
	TypeAInt128  uint16 = 0x4009
	TypeAUint128 uint16 = 0x400A

	TypeStr uint16 = 0xFFFF
)

// DataType is the tagged union described by spec §4.2: every PTP scalar and
// array datatype plus the string datatype. Exactly one of its fields is
// meaningful, selected by the type code (see TypeCode); the zero value is
// Undef.
type DataType struct {
	code uint16

	i8  int8
	u8  uint8
	i16 int16
	u16 uint16
	i32 int32
	u32 uint32
	i64 int64
	u64 uint64
	i128 U128Pair
	u128 U128Pair
	str  string

	i8s  []int8
	u8s  []uint8
	i16s []int16
	u16s []uint16
	i32s []int32
	u32s []uint32
	i64s []int64
	u64s []uint64
	i128s []U128Pair
	u128s []U128Pair
}

// TypeCode returns the PTP type code this value was created with.
func (v DataType) TypeCode() uint16 {
	return v.code
}

// UndefValue constructs the Undef variant.
func UndefValue() DataType { return DataType{code: TypeUndef} }

// Int8Value constructs an INT8 scalar.
func Int8Value(x int8) DataType { return DataType{code: TypeInt8, i8: x} }

// Uint8Value constructs a UINT8 scalar.
func Uint8Value(x uint8) DataType { return DataType{code: TypeUint8, u8: x} }

// Int16Value constructs an INT16 scalar.
func Int16Value(x int16) DataType { return DataType{code: TypeInt16, i16: x} }

// Uint16Value constructs a UINT16 scalar.
func Uint16Value(x uint16) DataType { return DataType{code: TypeUint16, u16: x} }

// Int32Value constructs an INT32 scalar.
func Int32Value(x int32) DataType { return DataType{code: TypeInt32, i32: x} }

// Uint32Value constructs a UINT32 scalar.
func Uint32Value(x uint32) DataType { return DataType{code: TypeUint32, u32: x} }

// Int64Value constructs an INT64 scalar.
func Int64Value(x int64) DataType { return DataType{code: TypeInt64, i64: x} }

// Uint64Value constructs a UINT64 scalar.
func Uint64Value(x uint64) DataType { return DataType{code: TypeUint64, u64: x} }

// Int128Value constructs an INT128 scalar from its wire-order (lo, hi) pair.
func Int128Value(lo, hi uint64) DataType {
	return DataType{code: TypeInt128, i128: U128Pair{Lo: lo, Hi: hi}}
}

// Uint128Value constructs a UINT128 scalar from its wire-order (lo, hi) pair.
func Uint128Value(lo, hi uint64) DataType {
	return DataType{code: TypeUint128, u128: U128Pair{Lo: lo, Hi: hi}}
}

// StringValue constructs the STR variant.
func StringValue(s string) DataType { return DataType{code: TypeStr, str: s} }

// Int8ArrayValue constructs an array-of-INT8 variant.
func Int8ArrayValue(xs []int8) DataType { return DataType{code: TypeAInt8, i8s: xs} }

// Uint8ArrayValue constructs an array-of-UINT8 variant.
func Uint8ArrayValue(xs []uint8) DataType { return DataType{code: TypeAUint8, u8s: xs} }

// Int16ArrayValue constructs an array-of-INT16 variant.
func Int16ArrayValue(xs []int16) DataType { return DataType{code: TypeAInt16, i16s: xs} }

// Uint16ArrayValue constructs an array-of-UINT16 variant.
func Uint16ArrayValue(xs []uint16) DataType { return DataType{code: TypeAUint16, u16s: xs} }

// Int32ArrayValue constructs an array-of-INT32 variant.
func Int32ArrayValue(xs []int32) DataType { return DataType{code: TypeAInt32, i32s: xs} }

// Uint32ArrayValue constructs an array-of-UINT32 variant.
func Uint32ArrayValue(xs []uint32) DataType { return DataType{code: TypeAUint32, u32s: xs} }

// Int64ArrayValue constructs an array-of-INT64 variant.
func Int64ArrayValue(xs []int64) DataType { return DataType{code: TypeAInt64, i64s: xs} }

// Uint64ArrayValue constructs an array-of-UINT64 variant.
func Uint64ArrayValue(xs []uint64) DataType { return DataType{code: TypeAUint64, u64s: xs} }

// Int128ArrayValue constructs an array-of-INT128 variant.
func Int128ArrayValue(xs []U128Pair) DataType { return DataType{code: TypeAInt128, i128s: xs} }

// Uint128ArrayValue constructs an array-of-UINT128 variant.
func Uint128ArrayValue(xs []U128Pair) DataType { return DataType{code: TypeAUint128, u128s: xs} }

// Int8 returns the scalar value and true if this is an INT8 variant.
func (v DataType) Int8() (int8, bool) { return v.i8, v.code == TypeInt8 }

// Uint8 returns the scalar value and true if this is a UINT8 variant.
func (v DataType) Uint8() (uint8, bool) { return v.u8, v.code == TypeUint8 }

// Int16 returns the scalar value and true if this is an INT16 variant.
func (v DataType) Int16() (int16, bool) { return v.i16, v.code == TypeInt16 }

// Uint16 returns the scalar value and true if this is a UINT16 variant.
func (v DataType) Uint16() (uint16, bool) { return v.u16, v.code == TypeUint16 }

// Int32 returns the scalar value and true if this is an INT32 variant.
func (v DataType) Int32() (int32, bool) { return v.i32, v.code == TypeInt32 }

// Uint32 returns the scalar value and true if this is a UINT32 variant.
func (v DataType) Uint32() (uint32, bool) { return v.u32, v.code == TypeUint32 }

// Int64 returns the scalar value and true if this is an INT64 variant.
func (v DataType) Int64() (int64, bool) { return v.i64, v.code == TypeInt64 }

// Uint64 returns the scalar value and true if this is a UINT64 variant.
func (v DataType) Uint64() (uint64, bool) { return v.u64, v.code == TypeUint64 }

// Str returns the string and true if this is the STR variant.
func (v DataType) Str() (string, bool) { return v.str, v.code == TypeStr }

// IsUndef reports whether v is the Undef variant.
func (v DataType) IsUndef() bool { return v.code == TypeUndef }

// DecodeDataType reads one DataType value of the given PTP type code from r.
// Per spec §9, an unrecognized code yields Undef and consumes nothing from
// r — callers that need strict behavior should gate on a known type-code
// set before calling this.
func DecodeDataType(code uint16, r *Reader) (DataType, error) {
	switch code {
	case TypeUndef:
		return UndefValue(), nil
	case TypeInt8:
		x, err := r.ReadI8()
		return Int8Value(x), err
	case TypeUint8:
		x, err := r.ReadU8()
		return Uint8Value(x), err
	case TypeInt16:
		x, err := r.ReadI16()
		return Int16Value(x), err
	case TypeUint16:
		x, err := r.ReadU16()
		return Uint16Value(x), err
	case TypeInt32:
		x, err := r.ReadI32()
		return Int32Value(x), err
	case TypeUint32:
		x, err := r.ReadU32()
		return Uint32Value(x), err
	case TypeInt64:
		x, err := r.ReadI64()
		return Int64Value(x), err
	case TypeUint64:
		x, err := r.ReadU64()
		return Uint64Value(x), err
	case TypeInt128:
		lo, hi, err := r.ReadI128()
		return Int128Value(lo, hi), err
	case TypeUint128:
		lo, hi, err := r.ReadU128()
		return Uint128Value(lo, hi), err
	case TypeAInt8:
		xs, err := r.ReadI8Vec()
		return Int8ArrayValue(xs), err
	case TypeAUint8:
		xs, err := r.ReadU8Vec()
		return Uint8ArrayValue(xs), err
	case TypeAInt16:
		xs, err := r.ReadI16Vec()
		return Int16ArrayValue(xs), err
	case TypeAUint16:
		xs, err := r.ReadU16Vec()
		return Uint16ArrayValue(xs), err
	case TypeAInt32:
		xs, err := r.ReadI32Vec()
		return Int32ArrayValue(xs), err
	case TypeAUint32:
		xs, err := r.ReadU32Vec()
		return Uint32ArrayValue(xs), err
	case TypeAInt64:
		xs, err := r.ReadI64Vec()
		return Int64ArrayValue(xs), err
	case TypeAUint64:
		xs, err := r.ReadU64Vec()
		return Uint64ArrayValue(xs), err
	case TypeAInt128:
		xs, err := r.ReadI128Vec()
		return Int128ArrayValue(xs), err
	case TypeAUint128:
		xs, err := r.ReadU128Vec()
		return Uint128ArrayValue(xs), err
	case TypeStr:
		s, err := r.ReadString()
		return StringValue(s), err
	default:
		return UndefValue(), nil
	}
}

// Encode serializes v back to its wire representation. The Undef variant
// encodes to nothing.
func (v DataType) Encode() []byte {
	w := NewWriter(0)
	switch v.code {
	case TypeUndef:
	case TypeInt8:
		w.WriteI8(v.i8)
	case TypeUint8:
		w.WriteU8(v.u8)
	case TypeInt16:
		w.WriteI16(v.i16)
	case TypeUint16:
		w.WriteU16(v.u16)
	case TypeInt32:
		w.WriteI32(v.i32)
	case TypeUint32:
		w.WriteU32(v.u32)
	case TypeInt64:
		w.WriteI64(v.i64)
	case TypeUint64:
		w.WriteU64(v.u64)
	case TypeInt128:
		w.WriteI128(v.i128.Lo, v.i128.Hi)
	case TypeUint128:
		w.WriteU128(v.u128.Lo, v.u128.Hi)
	case TypeAInt8:
		w.WriteI8Vec(v.i8s)
	case TypeAUint8:
		w.WriteU8Vec(v.u8s)
	case TypeAInt16:
		w.WriteI16Vec(v.i16s)
	case TypeAUint16:
		w.WriteU16Vec(v.u16s)
	case TypeAInt32:
		w.WriteI32Vec(v.i32s)
	case TypeAUint32:
		w.WriteU32Vec(v.u32s)
	case TypeAInt64:
		w.WriteI64Vec(v.i64s)
	case TypeAUint64:
		w.WriteU64Vec(v.u64s)
	case TypeAInt128:
		w.WriteI128Vec(v.i128s)
	case TypeAUint128:
		w.WriteU128Vec(v.u128s)
	case TypeStr:
		w.WriteString(v.str)
	}
	return w.Bytes()
}
