package ptp

import (
	"reflect"
	"testing"
)

func TestPTPStringEmpty(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("")
	got := w.Bytes()
	want := []byte{0x00}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("encode empty string = % x, want % x", got, want)
	}

	s, err := NewReader(want).ReadString()
	if err != nil {
		t.Fatalf("decode empty string: %v", err)
	}
	if s != "" {
		t.Fatalf("decode empty string = %q, want \"\"", s)
	}
}

func TestPTPStringOK(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("OK")
	got := w.Bytes()
	want := []byte{0x03, 0x4F, 0x00, 0x4B, 0x00, 0x00, 0x00}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("encode \"OK\" = % x, want % x", got, want)
	}

	s, err := NewReader(want).ReadString()
	if err != nil {
		t.Fatalf("decode \"OK\": %v", err)
	}
	if s != "OK" {
		t.Fatalf("decode \"OK\" = %q, want \"OK\"", s)
	}
}

func TestPTPStringRoundTrip(t *testing.T) {
	cases := []string{"", "a", "OK", "hello, world", "日本語", "🎉"}
	for _, s := range cases {
		w := NewWriter(0)
		w.WriteString(s)
		got, err := NewReader(w.Bytes()).ReadString()
		if err != nil {
			t.Fatalf("round trip %q: %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip %q: got %q", s, got)
		}
	}
}

func TestReadStringTruncated(t *testing.T) {
	// length byte claims 3 code units but only 2 bytes follow.
	buf := []byte{0x03, 0x4F, 0x00}
	if _, err := NewReader(buf).ReadString(); err == nil {
		t.Fatal("expected error decoding truncated string")
	}
}

func TestExpectEndTrailingBytes(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	if _, err := r.ReadU16(); err != nil {
		t.Fatal(err)
	}
	if err := r.ExpectEnd(); err == nil {
		t.Fatal("expected ExpectEnd to fail with a trailing byte")
	}
}

func TestExpectEndExact(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.ReadU16(); err != nil {
		t.Fatal(err)
	}
	if err := r.ExpectEnd(); err != nil {
		t.Fatalf("ExpectEnd: %v", err)
	}
}

func TestDataTypeRoundTrip(t *testing.T) {
	cases := []DataType{
		UndefValue(),
		Int8Value(-5),
		Uint8Value(250),
		Int16Value(-1000),
		Uint16Value(60000),
		Int32Value(-123456),
		Uint32Value(123456789),
		Int64Value(-1 << 40),
		Uint64Value(1 << 40),
		Int128Value(0x1122334455667788, 0x99AABBCCDDEEFF00),
		Uint128Value(0x1122334455667788, 0x99AABBCCDDEEFF00),
		StringValue("OK"),
		StringValue(""),
		Int8ArrayValue([]int8{1, -2, 3}),
		Uint8ArrayValue([]uint8{1, 2, 3}),
		Uint16ArrayValue([]uint16{100, 200, 300}),
		Int32ArrayValue([]int32{-1, 0, 1}),
		Uint32ArrayValue([]uint32{}),
		Uint64ArrayValue([]uint64{1, 2, 3}),
		Uint128ArrayValue([]U128Pair{{Lo: 1, Hi: 2}}),
	}
	for _, v := range cases {
		encoded := v.Encode()
		decoded, err := DecodeDataType(v.TypeCode(), NewReader(encoded))
		if err != nil {
			t.Fatalf("decode type 0x%04x: %v", v.TypeCode(), err)
		}
		if !reflect.DeepEqual(v, decoded) {
			t.Fatalf("round trip type 0x%04x: got %+v, want %+v", v.TypeCode(), decoded, v)
		}
	}
}

func TestDataTypeUnknownCodeYieldsUndef(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0xCC})
	v, err := DecodeDataType(0x1234, r)
	if err != nil {
		t.Fatalf("decoding unknown type code: %v", err)
	}
	if !v.IsUndef() {
		t.Fatalf("expected Undef for unknown type code, got %+v", v)
	}
	if r.Len() != 3 {
		t.Fatalf("unknown type code should not consume bytes, %d remain, want 3", r.Len())
	}
}

func TestVectorRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.WriteU32Vec([]uint32{1, 2, 3})
	got, err := NewReader(w.Bytes()).ReadU32Vec()
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
