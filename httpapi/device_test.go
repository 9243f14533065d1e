package httpapi

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/usbptp/goptp/ptp"
)

func TestDataTypeToAnyAndBackRoundTrip(t *testing.T) {
	cases := []ptp.DataType{
		ptp.Int8Value(-5),
		ptp.Uint8Value(5),
		ptp.Int16Value(-1000),
		ptp.Uint16Value(1000),
		ptp.Int32Value(-100000),
		ptp.Uint32Value(100000),
		ptp.Int64Value(-1 << 40),
		ptp.Uint64Value(1 << 40),
		ptp.StringValue("Canon EOS"),
		ptp.StringValue(""),
	}

	for _, v := range cases {
		raw, err := json.Marshal(dataTypeToAny(v))
		if err != nil {
			t.Fatalf("Marshal(%v): %v", v, err)
		}
		got, err := dataTypeFromJSON(v.TypeCode(), raw)
		if err != nil {
			t.Fatalf("dataTypeFromJSON(0x%04x, %s): %v", v.TypeCode(), raw, err)
		}
		if !reflect.DeepEqual(got, v) {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, v)
		}
	}
}

func TestDataTypeToAnyArrayYieldsNil(t *testing.T) {
	arr := ptp.Uint32ArrayValue([]uint32{1, 2, 3})
	if got := dataTypeToAny(arr); got != nil {
		t.Fatalf("got %v, want nil for an array DataType", got)
	}
}

func TestDataTypeFromJSONUnsupportedCode(t *testing.T) {
	_, err := dataTypeFromJSON(ptp.TypeAUint32, json.RawMessage(`[1,2,3]`))
	if err == nil {
		t.Fatal("expected an error for an unsupported property datatype code")
	}
}
