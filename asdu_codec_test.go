package iec104

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeASDU_RoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterType(MSpNa1, ValueCodec{Len: 1, Decode: decodeSinglePointValue, Encode: encodeSinglePointValue})

	asdu := NewASDU(MSpNa1, false, false, false, CotSpt, 0, 1,
		[]InformationObject{
			{IOA: 1, Value: SinglePointValue{Value: true}},
			{IOA: 2, Value: SinglePointValue{Value: false, Quality: IV}},
		})

	encoded, err := EncodeASDU(asdu, reg)
	if err != nil {
		t.Fatalf("EncodeASDU() error = %v", err)
	}

	got, err := DecodeASDU(encoded, reg)
	if err != nil {
		t.Fatalf("DecodeASDU() error = %v", err)
	}
	if got.Type() != MSpNa1 || got.Cause() != CotSpt || got.CommonAddress() != 1 {
		t.Errorf("decoded header mismatch: type=%v cot=%v ca=%v", got.Type(), got.Cause(), got.CommonAddress())
	}
	if !reflect.DeepEqual(got.Objects, asdu.Objects) {
		t.Errorf("decoded objects = %+v, want %+v", got.Objects, asdu.Objects)
	}
}

func TestDecodeASDU_EmptyFailsClosed(t *testing.T) {
	reg := NewRegistry()
	header := []byte{byte(MSpNa1), 0x00, byte(CotSpt), 0x00, 0x01, 0x00}
	_, err := DecodeASDU(header, reg)
	if !IsKind(err, KindEmptyASDU) {
		t.Errorf("expected KindEmptyASDU, got %v", err)
	}
}

func TestDecodeASDU_UnhandledTypeCarriesRaw(t *testing.T) {
	reg := NewRegistry()
	body := []byte{0x01, 0x00, 0x00, 0xaa}
	header := []byte{byte(MDpNa1), 0x01, byte(CotSpt), 0x00, 0x01, 0x00}
	data := append(header, body...)

	asdu, err := DecodeASDU(data, reg)
	if !IsKind(err, KindUnhandledType) {
		t.Fatalf("expected KindUnhandledType, got %v", err)
	}
	if asdu == nil || !reflect.DeepEqual(asdu.Raw, body) {
		t.Errorf("expected ASDU.Raw = % x, got %+v", body, asdu)
	}
}

func TestDecodeASDU_TooShortHeader(t *testing.T) {
	_, err := DecodeASDU([]byte{0x01, 0x02, 0x03}, NewRegistry())
	if !IsKind(err, KindTruncated) {
		t.Errorf("expected KindTruncated, got %v", err)
	}
}

func TestEncodeASDU_PanicsOnUnregisteredType(t *testing.T) {
	reg := NewRegistry()
	asdu := NewASDU(MSpNa1, false, false, false, CotSpt, 0, 1,
		[]InformationObject{{IOA: 1, Value: SinglePointValue{Value: true}}})
	defer func() {
		if recover() == nil {
			t.Error("expected panic encoding an ASDU with no registered codec")
		}
	}()
	EncodeASDU(asdu, reg)
}

func TestEncodeASDU_SQBitRoundTrips(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterType(MSpNa1, ValueCodec{Len: 1, Decode: decodeSinglePointValue, Encode: encodeSinglePointValue})
	asdu := NewASDU(MSpNa1, true, false, false, CotSpt, 0, 1,
		[]InformationObject{
			{IOA: 10, Value: SinglePointValue{Value: true}},
			{IOA: 11, Value: SinglePointValue{Value: false}},
		})
	encoded, err := EncodeASDU(asdu, reg)
	if err != nil {
		t.Fatalf("EncodeASDU() error = %v", err)
	}
	if encoded[1]&0x80 == 0 {
		t.Error("expected the SQ bit set in the encoded header")
	}
	got, err := DecodeASDU(encoded, reg)
	if err != nil {
		t.Fatalf("DecodeASDU() error = %v", err)
	}
	if !got.Sequence() {
		t.Error("expected decoded ASDU to report Sequence() == true")
	}
}
