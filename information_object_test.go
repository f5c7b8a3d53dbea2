package iec104

import (
	"reflect"
	"testing"
)

var spCodec = ValueCodec{Len: 1, Decode: decodeSinglePointValue, Encode: encodeSinglePointValue}

func TestDecodeInformationObjects_SQ0(t *testing.T) {
	body := []byte{
		0x01, 0x00, 0x00, 0x01, // ioa=1, value=on
		0x02, 0x00, 0x00, 0x00, // ioa=2, value=off
	}
	got, err := decodeInformationObjects(body, false, 2, spCodec)
	if err != nil {
		t.Fatalf("decodeInformationObjects() error = %v", err)
	}
	want := []InformationObject{
		{IOA: 1, Value: SinglePointValue{Value: true}},
		{IOA: 2, Value: SinglePointValue{Value: false}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeInformationObjects() = %+v, want %+v", got, want)
	}
}

func TestDecodeInformationObjects_SQ1(t *testing.T) {
	body := []byte{0x05, 0x00, 0x00, 0x01, 0x00}
	got, err := decodeInformationObjects(body, true, 2, spCodec)
	if err != nil {
		t.Fatalf("decodeInformationObjects() error = %v", err)
	}
	want := []InformationObject{
		{IOA: 5, Value: SinglePointValue{Value: true}},
		{IOA: 6, Value: SinglePointValue{Value: false}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeInformationObjects() = %+v, want %+v", got, want)
	}
}

func TestDecodeInformationObjects_Truncated(t *testing.T) {
	_, err := decodeInformationObjects([]byte{0x01, 0x00, 0x00}, false, 2, spCodec)
	if !IsKind(err, KindTruncated) {
		t.Errorf("expected KindTruncated, got %v", err)
	}
}

func TestDecodeInformationObjects_TrailingBytes(t *testing.T) {
	body := []byte{0x01, 0x00, 0x00, 0x01, 0xff}
	_, err := decodeInformationObjects(body, false, 1, spCodec)
	if !IsKind(err, KindTrailingBytes) {
		t.Errorf("expected KindTrailingBytes, got %v", err)
	}
}

func TestEncodeInformationObjects_RoundTrip(t *testing.T) {
	objects := []InformationObject{
		{IOA: 100, Value: SinglePointValue{Value: true}},
		{IOA: 101, Value: SinglePointValue{Value: false}},
	}
	for _, sq := range []bool{false, true} {
		encoded, err := encodeInformationObjects(objects, sq, spCodec)
		if err != nil {
			t.Fatalf("encodeInformationObjects(sq=%v) error = %v", sq, err)
		}
		got, err := decodeInformationObjects(encoded, sq, uint8(len(objects)), spCodec)
		if err != nil {
			t.Fatalf("decodeInformationObjects(sq=%v) error = %v", sq, err)
		}
		if !reflect.DeepEqual(got, objects) {
			t.Errorf("round trip sq=%v: got %+v, want %+v", sq, got, objects)
		}
	}
}

func TestEncodeInformationObjects_SQ1RequiresConsecutiveIOA(t *testing.T) {
	objects := []InformationObject{
		{IOA: 1, Value: SinglePointValue{Value: true}},
		{IOA: 5, Value: SinglePointValue{Value: false}},
	}
	_, err := encodeInformationObjects(objects, true, spCodec)
	if !IsKind(err, KindProtocolViolation) {
		t.Errorf("expected KindProtocolViolation, got %v", err)
	}
}
