package iec104

import (
	"reflect"
	"testing"
)

func TestEncodeAPDU_IFrame(t *testing.T) {
	got := EncodeAPDU(IFrame{SendSN: 1, RecvSN: 2}, []byte{0xaa, 0xbb})
	want := []byte{0x68, 0x06, 0x02, 0x00, 0x04, 0x00, 0xaa, 0xbb}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeAPDU() = % x, want % x", got, want)
	}
}

func TestEncodeAPDU_SFrame(t *testing.T) {
	got := EncodeAPDU(SFrame{RecvSN: 5}, nil)
	want := []byte{0x68, 0x04, 0x01, 0x00, 0x0a, 0x00}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeAPDU() = % x, want % x", got, want)
	}
}

func TestEncodeAPDU_UFrame(t *testing.T) {
	got := EncodeAPDU(UFrame{Function: UStartDTAct}, nil)
	want := []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeAPDU() = % x, want % x", got, want)
	}
}

func TestEncodeAPDU_PanicsOnSFrameWithBody(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic carrying an ASDU body on an S-frame")
		}
	}()
	EncodeAPDU(SFrame{RecvSN: 1}, []byte{0x01})
}

func TestParseAPCI(t *testing.T) {
	tests := []struct {
		name string
		cf   [4]byte
		want Frame
	}{
		{"i-frame", [4]byte{0x02, 0x00, 0x04, 0x00}, IFrame{SendSN: 1, RecvSN: 2}},
		{"s-frame", [4]byte{0x01, 0x00, 0x0a, 0x00}, SFrame{RecvSN: 5}},
		{"u-frame startdt act", [4]byte{0x07, 0x00, 0x00, 0x00}, UFrame{Function: UStartDTAct}},
		{"u-frame testfr con", [4]byte{0x83, 0x00, 0x00, 0x00}, UFrame{Function: UTestFRCon}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAPCI(tt.cf)
			if err != nil {
				t.Fatalf("ParseAPCI() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAPCI() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseAPCI_RejectsMalformedSFrame(t *testing.T) {
	_, err := ParseAPCI([4]byte{0x01, 0x01, 0x00, 0x00})
	if !IsKind(err, KindProtocolViolation) {
		t.Errorf("expected KindProtocolViolation, got %v", err)
	}
}

func TestParseAPCI_RejectsMalformedUFrame(t *testing.T) {
	tests := [][4]byte{
		{0x03, 0x00, 0x00, 0x00},          // no function bit set
		{0x0f, 0x00, 0x00, 0x00},          // two function bits set
		{0x07, 0x01, 0x00, 0x00},          // reserved byte non-zero
	}
	for _, cf := range tests {
		if _, err := ParseAPCI(cf); !IsKind(err, KindProtocolViolation) {
			t.Errorf("ParseAPCI(% x): expected KindProtocolViolation, got %v", cf, err)
		}
	}
}

func TestEncodeAPDU_RoundTripsThroughParseAPCI(t *testing.T) {
	frames := []Frame{
		IFrame{SendSN: 0, RecvSN: 0},
		IFrame{SendSN: 32767, RecvSN: 16384},
		SFrame{RecvSN: 100},
		UFrame{Function: UStopDTAct},
	}
	for _, f := range frames {
		apdu := EncodeAPDU(f, nil)
		var cf [4]byte
		copy(cf[:], apdu[2:6])
		got, err := ParseAPCI(cf)
		if err != nil {
			t.Fatalf("ParseAPCI() error = %v", err)
		}
		if !reflect.DeepEqual(got, f) {
			t.Errorf("round trip: got %#v, want %#v", got, f)
		}
	}
}
