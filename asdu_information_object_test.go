package iec104

import "testing"

func TestParseLittleEndianUint24(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"every byte is 0x11", []byte{0x11, 0x11, 0x11, 0xff}, 0x111111},
		{"all bits are 0", []byte{0x00, 0x00, 0x00, 0xff}, 0x000000},
		{"only first byte non-zero", []byte{0x11, 0x00, 0x00, 0xff}, 0x000011},
		{"only first byte zero", []byte{0x00, 0x11, 0x11, 0xff}, 0x111100},
		{"only first bit is 1", []byte{0x80, 0x00, 0x00, 0xff}, 0x000080},
		{"only first bit is 0", []byte{0x7f, 0xff, 0xff, 0xff}, 0xffff7f},
		{"1", []byte{0x01, 0x00, 0x00, 0xff}, 1},
		{"1024", []byte{0x00, 0x04, 0x00, 0xff}, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLittleEndianUint24(tt.data); got != tt.want {
				t.Errorf("parseLittleEndianUint24() = %#x, want %#x", got, tt.want)
			}
			if tt.data[3] != 0xff {
				t.Errorf("reading a 24-bit field can't touch data[3], it must stay 0xff")
			}
		})
	}
}

func TestSerializeLittleEndianUint24RoundTrip(t *testing.T) {
	for _, ioa := range []uint32{0, 1, 1024, 0x7fffff, 0xffffff} {
		b := serializeLittleEndianUint24(ioa)
		if len(b) != 3 {
			t.Fatalf("serializeLittleEndianUint24(%d) returned %d bytes, want 3", ioa, len(b))
		}
		if got := parseLittleEndianUint24(append(b, 0x00)); got != ioa {
			t.Errorf("round trip for %d got %d", ioa, got)
		}
	}
}

func TestSerializeLittleEndianUint24PanicsOnOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a value that does not fit in 24 bits")
		}
	}()
	serializeLittleEndianUint24(0x1000000)
}
