package iec104

import (
	"math"
	"testing"
)

func TestParseQualityDescriptor(t *testing.T) {
	tests := []struct {
		name string
		in   byte
		want QualityDescriptor
	}{
		{"good", 0x00, 0},
		{"invalid", 0x80, IV},
		{"not topical", 0x40, NT},
		{"substituted+blocked", 0x30, SB | BL},
		{"reserved bits masked off", 0x0f, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQualityDescriptor(tt.in); got != tt.want {
				t.Errorf("ParseQualityDescriptor(%#02x) = %#02x, want %#02x", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizedValue_RoundTrip(t *testing.T) {
	tests := []float64{-1, -0.5, 0, 0.5, 0.999969482421875}
	for _, v := range tests {
		b, err := encodeNormalizedValue(NormalizedValue{Value: v})
		if err != nil {
			t.Fatalf("encodeNormalizedValue(%v) error = %v", v, err)
		}
		got, err := decodeNormalizedValue(b)
		if err != nil {
			t.Fatalf("decodeNormalizedValue() error = %v", err)
		}
		nva := got.(NormalizedValue)
		if math.Abs(nva.Value-v) > 1e-4 {
			t.Errorf("round trip = %v, want %v", nva.Value, v)
		}
	}
}

func TestNormalizedValue_RejectsOutOfRange(t *testing.T) {
	if _, err := encodeNormalizedValue(NormalizedValue{Value: 1.5}); err == nil {
		t.Error("expected an error for a value outside [-1, 1)")
	}
}

func TestMeasuredFloatValue_RoundTrip(t *testing.T) {
	b, err := encodeMeasuredFloatValue(MeasuredFloatValue{Value: 39.5, Quality: IV})
	if err != nil {
		t.Fatalf("encodeMeasuredFloatValue() error = %v", err)
	}
	if len(b) != 5 {
		t.Fatalf("encodeMeasuredFloatValue() returned %d bytes, want 5", len(b))
	}
	got, err := decodeMeasuredFloatValue(b)
	if err != nil {
		t.Fatalf("decodeMeasuredFloatValue() error = %v", err)
	}
	mfv := got.(MeasuredFloatValue)
	if mfv.Value != 39.5 || mfv.Quality != IV {
		t.Errorf("round trip = %+v, want Value=39.5 Quality=IV", mfv)
	}
}

func TestDoublePointValue_RoundTrip(t *testing.T) {
	for _, state := range []DoublePointState{DoublePointOff, DoublePointOn} {
		b, err := encodeDoublePointValue(DoublePointValue{Value: state})
		if err != nil {
			t.Fatalf("encodeDoublePointValue() error = %v", err)
		}
		got, err := decodeDoublePointValue(b)
		if err != nil {
			t.Fatalf("decodeDoublePointValue() error = %v", err)
		}
		if got.(DoublePointValue).Value != state {
			t.Errorf("round trip = %v, want %v", got.(DoublePointValue).Value, state)
		}
	}
}

func TestSingleCommandValue_RoundTrip(t *testing.T) {
	sco := SingleCommandValue{Value: true, Select: true, Qualifier: 3}
	b, err := encodeSingleCommandValue(sco)
	if err != nil {
		t.Fatalf("encodeSingleCommandValue() error = %v", err)
	}
	got, err := decodeSingleCommandValue(b)
	if err != nil {
		t.Fatalf("decodeSingleCommandValue() error = %v", err)
	}
	if got.(SingleCommandValue) != sco {
		t.Errorf("round trip = %+v, want %+v", got, sco)
	}
}
