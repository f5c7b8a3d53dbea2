package iec104

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

/*
QualityDescriptor (1 byte) accompanies most process information values.
Only the top four bits are defined; the rest are reserved and always
zero.

	| <-                 8 bits                 -> |
	------------------------------------------------
	| IV  | NT  | SB  | BL |  0  |  0  |  0  |  0   |
*/
type QualityDescriptor byte

const (
	IV QualityDescriptor = 1 << 7 // invalid
	NT QualityDescriptor = 1 << 6 // not topical
	SB QualityDescriptor = 1 << 5 // substituted
	BL QualityDescriptor = 1 << 4 // blocked
)

// ParseQualityDescriptor masks off the reserved low nibble.
func ParseQualityDescriptor(x byte) QualityDescriptor {
	return QualityDescriptor(x & 0xf0)
}

func (q QualityDescriptor) Good() bool { return q == 0 }

func (q QualityDescriptor) String() string {
	if q.Good() {
		return "good"
	}
	s := ""
	if q&IV != 0 {
		s += "IV,"
	}
	if q&NT != 0 {
		s += "NT,"
	}
	if q&SB != 0 {
		s += "SB,"
	}
	if q&BL != 0 {
		s += "BL,"
	}
	return s[:len(s)-1]
}

// DoublePointState (DPI, 2 bits) is the value carried by a double-point
// information object or double command.
type DoublePointState byte

const (
	DoublePointIndeterminate0 DoublePointState = 0
	DoublePointOff            DoublePointState = 1
	DoublePointOn             DoublePointState = 2
	DoublePointIndeterminate3 DoublePointState = 3
)

func (d DoublePointState) String() string {
	switch d {
	case DoublePointOff:
		return "off"
	case DoublePointOn:
		return "on"
	default:
		return "indeterminate"
	}
}

// SinglePointValue is SIQ: a single-point value with quality (type 1, 30).
type SinglePointValue struct {
	Value   bool
	Quality QualityDescriptor
}

func decodeSinglePointValue(b []byte) (interface{}, error) {
	return SinglePointValue{Value: b[0]&0x01 != 0, Quality: ParseQualityDescriptor(b[0])}, nil
}

func encodeSinglePointValue(v interface{}) ([]byte, error) {
	siq, ok := v.(SinglePointValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected SinglePointValue, got %T", v)
	}
	b := byte(siq.Quality)
	if siq.Value {
		b |= 0x01
	}
	return []byte{b}, nil
}

// DoublePointValue is DIQ: a double-point value with quality (type 3).
type DoublePointValue struct {
	Value   DoublePointState
	Quality QualityDescriptor
}

func decodeDoublePointValue(b []byte) (interface{}, error) {
	return DoublePointValue{Value: DoublePointState(b[0] & 0x03), Quality: ParseQualityDescriptor(b[0])}, nil
}

func encodeDoublePointValue(v interface{}) ([]byte, error) {
	diq, ok := v.(DoublePointValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected DoublePointValue, got %T", v)
	}
	return []byte{byte(diq.Quality) | byte(diq.Value&0x03)}, nil
}

// NormalizedValue is NVA+QDS: a 16-bit fixed-point value in [-1, 1) with
// quality (type 9).
type NormalizedValue struct {
	Value   float64
	Quality QualityDescriptor
}

func decodeNormalizedValue(b []byte) (interface{}, error) {
	raw := int16(binary.LittleEndian.Uint16(b[:2]))
	return NormalizedValue{Value: float64(raw) / 32768, Quality: ParseQualityDescriptor(b[2])}, nil
}

func encodeNormalizedValue(v interface{}) ([]byte, error) {
	nva, ok := v.(NormalizedValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected NormalizedValue, got %T", v)
	}
	if nva.Value < -1 || nva.Value >= 1 {
		return nil, fmt.Errorf("iec104: normalized value %f out of [-1, 1)", nva.Value)
	}
	raw := int16(nva.Value * 32768)
	out := make([]byte, 3)
	binary.LittleEndian.PutUint16(out[:2], uint16(raw))
	out[2] = byte(nva.Quality)
	return out, nil
}

// MeasuredFloatValue is IEEESTD754+QDS: an IEEE-754 single-precision float
// with quality (type 13).
type MeasuredFloatValue struct {
	Value   float32
	Quality QualityDescriptor
}

func decodeMeasuredFloatValue(b []byte) (interface{}, error) {
	bits := binary.LittleEndian.Uint32(b[:4])
	return MeasuredFloatValue{Value: math.Float32frombits(bits), Quality: ParseQualityDescriptor(b[4])}, nil
}

func encodeMeasuredFloatValue(v interface{}) ([]byte, error) {
	mfv, ok := v.(MeasuredFloatValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected MeasuredFloatValue, got %T", v)
	}
	out := make([]byte, 5)
	binary.LittleEndian.PutUint32(out[:4], math.Float32bits(mfv.Value))
	out[4] = byte(mfv.Quality)
	return out, nil
}

// TimeTaggedSinglePointValue is SIQ+CP56Time2a (type 30).
type TimeTaggedSinglePointValue struct {
	Value   bool
	Quality QualityDescriptor
	Time    CP56Time2a
}

func decodeTimeTaggedSinglePointValue(b []byte) (interface{}, error) {
	t, err := ParseCP56Time2a(b[1:8], time.UTC)
	if err != nil {
		return nil, err
	}
	return TimeTaggedSinglePointValue{Value: b[0]&0x01 != 0, Quality: ParseQualityDescriptor(b[0]), Time: t}, nil
}

func encodeTimeTaggedSinglePointValue(v interface{}) ([]byte, error) {
	tt, ok := v.(TimeTaggedSinglePointValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected TimeTaggedSinglePointValue, got %T", v)
	}
	b := byte(tt.Quality)
	if tt.Value {
		b |= 0x01
	}
	return append([]byte{b}, tt.Time.Encode(time.UTC)...), nil
}

// CommandQualifier (QU, 5 bits of QOC/DCO's high bits) selects how a
// command is to be executed; 0 means "no additional definition".
type CommandQualifier uint8

// SingleCommandValue is SCO (type 45).
type SingleCommandValue struct {
	Value     bool
	Select    bool
	Qualifier CommandQualifier
}

func decodeSingleCommandValue(b []byte) (interface{}, error) {
	return SingleCommandValue{
		Value:     b[0]&0x01 != 0,
		Select:    b[0]&0x80 != 0,
		Qualifier: CommandQualifier((b[0] >> 2) & 0x1f),
	}, nil
}

func encodeSingleCommandValue(v interface{}) ([]byte, error) {
	sco, ok := v.(SingleCommandValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected SingleCommandValue, got %T", v)
	}
	b := byte(sco.Qualifier&0x1f) << 2
	if sco.Value {
		b |= 0x01
	}
	if sco.Select {
		b |= 0x80
	}
	return []byte{b}, nil
}

// DoubleCommandValue is DCO (type 46).
type DoubleCommandValue struct {
	Value     DoublePointState
	Select    bool
	Qualifier CommandQualifier
}

func decodeDoubleCommandValue(b []byte) (interface{}, error) {
	return DoubleCommandValue{
		Value:     DoublePointState(b[0] & 0x03),
		Select:    b[0]&0x80 != 0,
		Qualifier: CommandQualifier((b[0] >> 2) & 0x1f),
	}, nil
}

func encodeDoubleCommandValue(v interface{}) ([]byte, error) {
	dco, ok := v.(DoubleCommandValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected DoubleCommandValue, got %T", v)
	}
	b := byte(dco.Qualifier&0x1f)<<2 | byte(dco.Value&0x03)
	if dco.Select {
		b |= 0x80
	}
	return []byte{b}, nil
}

// InterrogationQualifier (QOI, 1 byte); 20 is "station interrogation".
type InterrogationQualifier uint8

const QOIStation InterrogationQualifier = 20

// InterrogationValue is QOI (type 100).
type InterrogationValue struct {
	Qualifier InterrogationQualifier
}

func decodeInterrogationValue(b []byte) (interface{}, error) {
	return InterrogationValue{Qualifier: InterrogationQualifier(b[0])}, nil
}

func encodeInterrogationValue(v interface{}) ([]byte, error) {
	iv, ok := v.(InterrogationValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected InterrogationValue, got %T", v)
	}
	return []byte{byte(iv.Qualifier)}, nil
}

// ClockSyncValue is a bare CP56Time2a (type 103).
type ClockSyncValue struct {
	Time CP56Time2a
}

func decodeClockSyncValue(b []byte) (interface{}, error) {
	t, err := ParseCP56Time2a(b[:7], time.UTC)
	if err != nil {
		return nil, err
	}
	return ClockSyncValue{Time: t}, nil
}

func encodeClockSyncValue(v interface{}) ([]byte, error) {
	cs, ok := v.(ClockSyncValue)
	if !ok {
		return nil, fmt.Errorf("iec104: expected ClockSyncValue, got %T", v)
	}
	return cs.Time.Encode(time.UTC), nil
}
