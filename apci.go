package iec104

import "fmt"

// startByte precedes every APDU on the wire.
const startByte = 0x68

// Length bounds from the wire format: the length byte counts everything
// after itself (the four control octets plus an optional ASDU body).
const (
	minAPDULength = 4
	maxAPDULength = 253
	maxASDULength = 249
)

/*
APCI (Application Protocol Control Information).

Each APDU starts with a start byte 0x68, a length byte, and four control
octets (the APCI proper):

  | <-   8 bits    -> |  -----
  | Start Byte (0x68) |    |
  | Length of APDU    |    |
  | Control Field 1   |   APCI
  | Control Field 2   |    |
  | Control Field 3   |    |
  | Control Field 4   |    |
  | <-   8 bits    -> |  -----

I-format frames carry an ASDU after the four control octets; S- and
U-format frames never do.
*/
type FrameType int

const (
	FrameTypeI FrameType = iota
	FrameTypeS
	FrameTypeU
)

func (t FrameType) String() string {
	switch t {
	case FrameTypeI:
		return "I"
	case FrameTypeS:
		return "S"
	case FrameTypeU:
		return "U"
	default:
		return "?"
	}
}

// Frame is a tagged APCI value: exactly one of IFrame, SFrame, UFrame.
type Frame interface {
	FrameType() FrameType
	encodeCF() [4]byte
}

/*
IFrame (Information Transfer Format), last bit of CF1 is 0.

 | <-              8 bits              -> |
 | Send sequence no. N(S)     [LSB]   | 0 |
 | Send sequence no. N(S)     [MSB]       |
 | Receive sequence no. N(R)  [LSB]   | 0 |
 | Receive sequence no. N(R)  [MSB]       |

N(S) = CF1>>1 | CF2<<7; N(R) = CF3>>1 | CF4<<7. Both are 15-bit sequence
numbers, modulo 32768.
*/
type IFrame struct {
	SendSN uint16
	RecvSN uint16
}

func (f IFrame) FrameType() FrameType { return FrameTypeI }

func (f IFrame) encodeCF() [4]byte {
	if f.SendSN >= 1<<15 || f.RecvSN >= 1<<15 {
		panic("iec104: sequence number out of 15-bit range")
	}
	return [4]byte{
		byte(f.SendSN << 1),
		byte(f.SendSN >> 7),
		byte(f.RecvSN << 1),
		byte(f.RecvSN >> 7),
	}
}

/*
SFrame (Numbered Supervisory function), last two bits of CF1 are (01)b.

 | <-              8 bits              -> |
 |                                | 0 | 1 |
 | Receive sequence no. N(R)  [LSB]   | 0 |
 | Receive sequence no. N(R)  [MSB]       |

S-frames carry only N(R); they acknowledge I-frames without consuming a
send sequence number of their own.
*/
type SFrame struct {
	RecvSN uint16
}

func (f SFrame) FrameType() FrameType { return FrameTypeS }

func (f SFrame) encodeCF() [4]byte {
	if f.RecvSN >= 1<<15 {
		panic("iec104: sequence number out of 15-bit range")
	}
	return [4]byte{0x01, 0x00, byte(f.RecvSN << 1), byte(f.RecvSN >> 7)}
}

// UFunction is one of the six mutually exclusive U-frame control
// functions, encoded in the high six bits of CF1.
type UFunction byte

const (
	UStartDTAct UFunction = 0x01 << 2 // 0x04, CF1 = 0000 01 11
	UStartDTCon UFunction = 0x02 << 2 // 0x08, CF1 = 0000 10 11
	UStopDTAct  UFunction = 0x04 << 2 // 0x10, CF1 = 0001 00 11
	UStopDTCon  UFunction = 0x08 << 2 // 0x20, CF1 = 0010 00 11
	UTestFRAct  UFunction = 0x10 << 2 // 0x40, CF1 = 0100 00 11
	UTestFRCon  UFunction = 0x20 << 2 // 0x80, CF1 = 1000 00 11
)

func (f UFunction) String() string {
	switch f {
	case UStartDTAct:
		return "STARTDT act"
	case UStartDTCon:
		return "STARTDT con"
	case UStopDTAct:
		return "STOPDT act"
	case UStopDTCon:
		return "STOPDT con"
	case UTestFRAct:
		return "TESTFR act"
	case UTestFRCon:
		return "TESTFR con"
	default:
		return fmt.Sprintf("unknown(%#02x)", byte(f))
	}
}

/*
UFrame (Unnumbered control function), last two bits of CF1 are (11)b.

 | <-              8 bits              -> |
 | TESTFR  |  STOPDT  |  STARTDT  | 1 | 1 |
 |                                    | 0 |
 |                                    | 0 |

Exactly one of the six functions is active per frame; CF2-CF4 are zero.
*/
type UFrame struct {
	Function UFunction
}

func (f UFrame) FrameType() FrameType { return FrameTypeU }

func (f UFrame) encodeCF() [4]byte {
	return [4]byte{byte(f.Function) | 0x03, 0x00, 0x00, 0x00}
}

// EncodeAPDU renders frame (optionally carrying asdu, which must be nil for
// S/U frames) as a complete wire APDU including the start byte and length
// prefix. It is total for in-range arguments: an out-of-range sequence
// number or an oversized ASDU body is a programmer error and panics,
// per the codec's "total for valid in-memory frames" contract.
func EncodeAPDU(frame Frame, asdu []byte) []byte {
	if frame.FrameType() != FrameTypeI && len(asdu) != 0 {
		panic("iec104: only I-frames carry an ASDU body")
	}
	if len(asdu) > maxASDULength {
		panic("iec104: asdu exceeds max_asdu_length")
	}
	cf := frame.encodeCF()
	length := 4 + len(asdu)
	out := make([]byte, 2, 2+length)
	out[0] = startByte
	out[1] = byte(length)
	out = append(out, cf[:]...)
	out = append(out, asdu...)
	return out
}

// ParseAPCI classifies four control octets into a Frame. It is strict: any
// combination that is not exactly one of I/S/U (per the CF1 low-bit rules)
// or that sets more than one U-frame function bit fails closed with
// KindProtocolViolation. It does not attempt resynchronization.
func ParseAPCI(cf [4]byte) (Frame, error) {
	switch {
	case cf[0]&0x01 == 0:
		if cf[2]&0x01 != 0 {
			return nil, newErr(KindProtocolViolation, fmt.Errorf("i-frame reserved bit of cf3 set: %#02x", cf[2]))
		}
		return IFrame{
			SendSN: uint16(cf[0]>>1) | uint16(cf[1])<<7,
			RecvSN: uint16(cf[2]>>1) | uint16(cf[3])<<7,
		}, nil
	case cf[0]&0x03 == 0x01:
		if cf[0] != 0x01 || cf[1] != 0 || cf[2]&0x01 != 0 {
			return nil, newErr(KindProtocolViolation, fmt.Errorf("s-frame reserved bits non-zero: % x", cf[:3]))
		}
		return SFrame{RecvSN: uint16(cf[2]>>1) | uint16(cf[3])<<7}, nil
	case cf[0]&0x03 == 0x03:
		if cf[1] != 0 || cf[2] != 0 || cf[3] != 0 {
			return nil, newErr(KindProtocolViolation, fmt.Errorf("u-frame reserved bytes non-zero: % x", cf[1:]))
		}
		fn := UFunction(cf[0] &^ 0x03)
		switch fn {
		case UStartDTAct, UStartDTCon, UStopDTAct, UStopDTCon, UTestFRAct, UTestFRCon:
			return UFrame{Function: fn}, nil
		default:
			return nil, newErr(KindProtocolViolation, fmt.Errorf("u-frame sets zero or more than one function bit: %#02x", cf[0]))
		}
	default:
		return nil, newErr(KindProtocolViolation, fmt.Errorf("unclassifiable control field: %#02x", cf[0]))
	}
}
