package iec104

import (
	"encoding/binary"
	"fmt"
)

/*
ASDU (Application Service Data Unit).

The ASDU contains two main sections:
  - the data unit identifier (fixed six bytes): the specific type of data,
    addressing, and cause of transmission;
  - the data itself, one or more information objects, all of the same type.

Wire layout:

	| Type Identification                    |  --------------------
	| SQ | Number of objects                 |           |
	| T  | P/N | Cause of transmission (COT) |           |
	| Original address (ORG)                 |  Data Unit Identifier
	| ASDU address fields (COA), 2 bytes      |           |
	| Information object address (IOA), 3B   |  --------------------
	| Information Elements [+ Time Tag]       |  Information Object 1..N
*/
type ASDU struct {
	typeID TypeID
	sq     SQ
	nObjs  NOO
	t      T
	pn     PN
	cot    COT
	org    ORG
	coa    COA

	Objects []InformationObject

	// Raw holds the undecoded information-object bytes when typeID has no
	// registered handler; callers can still log or forward it.
	Raw []byte
}

// AsduHeaderLen is the fixed length of the data unit identifier.
const AsduHeaderLen = 6

func (asdu *ASDU) Type() TypeID           { return asdu.typeID }
func (asdu *ASDU) Sequence() bool         { return bool(asdu.sq) }
func (asdu *ASDU) NumObjects() uint8      { return asdu.nObjs }
func (asdu *ASDU) Test() bool             { return bool(asdu.t) }
func (asdu *ASDU) Negative() bool         { return bool(asdu.pn) }
func (asdu *ASDU) Cause() COT             { return asdu.cot }
func (asdu *ASDU) Originator() uint8      { return uint8(asdu.org) }
func (asdu *ASDU) CommonAddress() uint16  { return asdu.coa }

// NewASDU builds an ASDU value for encoding. objects must already be valid
// for typeID per the registry in use; EncodeASDU does the validation.
func NewASDU(typeID TypeID, sq bool, test, negative bool, cot COT, org uint8, ca uint16, objects []InformationObject) *ASDU {
	return &ASDU{
		typeID:  typeID,
		sq:      SQ(sq),
		nObjs:   uint8(len(objects)),
		t:       T(test),
		pn:      PN(negative),
		cot:     cot,
		org:     ORG(org),
		coa:     ca,
		Objects: objects,
	}
}

func (asdu *ASDU) parseTypeID(data byte) TypeID {
	asdu.typeID = TypeID(data)
	return asdu.typeID
}

// SQ (Structure Qualifier, 1 bit) — see InformationObject doc for the two
// addressing modes it selects between.
type SQ bool

func (asdu *ASDU) parseSQ(data byte) SQ {
	asdu.sq = (data & (1 << 7)) == 1<<7
	return asdu.sq
}

// NOO (Number of Objects/Elements, 7 bits).
type NOO = uint8

func (asdu *ASDU) parseNOO(data byte) NOO {
	asdu.nObjs = data & 0b1111111
	return asdu.nObjs
}

// T (Test, 1 bit): ASDUs generated under test conditions, not intended to
// control the process or change system state.
type T bool

func (asdu *ASDU) parseT(data byte) T {
	asdu.t = (data & (1 << 7)) == 1<<7
	return asdu.t
}

// PN (Positive/Negative, 1 bit): confirmation polarity for a mirrored
// control command.
type PN bool

func (asdu *ASDU) parsePN(data byte) PN {
	asdu.pn = (data & (1 << 6)) == 1<<6
	return asdu.pn
}

// COT (Cause of Transmission, 6 bits) controls message routing.
type COT uint8

const (
	CotPer, CotCyc COT = 1, 1 // periodic, cyclic
	CotBack        COT = 2    // background scan
	CotSpt         COT = 3    // spontaneous
	CotInit        COT = 4    // initialized
	CotReq         COT = 5    // request or requested
	CotAct         COT = 6    // activation
	CotActCon      COT = 7    // activation confirmation
	CotDeact       COT = 8    // deactivation
	CotDeactCon    COT = 9    // deactivation confirmation
	CotActTerm     COT = 10   // activation termination
	CotRetRem      COT = 11   // return information caused by a remote command
	CotRetLoc      COT = 12   // return information caused by a local command
	CotFile        COT = 13   // file transfer
	CotInrogen     COT = 20   // interrogated by general interrogation
	CotInro1       COT = 21   // interrogated by interrogation group1
	CotInro2       COT = 22
	CotInro3       COT = 23
	CotInro4       COT = 24
	CotInro5       COT = 25
	CotInro6       COT = 26
	CotInro7       COT = 27
	CotInro8       COT = 28
	CotInro9       COT = 29
	CotInro10      COT = 30
	CotInro11      COT = 31
	CotInro12      COT = 32
	CotInro13      COT = 33
	CotInro14      COT = 34
	CotInro15      COT = 35
	CotInro16      COT = 36
	CotReqcogen    COT = 37 // interrogated by counter general interrogation
	CotReqco1      COT = 38
	CotReqco2      COT = 39
	CotReqco3      COT = 40
	CotReqco4      COT = 41
	CotUnType      COT = 44 // unknown type
	CotUnCause     COT = 45 // unknown cause
	CotUnAsduAddr  COT = 46 // unknown asdu address
	CotUnObjAddr   COT = 47 // unknown object address
)

func (asdu *ASDU) parseCOT(data byte) COT {
	asdu.cot = COT(data & 0b111111)
	return asdu.cot
}

// ORG (Originator Address, 1 byte): identifies the controlling station
// when more than one may issue commands; zero when there is only one.
type ORG uint8

func (asdu *ASDU) parseORG(data byte) ORG {
	asdu.org = ORG(data)
	return asdu.org
}

// COA (Common Address of ASDU, 2 bytes): the station address. 0 is unused,
// 65535 is the broadcast/global address.
type COA = uint16

func (asdu *ASDU) parseCOA(data []byte) COA {
	asdu.coa = binary.LittleEndian.Uint16(data[:2])
	return asdu.coa
}

// DecodeASDU parses the fixed six-byte header plus the information objects
// that follow, dispatching the per-object value codec through reg.
// num_objects == 0 fails with KindEmptyASDU. An unregistered type_id still
// parses the header: the ASDU is returned with Raw holding the undecoded
// object bytes, together with a *SessionError of KindUnhandledType that
// carries the same bytes, so the caller can log or forward it.
func DecodeASDU(data []byte, reg *Registry) (*ASDU, error) {
	if len(data) < AsduHeaderLen {
		return nil, newErr(KindTruncated, fmt.Errorf("asdu header needs %d bytes, got %d", AsduHeaderLen, len(data)))
	}
	asdu := &ASDU{}
	asdu.parseTypeID(data[0])
	asdu.parseSQ(data[1])
	asdu.parseNOO(data[1])
	asdu.parseT(data[2])
	asdu.parsePN(data[2])
	asdu.parseCOT(data[2])
	asdu.parseORG(data[3])
	asdu.parseCOA(data[4:AsduHeaderLen])

	if asdu.nObjs == 0 {
		return nil, newErr(KindEmptyASDU, nil)
	}

	body := data[AsduHeaderLen:]
	codec, ok := reg.lookup(asdu.typeID)
	if !ok {
		asdu.Raw = body
		return asdu, newErrRaw(KindUnhandledType, fmt.Errorf("no registered codec for type_id %d", asdu.typeID), body)
	}

	objects, err := decodeInformationObjects(body, bool(asdu.sq), asdu.nObjs, codec)
	if err != nil {
		return nil, err
	}
	asdu.Objects = objects
	return asdu, nil
}

// EncodeASDU renders asdu's header and information objects using the value
// codec reg has registered for its type_id. It is a programmer error
// (panic) to encode an ASDU whose typeID has no registered codec.
func EncodeASDU(asdu *ASDU, reg *Registry) ([]byte, error) {
	codec, ok := reg.lookup(asdu.typeID)
	if !ok {
		panic(fmt.Sprintf("iec104: no registered codec for type_id %d", asdu.typeID))
	}
	if len(asdu.Objects) == 0 {
		return nil, newErr(KindEmptyASDU, nil)
	}
	if len(asdu.Objects) > 127 {
		return nil, newErr(KindProtocolViolation, fmt.Errorf("num_objects %d exceeds 127", len(asdu.Objects)))
	}

	header := make([]byte, AsduHeaderLen)
	header[0] = byte(asdu.typeID)
	noo := byte(len(asdu.Objects))
	if asdu.sq {
		noo |= 1 << 7
	}
	header[1] = noo
	header[2] = byte(asdu.cot & 0b111111)
	if asdu.t {
		header[2] |= 1 << 7
	}
	if asdu.pn {
		header[2] |= 1 << 6
	}
	header[3] = byte(asdu.org)
	binary.LittleEndian.PutUint16(header[4:6], asdu.coa)

	body, err := encodeInformationObjects(asdu.Objects, bool(asdu.sq), codec)
	if err != nil {
		return nil, err
	}
	out := append(header, body...)
	if len(out) > maxASDULength {
		return nil, newErr(KindProtocolViolation, fmt.Errorf("encoded asdu %d bytes exceeds max_asdu_length %d", len(out), maxASDULength))
	}
	return out, nil
}
