package iec104

import "strconv"

/*
TypeID (Type Identification, 1 byte) enumerates the application type an
ASDU carries.
  - 0 is not used;
  - 1-127 is used for standard IEC 101 definitions;
  - 1-40: process information in monitor direction;
  - 45-69: process information in control direction;
  - 70-99: system information (monitor then control direction);
  - 100-109: system commands in control direction;
  - 110-119: parameter commands in control direction;
  - 120-127: file transfer — out of scope for this stack;
  - 128-135 is reserved for message routing;
  - 136-255 for special use.

Only a subset gets a registered ValueCodec by default (see registry.go);
the rest of the vocabulary is kept as documented constants so a caller
can RegisterType its own handler, reusing exported building blocks such
as QualityDescriptor, CP56Time2a and ParseCP56Time2a.
*/
type TypeID uint8

const (
	// Process information in monitor direction.

	MSpNa1 TypeID = 1  // single-point information
	MSpTa1 TypeID = 2  // single-point information with CP24Time2a
	MDpNa1 TypeID = 3  // double-point information
	MDpTa1 TypeID = 4  // double-point information with CP24Time2a
	MStNa1 TypeID = 5  // step position information
	MStTa1 TypeID = 6  // step position information with CP24Time2a
	MBoNa1 TypeID = 7  // bitstring of 32 bit
	MBoTa1 TypeID = 8  // bitstring of 32 bit with CP24Time2a
	MMeNa1 TypeID = 9  // measured value, normalized value
	MMeTa1 TypeID = 10 // measured value, normalized value with CP24Time2a
	MMeNb1 TypeID = 11 // measured value, scaled value
	MMeTb1 TypeID = 12 // measured value, scaled value with CP24Time2a
	MMeNc1 TypeID = 13 // measured value, short floating point
	MMeTc1 TypeID = 14 // measured value, short floating point with CP24Time2a
	MItNa1 TypeID = 15 // integrated totals
	MItTa1 TypeID = 16 // integrated totals with CP24Time2a
	MEpTa1 TypeID = 17 // event of protection equipment with CP24Time2a
	MEpTb1 TypeID = 18 // packed start events of protection equipment with CP24Time2a
	MEpTc1 TypeID = 19 // packed output circuit information with CP24Time2a
	MPsNa1 TypeID = 20 // packed single-point information with status change detection
	MMeNd1 TypeID = 21 // measured value, normalized value without quality descriptor

	MSpTb1 TypeID = 30 // single-point information with CP56Time2a
	MDpTb1 TypeID = 31 // double-point information with CP56Time2a
	MStTb1 TypeID = 32 // step position information with CP56Time2a
	MBoTb1 TypeID = 33 // bitstring of 32 bit with CP56Time2a
	MMeTd1 TypeID = 34 // measured value, normalized value with CP56Time2a
	MMeTe1 TypeID = 35 // measured value, scaled value with CP56Time2a
	MMeTf1 TypeID = 36 // measured value, short floating point with CP56Time2a
	MItTb1 TypeID = 37 // integrated totals with CP56Time2a
	MEpTd1 TypeID = 38 // event of protection equipment with CP56Time2a
	MEpTe1 TypeID = 39 // packed start events of protection equipment with CP56Time2a
	MEpTf1 TypeID = 40 // packed output circuit information with CP56Time2a

	// Process information in control direction.

	CScNa1 TypeID = 45 // single command
	CDcNa1 TypeID = 46 // double command
	CRcNa1 TypeID = 47 // regulating step command
	CSeNa1 TypeID = 48 // set-point command, normalized value
	CSeNb1 TypeID = 49 // set-point command, scaled value
	CSeNc1 TypeID = 50 // set-point command, short floating point
	CBoNa1 TypeID = 51 // bitstring of 32 bit command

	CScTa1 TypeID = 58 // single command with CP56Time2a
	CDcTa1 TypeID = 59 // double command with CP56Time2a
	CRcTa1 TypeID = 60 // regulating step command with CP56Time2a
	CSeTa1 TypeID = 61 // set-point command with CP56Time2a, normalized value
	CSeTb1 TypeID = 62 // set-point command with CP56Time2a, scaled value
	CSeTc1 TypeID = 63 // set-point command with CP56Time2a, short floating point
	CBoTa1 TypeID = 64 // bitstring of 32 bit command with CP56Time2a

	// System information in monitor direction.

	MEiNa1 TypeID = 70 // end of initialization

	// System information in control direction.

	CIcNa1 TypeID = 100 // general interrogation command
	CCiNa1 TypeID = 101 // counter interrogation command
	CRdNa1 TypeID = 102 // read command
	CCsNa1 TypeID = 103 // clock synchronization command
	CTsNa1 TypeID = 104 // test command
	CRpNa1 TypeID = 105 // reset process command
	CCdNa1 TypeID = 106 // delay acquisition command
	CTsTa1 TypeID = 107 // test command with CP56Time2a

	// Parameter in control direction.

	PMeNa1 TypeID = 110 // parameter of measured value, normalized value
	PMeNb1 TypeID = 111 // parameter of measured value, scaled value
	PMeNc1 TypeID = 112 // parameter of measured value, short floating point
	PAcNa1 TypeID = 113 // parameter activation
)

var typeIDNames = map[TypeID]string{
	MSpNa1: "MSpNa1", MSpTa1: "MSpTa1", MDpNa1: "MDpNa1", MDpTa1: "MDpTa1",
	MStNa1: "MStNa1", MStTa1: "MStTa1", MBoNa1: "MBoNa1", MBoTa1: "MBoTa1",
	MMeNa1: "MMeNa1", MMeTa1: "MMeTa1", MMeNb1: "MMeNb1", MMeTb1: "MMeTb1",
	MMeNc1: "MMeNc1", MMeTc1: "MMeTc1", MItNa1: "MItNa1", MItTa1: "MItTa1",
	MEpTa1: "MEpTa1", MEpTb1: "MEpTb1", MEpTc1: "MEpTc1", MPsNa1: "MPsNa1",
	MMeNd1: "MMeNd1", MSpTb1: "MSpTb1", MDpTb1: "MDpTb1", MStTb1: "MStTb1",
	MBoTb1: "MBoTb1", MMeTd1: "MMeTd1", MMeTe1: "MMeTe1", MMeTf1: "MMeTf1",
	MItTb1: "MItTb1", MEpTd1: "MEpTd1", MEpTe1: "MEpTe1", MEpTf1: "MEpTf1",
	CScNa1: "CScNa1", CDcNa1: "CDcNa1", CRcNa1: "CRcNa1", CSeNa1: "CSeNa1",
	CSeNb1: "CSeNb1", CSeNc1: "CSeNc1", CBoNa1: "CBoNa1", CScTa1: "CScTa1",
	CDcTa1: "CDcTa1", CRcTa1: "CRcTa1", CSeTa1: "CSeTa1", CSeTb1: "CSeTb1",
	CSeTc1: "CSeTc1", CBoTa1: "CBoTa1", MEiNa1: "MEiNa1", CIcNa1: "CIcNa1",
	CCiNa1: "CCiNa1", CRdNa1: "CRdNa1", CCsNa1: "CCsNa1", CTsNa1: "CTsNa1",
	CRpNa1: "CRpNa1", CCdNa1: "CCdNa1", CTsTa1: "CTsTa1", PMeNa1: "PMeNa1",
	PMeNb1: "PMeNb1", PMeNc1: "PMeNc1", PAcNa1: "PAcNa1",
}

func (t TypeID) String() string {
	if name, ok := typeIDNames[t]; ok {
		return name
	}
	return "TypeID(" + strconv.Itoa(int(t)) + ")"
}
