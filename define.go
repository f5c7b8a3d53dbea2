package iec104

import (
	"encoding/binary"
	"github.com/sirupsen/logrus"
)

var _lg = logrus.New()

func SetLogger(lg *logrus.Logger) {
	_lg = lg
}

// parseLittleEndianUint24 decodes a 3-byte little-endian value, the width
// IOA and CA-adjacent fields of IEC 104 use (e.g. the Information Object
// Address).
func parseLittleEndianUint24(x []byte) uint32 {
	return binary.LittleEndian.Uint32([]byte{x[0], x[1], x[2], 0x00})
}

// serializeLittleEndianUint24 is the inverse of parseLittleEndianUint24; i
// must fit in 24 bits, it is a programmer error otherwise.
func serializeLittleEndianUint24(i uint32) []byte {
	if i > 0xFFFFFF {
		panic("iec104: value does not fit in 24 bits")
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, i)
	return buf[:3]
}
