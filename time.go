package iec104

import (
	"encoding/binary"
	"time"
)

// CP56Time2a is the seven-octet IEC 104 timestamp:
//
//	| Milliseconds(D7--D0)                |  Milliseconds = 0-59999
//	| Milliseconds(D15--D8)                |
//	| IV(D7) RES1(D6) Minutes(D5--D0)      |  Minutes = 0-59, IV: 0 valid, 1 invalid
//	| SU(D7) RES2(D6-D5) Hours(D4--D0)     |  Hours = 0-23, SU: 0 standard, 1 summer time
//	| DayOfWeek(D7--D5) DayOfMonth(D4--D0) |  DayOfMonth = 1-31, DayOfWeek = 1-7
//	| RES3(D7--D4) Month(D3--D0)           |  Month = 1-12
//	| RES4(D7) Year(D6--D0)                |  Year = 0-99 (2000-based)
//
// See companion standard 101, subclass 7.2.6.18.
type CP56Time2a struct {
	Time    time.Time
	Invalid bool // IV bit
}

// Encode renders t in loc (UTC if nil) as the 7-byte wire form.
func (t CP56Time2a) Encode(loc *time.Location) []byte {
	if loc == nil {
		loc = time.UTC
	}
	ts := t.Time.In(loc)
	msec := uint16(ts.Nanosecond()/int(time.Millisecond) + ts.Second()*1000)
	iv := byte(0)
	if t.Invalid {
		iv = 0x80
	}
	su := byte(0)
	if isSummerTime(ts) {
		su = 0x80
	}
	wd := byte(ts.Weekday())
	if wd == 0 {
		wd = 7 // Sunday: the wire form numbers Monday=1 .. Sunday=7
	}
	return []byte{
		byte(msec),
		byte(msec >> 8),
		iv | byte(ts.Minute()&0x3f),
		su | byte(ts.Hour()&0x1f),
		wd<<5 | byte(ts.Day()&0x1f),
		byte(ts.Month() & 0x0f),
		byte((ts.Year() - 2000) & 0x7f),
	}
}

func isSummerTime(t time.Time) bool {
	_, stdOffset := t.Zone()
	_ = stdOffset
	return t.IsDST()
}

// ParseCP56Time2a decodes a 7-byte CP56Time2a field in loc (UTC if nil).
// It fails closed with KindTruncated if fewer than 7 bytes are available.
func ParseCP56Time2a(b []byte, loc *time.Location) (CP56Time2a, error) {
	if len(b) < 7 {
		return CP56Time2a{}, newErr(KindTruncated, nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	x := int(binary.LittleEndian.Uint16(b))
	msec := x % 1000
	sec := x / 1000
	invalid := b[2]&0x80 != 0
	min := int(b[2] & 0x3f)
	hour := int(b[3] & 0x1f)
	day := int(b[4] & 0x1f)
	month := time.Month(b[5] & 0x0f)
	year := 2000 + int(b[6]&0x7f)
	nsec := msec * int(time.Millisecond)
	return CP56Time2a{
		Time:    time.Date(year, month, day, hour, min, sec, nsec, loc),
		Invalid: invalid,
	}, nil
}

// CP24Time2a is the three-octet IEC 104 timestamp (milliseconds-of-minute
// plus minute only; hour/day/month/year are implied by context). See
// companion standard 101, subclass 7.2.6.19.
func CP24Time2aEncode(t time.Time, loc *time.Location) []byte {
	if loc == nil {
		loc = time.UTC
	}
	ts := t.In(loc)
	msec := uint16(ts.Nanosecond()/int(time.Millisecond) + ts.Second()*1000)
	return []byte{byte(msec), byte(msec >> 8), byte(ts.Minute() & 0x3f)}
}

// ParseCP24Time2a decodes a 3-byte CP24Time2a field, anchoring date/hour to
// now (in loc, UTC if nil) since the wire form carries only minute
// resolution.
func ParseCP24Time2a(b []byte, loc *time.Location) (time.Time, error) {
	if len(b) < 3 {
		return time.Time{}, newErr(KindTruncated, nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	x := int(binary.LittleEndian.Uint16(b))
	msec := x % 1000
	sec := x / 1000
	min := int(b[2] & 0x3f)
	now := time.Now().In(loc)
	year, month, day := now.Date()
	hour := now.Hour()
	return time.Date(year, month, day, hour, min, sec, msec*int(time.Millisecond), loc), nil
}
