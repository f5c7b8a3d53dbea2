package iec104

import "fmt"

// defaultMaxBufferSize is the default bound on the rolling receive buffer
// (§5: "the receive buffer is bounded by a configurable maximum (default
// 64 KiB)").
const defaultMaxBufferSize = 64 * 1024

// FrameDecoder scans a byte stream for complete APDUs. It is the
// generalization of the teacher's readApduHeader/readApduBody pair: instead
// of blocking on a net.Conn, it is fed bytes as they arrive (Feed) and
// yields frames as they complete (Next), so it can be driven from any
// transport and tested without a socket. The ASDU body is returned as a
// slice into the decoder's internal buffer (zero-copy); callers that need
// to retain it past the next Feed/Next call must copy it.
type FrameDecoder struct {
	buf         []byte
	maxBufSize  int
	sawAnyBytes bool
}

// NewFrameDecoder returns a decoder bounded by maxBufSize bytes (0 selects
// the default of 64 KiB).
func NewFrameDecoder(maxBufSize int) *FrameDecoder {
	if maxBufSize <= 0 {
		maxBufSize = defaultMaxBufferSize
	}
	return &FrameDecoder{maxBufSize: maxBufSize}
}

// Feed appends newly-read bytes to the decoder's internal buffer. It fails
// with KindBufferExceeded if the buffer would grow past the configured
// bound before a complete frame can be parsed out of it.
func (d *FrameDecoder) Feed(p []byte) error {
	if len(d.buf)+len(p) > d.maxBufSize {
		return newErr(KindBufferExceeded, fmt.Errorf("receive buffer would exceed %d bytes", d.maxBufSize))
	}
	d.buf = append(d.buf, p...)
	return nil
}

// Next extracts the next complete frame from the buffer, if any.
// ok is false (with a nil error) when more bytes are needed. asdu is the
// raw ASDU body for I-frames, nil otherwise.
func (d *FrameDecoder) Next() (frame Frame, asdu []byte, ok bool, err error) {
	for {
		if len(d.buf) == 0 {
			return nil, nil, false, nil
		}
		if d.buf[0] != startByte {
			return nil, nil, false, newErr(KindFramingViolation, fmt.Errorf("expected start byte 0x68, got %#02x", d.buf[0]))
		}
		d.sawAnyBytes = true
		if len(d.buf) < 2 {
			return nil, nil, false, nil
		}
		length := int(d.buf[1])
		if length < minAPDULength || length > maxAPDULength {
			return nil, nil, false, newErr(KindMalformedLength, fmt.Errorf("length %d out of [%d, %d]", length, minAPDULength, maxAPDULength))
		}
		total := 2 + length
		if len(d.buf) < total {
			return nil, nil, false, nil
		}

		var cf [4]byte
		copy(cf[:], d.buf[2:6])
		f, perr := ParseAPCI(cf)
		if perr != nil {
			return nil, nil, false, perr
		}
		bodyLen := length - 4
		switch f.FrameType() {
		case FrameTypeI:
			body := d.buf[6:total]
			d.buf = d.buf[total:]
			return f, body, true, nil
		default:
			if bodyLen != 0 {
				return nil, nil, false, newErr(KindMalformedLength, fmt.Errorf("%s frame must have length 4, got %d", f.FrameType(), length))
			}
			d.buf = d.buf[total:]
			return f, nil, true, nil
		}
	}
}

// Buffered reports how many bytes are currently held, undigested.
func (d *FrameDecoder) Buffered() int { return len(d.buf) }
