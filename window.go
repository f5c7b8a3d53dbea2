package iec104

// seqSpace is the modulus sequence numbers wrap at (15 bits, §5).
const seqSpace = 1 << 15

func seqInc(n uint16) uint16 { return (n + 1) % seqSpace }

// seqDiff returns how many sequence numbers lie between from (exclusive)
// and to (inclusive), walking forward through the modular space. It is
// the basis for both "how many unacked frames does this N(R) acknowledge"
// and "is the window full".
func seqDiff(from, to uint16) int {
	d := int(to) - int(from)
	if d < 0 {
		d += seqSpace
	}
	return d
}

/*
SendWindow tracks the sender side of the k/w flow-control scheme (§5):
vS is the next sequence number this station will assign to an outgoing
I-frame and vA the oldest unacknowledged one. Only the count of
sent-but-unacked I-frames is kept; the frames themselves are not
retained. k bounds how many may be outstanding at once.
*/
type SendWindow struct {
	k        int
	vS       uint16
	vA       uint16 // oldest unacked send sequence number
	outstand int
}

// NewSendWindow returns a window with the given k (max unacknowledged
// I-frames); k must be positive.
func NewSendWindow(k int) *SendWindow {
	if k <= 0 {
		panic("iec104: k must be positive")
	}
	return &SendWindow{k: k}
}

// Full reports whether k outstanding I-frames are already unacknowledged;
// a full window means the session must stall outgoing user data until an
// S-frame or piggybacked ack arrives.
func (w *SendWindow) Full() bool { return w.outstand >= w.k }

// Assign hands out the next send sequence number and marks it
// outstanding. Callers must check Full first.
func (w *SendWindow) Assign() uint16 {
	sn := w.vS
	w.vS = seqInc(w.vS)
	w.outstand++
	return sn
}

// Ack processes a received N(R), acknowledging every I-frame from the
// current vA up to (not including) nr. It fails with KindNrOutOfRange if
// nr acknowledges frames never sent (nr is ahead of vS) or rewinds before
// the last ack (per the monotonic-ack invariant).
func (w *SendWindow) Ack(nr uint16) error {
	acked := seqDiff(w.vA, nr)
	unsent := seqDiff(w.vA, w.vS)
	if acked > unsent {
		return newErr(KindNrOutOfRange, nil)
	}
	w.vA = nr
	w.outstand -= acked
	if w.outstand < 0 {
		w.outstand = 0
	}
	return nil
}

// Outstanding reports how many sent I-frames remain unacknowledged.
func (w *SendWindow) Outstanding() int { return w.outstand }

/*
ReceiveWindow tracks the receiver side: vR is the next send sequence
number expected from the peer, and unackedRx counts how many I-frames
have arrived since the last acknowledgement was sent (the w parameter:
"acknowledge after at most w received I-frames", §5).
*/
type ReceiveWindow struct {
	w          int
	vR         uint16
	unackedRx  int
}

// NewReceiveWindow returns a window with the given w (ack after this
// many unacked received I-frames); w must be positive.
func NewReceiveWindow(w int) *ReceiveWindow {
	if w <= 0 {
		panic("iec104: w must be positive")
	}
	return &ReceiveWindow{w: w}
}

// Accept validates an incoming I-frame's N(S) against vR (it must equal
// the expected sequence number exactly — out-of-order delivery fails with
// KindProtocolViolation over a reliable transport) and advances vR.
func (r *ReceiveWindow) Accept(ns uint16) error {
	if ns != r.vR {
		return newErr(KindProtocolViolation, nil)
	}
	r.vR = seqInc(r.vR)
	r.unackedRx++
	return nil
}

// NeedsAck reports whether w unacknowledged I-frames have accumulated
// and an S-frame (or piggybacked ack) should be sent now rather than
// waiting for T2.
func (r *ReceiveWindow) NeedsAck() bool { return r.unackedRx >= r.w }

// Acked resets the unacknowledged-receive counter after an ack (S-frame
// or outgoing I-frame carrying the current vR) has been sent.
func (r *ReceiveWindow) Acked() { r.unackedRx = 0 }

// NR is the N(R) value to send when acknowledging: the next sequence
// number this station expects, i.e. one past the last I-frame accepted.
func (r *ReceiveWindow) NR() uint16 { return r.vR }

// Pending reports whether any I-frame has been accepted since the last
// Acked call.
func (r *ReceiveWindow) Pending() bool { return r.unackedRx > 0 }
