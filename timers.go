package iec104

import "time"

/*
timerSet owns the four timeouts a running session watches (§5):

  - T0: how long a TCP connect attempt (and the STARTDT handshake) may
    take before the session aborts.
  - T1: how long an unacknowledged I-frame (or U-frame) may go without
    an ack before the session aborts the connection.
  - T2: how long the receiver may delay an explicit acknowledgement of
    received I-frames before it must send one unprompted.
  - T3: the idle-link keepalive — if no frame has been received, and no
    I- or U-frame sent, for T3, a TESTFR must be issued.

T1 is armed against the oldest unacknowledged I-frame and cancelled
entirely once the window drains; T2 is armed by the first unacknowledged
received I-frame and T3 is reset on every qualifying event. All four are backed
by time.Timer, matching the one-goroutine-per-session, single-select-loop
shape the rest of the package uses — timers are read from their channel
inside that loop, never via separate goroutines or callbacks.
*/
type timerSet struct {
	t0, t1, t2, t3 time.Duration

	timerT0 *time.Timer
	timerT1 *time.Timer
	timerT2 *time.Timer
	timerT3 *time.Timer
}

func newTimerSet(t0, t1, t2, t3 time.Duration) *timerSet {
	return &timerSet{t0: t0, t1: t1, t2: t2, t3: t3}
}

func (ts *timerSet) armT0() {
	ts.timerT0 = time.NewTimer(ts.t0)
}

func (ts *timerSet) cancelT0() {
	if ts.timerT0 != nil {
		ts.timerT0.Stop()
		ts.timerT0 = nil
	}
}

// armT1 (re)starts T1; call whenever an I/U-frame is sent while no
// T1 is already counting down an earlier unacknowledged send.
func (ts *timerSet) armT1() {
	ts.timerT1 = time.NewTimer(ts.t1)
}

// cancelT1 stops T1; call once every outstanding frame has been
// acknowledged.
func (ts *timerSet) cancelT1() {
	if ts.timerT1 != nil {
		ts.timerT1.Stop()
		ts.timerT1 = nil
	}
}

func (ts *timerSet) t1Armed() bool { return ts.timerT1 != nil }

// resetT2 (re)arms the acknowledgement-delay timer; call on receipt of
// the first unacknowledged I-frame in a burst.
func (ts *timerSet) resetT2() {
	ts.timerT2 = time.NewTimer(ts.t2)
}

func (ts *timerSet) cancelT2() {
	if ts.timerT2 != nil {
		ts.timerT2.Stop()
		ts.timerT2 = nil
	}
}

// resetT3 (re)arms the idle-link keepalive; call after every frame
// received and after every I- or U-frame sent (S-frames sent do not reset
// it).
func (ts *timerSet) resetT3() {
	if ts.timerT3 != nil {
		ts.timerT3.Stop()
	}
	ts.timerT3 = time.NewTimer(ts.t3)
}

// channels exposes the four timer channels for use in a select
// statement; a nil *time.Timer yields a nil channel, which select
// ignores forever — exactly the "not currently armed" behavior wanted.
func (ts *timerSet) channels() (t0, t1, t2, t3 <-chan time.Time) {
	if ts.timerT0 != nil {
		t0 = ts.timerT0.C
	}
	if ts.timerT1 != nil {
		t1 = ts.timerT1.C
	}
	if ts.timerT2 != nil {
		t2 = ts.timerT2.C
	}
	if ts.timerT3 != nil {
		t3 = ts.timerT3.C
	}
	return
}

func (ts *timerSet) stopAll() {
	ts.cancelT0()
	ts.cancelT1()
	ts.cancelT2()
	if ts.timerT3 != nil {
		ts.timerT3.Stop()
	}
}
