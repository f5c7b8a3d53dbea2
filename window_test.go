package iec104

import "testing"

func TestSendWindow_FullAndAck(t *testing.T) {
	w := NewSendWindow(3)
	for i := 0; i < 3; i++ {
		if w.Full() {
			t.Fatalf("window reported full after only %d assignments", i)
		}
		w.Assign()
	}
	if !w.Full() {
		t.Fatal("expected window to be full after k assignments")
	}
	if err := w.Ack(2); err != nil {
		t.Fatalf("Ack() error = %v", err)
	}
	if w.Full() {
		t.Fatal("expected window to have room after acking 2 of 3")
	}
	if w.Outstanding() != 1 {
		t.Errorf("Outstanding() = %d, want 1", w.Outstanding())
	}
}

func TestSendWindow_AckRejectsUnsentSequenceNumbers(t *testing.T) {
	w := NewSendWindow(3)
	w.Assign()
	if err := w.Ack(5); !IsKind(err, KindNrOutOfRange) {
		t.Errorf("expected KindNrOutOfRange, got %v", err)
	}
}

func TestSendWindow_WrapsAtSeqSpace(t *testing.T) {
	w := NewSendWindow(2)
	w.vS = seqSpace - 1
	sn := w.Assign()
	if sn != seqSpace-1 {
		t.Fatalf("Assign() = %d, want %d", sn, seqSpace-1)
	}
	if w.vS != 0 {
		t.Errorf("vS after wraparound = %d, want 0", w.vS)
	}
}

func TestReceiveWindow_AcceptRejectsOutOfOrder(t *testing.T) {
	r := NewReceiveWindow(4)
	if err := r.Accept(0); err != nil {
		t.Fatalf("Accept(0) error = %v", err)
	}
	if err := r.Accept(5); !IsKind(err, KindProtocolViolation) {
		t.Errorf("expected KindProtocolViolation for out-of-order N(S), got %v", err)
	}
}

func TestReceiveWindow_NeedsAckAfterWReceives(t *testing.T) {
	r := NewReceiveWindow(2)
	r.Accept(0)
	if r.NeedsAck() {
		t.Fatal("should not need ack after only 1 of 2")
	}
	r.Accept(1)
	if !r.NeedsAck() {
		t.Fatal("expected NeedsAck after w receives")
	}
	r.Acked()
	if r.NeedsAck() || r.Pending() {
		t.Fatal("expected counters reset after Acked()")
	}
	if r.NR() != 2 {
		t.Errorf("NR() = %d, want 2", r.NR())
	}
}

func TestSeqDiff(t *testing.T) {
	tests := []struct {
		from, to uint16
		want     int
	}{
		{0, 0, 0},
		{0, 5, 5},
		{seqSpace - 1, 0, 1},
		{seqSpace - 1, 1, 2},
	}
	for _, tt := range tests {
		if got := seqDiff(tt.from, tt.to); got != tt.want {
			t.Errorf("seqDiff(%d, %d) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}
