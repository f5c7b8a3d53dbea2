package iec104

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Role distinguishes which handshake direction a Session takes: only the
// controlling station (client) ever initiates STARTDT/STOPDT; the
// controlled station (server) only answers.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}

// State is one node of the session lifecycle (§6):
//
//	CLOSED -> CONNECTING -> RUNNING -> STOPPED -> RUNNING (STOPDT/STARTDT cycle)
//	  `-----------------------------------------------' (any state, on error/Close)
type State int

const (
	StateClosed State = iota
	StateConnecting
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateConnecting:
		return "CONNECTING"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

/*
Session drives one IEC 104 link end to end: APCI framing, ASDU codec
dispatch, the k/w send and receive windows, and the T0-T3 timers, all
from a single goroutine running a cooperative select loop. The teacher's
split between a writingToSocket and a readingFromSocket goroutine is
collapsed into this one loop plus a single unavoidable blocking reader
goroutine that only ever forwards raw bytes — every decision (what to
send, when to ack, when to time out) is made in one place with no
internal locking of protocol state.
*/
type Session struct {
	conn   Transport
	role   Role
	params SessionParameters
	reg    *Registry

	policy    ConnectionPolicy
	rateCheck RateCheck

	dec     *FrameDecoder
	sendWin *SendWindow
	recvWin *ReceiveWindow
	timers  *timerSet

	rawCh   chan readResult
	submitC chan submitRequest
	startC  chan lifecycleRequest
	stopC   chan lifecycleRequest
	closeC  chan struct{}
	asduCh  chan *ASDU

	mu      sync.Mutex
	state   State
	lastErr error
	done    chan struct{}
}

type readResult struct {
	data []byte
	err  error
}

type submitRequest struct {
	asdu *ASDU
	done chan error
}

type lifecycleRequest struct {
	done chan error
}

// NewSession wraps an already-connected Transport. params and reg must
// be ready for use (see NewSessionParameters and DefaultRegistry); policy
// and rateCheck may be nil, in which case every connection and frame is
// allowed.
func NewSession(conn Transport, role Role, params SessionParameters, reg *Registry, policy ConnectionPolicy, rateCheck RateCheck) *Session {
	if policy == nil {
		policy = allowAll
	}
	if rateCheck == nil {
		rateCheck = noRateLimit
	}
	s := &Session{
		conn:      conn,
		role:      role,
		params:    params,
		reg:       reg,
		policy:    policy,
		rateCheck: rateCheck,
		dec:       NewFrameDecoder(params.MaxBufferSize),
		sendWin:   NewSendWindow(params.K),
		recvWin:   NewReceiveWindow(params.W),
		timers:    newTimerSet(params.T0, params.T1, params.T2, params.T3),
		rawCh:     make(chan readResult, 1),
		submitC:   make(chan submitRequest),
		startC:    make(chan lifecycleRequest),
		stopC:     make(chan lifecycleRequest),
		closeC:    make(chan struct{}),
		asduCh:    make(chan *ASDU, 64),
		state:     StateConnecting,
		done:      make(chan struct{}),
	}
	if policy(remoteAddr(conn)) == Reject {
		err := newErr(KindPolicyViolation, fmt.Errorf("connection from %s rejected", remoteAddr(conn)))
		s.mu.Lock()
		s.lastErr = err
		s.state = StateStopped
		s.mu.Unlock()
		_lg.Errorf("iec104: session %s stopped: %v", role, err)
		close(s.done)
		close(s.asduCh)
		conn.Close()
		return s
	}
	go s.readLoop()
	go s.run()
	return s
}

func remoteAddr(conn Transport) net.Addr {
	if conn == nil {
		return nil
	}
	return conn.RemoteAddr()
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that ended the session, if any; nil while still
// open.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	_lg.Debugf("iec104: session %s -> %s", s.role, st)
}

// fail ends the session on any fatal condition (timeout, transport error,
// protocol/policy violation). The terminal state observable by a caller is
// STOPPED, never CLOSED: CLOSED means the Session object itself has been
// discarded, which only Close/Abort's caller can decide to do.
func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.lastErr == nil {
		s.lastErr = err
	}
	s.state = StateStopped
	s.mu.Unlock()
	_lg.Errorf("iec104: session %s stopped: %v", s.role, err)
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// readLoop is the one goroutine that may block on I/O; it exists only
// because net.Conn.Read has no select-friendly signature. It forwards
// every read (success or error) to run via rawCh and exits once the
// connection is closed out from under it.
func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			select {
			case s.rawCh <- readResult{data: cp}:
			case <-s.done:
				return
			}
		}
		if err != nil {
			select {
			case s.rawCh <- readResult{err: err}:
			case <-s.done:
			}
			return
		}
	}
}

// run is the single cooperative event loop: every protocol decision is
// made here, so sendWin/recvWin/timers need no locking of their own.
func (s *Session) run() {
	defer func() {
		s.conn.Close()
		s.timers.stopAll()
		close(s.asduCh)
	}()

	s.timers.armT0()
	s.timers.resetT3()

	var pendingStart, pendingStop *lifecycleRequest
	var awaitingStartCon, awaitingStopCon bool

	for {
		t0, t1, t2, t3 := s.timers.channels()
		select {
		case <-s.done:
			return

		case rr := <-s.rawCh:
			if rr.err != nil {
				s.fail(newErr(KindTransportClosed, rr.err))
				return
			}
			if err := s.dec.Feed(rr.data); err != nil {
				s.fail(err)
				return
			}
			for {
				frame, asduBody, ok, err := s.dec.Next()
				if err != nil {
					s.fail(err)
					return
				}
				if !ok {
					break
				}
				if s.rateCheck(FrameMeta{Remote: remoteAddr(s.conn), Length: len(asduBody) + 4, Type: frame.FrameType()}) == Reject {
					s.fail(newErr(KindPolicyViolation, nil))
					return
				}
				s.timers.resetT3()
				if err := s.handleFrame(frame, asduBody, &awaitingStartCon, &awaitingStopCon, &pendingStart, &pendingStop); err != nil {
					s.fail(err)
					return
				}
			}

		case req := <-s.startC:
			if s.State() == StateRunning {
				req.done <- nil // the peer's act already arrived and was confirmed
				continue
			}
			if s.State() != StateConnecting && s.State() != StateStopped {
				req.done <- fmt.Errorf("iec104: cannot start data transfer from state %s", s.State())
				continue
			}
			if s.role == RoleServer {
				// The controlled station never initiates; it only
				// answers an act already received (or yet to arrive).
				pendingStart = &req
				continue
			}
			if err := s.sendU(UStartDTAct); err != nil {
				req.done <- err
				continue
			}
			awaitingStartCon = true
			pendingStart = &req

		case req := <-s.stopC:
			if s.State() == StateStopped {
				req.done <- nil
				continue
			}
			if s.State() != StateRunning {
				req.done <- fmt.Errorf("iec104: cannot stop data transfer from state %s", s.State())
				continue
			}
			if s.role == RoleServer {
				pendingStop = &req
				continue
			}
			if err := s.sendU(UStopDTAct); err != nil {
				req.done <- err
				continue
			}
			awaitingStopCon = true
			pendingStop = &req

		case req := <-s.submitC:
			if s.State() != StateRunning {
				req.done <- fmt.Errorf("iec104: cannot submit outside RUNNING (state %s)", s.State())
				continue
			}
			if s.sendWin.Full() {
				req.done <- newErr(KindWindowOverflow, nil)
				continue
			}
			req.done <- s.sendI(req.asdu)

		case <-t0:
			s.fail(newErr(KindT0Timeout, nil))
			return

		case <-t1:
			s.fail(newErr(KindT1Timeout, nil))
			return

		case <-t2:
			_lg.Debugf("iec104: session %s t2 elapsed, acknowledging", s.role)
			if err := s.sendAckOnly(); err != nil {
				s.fail(err)
				return
			}

		case <-t3:
			_lg.Debugf("iec104: session %s t3 elapsed, sending testfr", s.role)
			if err := s.sendU(UTestFRAct); err != nil {
				s.fail(err)
				return
			}
			s.timers.armT1()
		}
	}
}

func (s *Session) handleFrame(frame Frame, asduBody []byte, awaitingStartCon, awaitingStopCon *bool, pendingStart, pendingStop **lifecycleRequest) error {
	switch f := frame.(type) {
	case IFrame:
		if s.State() != StateRunning {
			return newErr(KindProtocolViolation, fmt.Errorf("i-frame received outside RUNNING"))
		}
		if err := s.recvWin.Accept(f.SendSN); err != nil {
			return err
		}
		before := s.sendWin.Outstanding()
		if err := s.sendWin.Ack(f.RecvSN); err != nil {
			return err
		}
		s.restartT1AfterAck(before)
		if s.recvWin.Pending() && s.timers.timerT2 == nil {
			s.timers.resetT2()
		}
		asdu, err := DecodeASDU(asduBody, s.reg)
		if err != nil {
			serr, ok := err.(*SessionError)
			if !ok || serr.Kind != KindUnhandledType {
				return err
			}
			// Not fatal: the ASDU is delivered with Raw holding its body.
			asdu.Raw = append([]byte(nil), asdu.Raw...)
		}
		_lg.Debugf("iec104: session %s received i-frame ns=%d nr=%d type=%d", s.role, f.SendSN, f.RecvSN, asdu.Type())
		select {
		case s.asduCh <- asdu:
		default:
			return newErr(KindBufferExceeded, fmt.Errorf("asdu inbox full"))
		}
		return s.ackIfNeeded()

	case SFrame:
		_lg.Debugf("iec104: session %s received s-frame nr=%d", s.role, f.RecvSN)
		before := s.sendWin.Outstanding()
		if err := s.sendWin.Ack(f.RecvSN); err != nil {
			return err
		}
		s.restartT1AfterAck(before)
		return nil

	case UFrame:
		_lg.Debugf("iec104: session %s received u-frame %v", s.role, f.Function)
		switch f.Function {
		case UStartDTAct:
			if err := s.sendU(UStartDTCon); err != nil {
				return err
			}
			s.timers.cancelT0()
			s.setState(StateRunning)
			if *pendingStart != nil {
				(*pendingStart).done <- nil
				*pendingStart = nil
			}
		case UStartDTCon:
			if !*awaitingStartCon {
				return newErr(KindProtocolViolation, fmt.Errorf("unsolicited STARTDT con"))
			}
			*awaitingStartCon = false
			s.timers.cancelT0()
			s.setState(StateRunning)
			if *pendingStart != nil {
				(*pendingStart).done <- nil
				*pendingStart = nil
			}
		case UStopDTAct:
			if err := s.sendU(UStopDTCon); err != nil {
				return err
			}
			s.setState(StateStopped)
			s.timers.cancelT1()
			if *pendingStop != nil {
				(*pendingStop).done <- nil
				*pendingStop = nil
			}
		case UStopDTCon:
			if !*awaitingStopCon {
				return newErr(KindProtocolViolation, fmt.Errorf("unsolicited STOPDT con"))
			}
			*awaitingStopCon = false
			s.setState(StateStopped)
			s.timers.cancelT1()
			if *pendingStop != nil {
				(*pendingStop).done <- nil
				*pendingStop = nil
			}
		case UTestFRAct:
			return s.sendU(UTestFRCon)
		case UTestFRCon:
			s.timers.cancelT1()
		}
		return nil
	}
	return newErr(KindProtocolViolation, fmt.Errorf("unrecognized frame %T", frame))
}

func (s *Session) sendI(asdu *ASDU) error {
	body, err := EncodeASDU(asdu, s.reg)
	if err != nil {
		return err
	}
	sn := s.sendWin.Assign()
	f := IFrame{SendSN: sn, RecvSN: s.recvWin.NR()}
	s.recvWin.Acked()
	s.timers.cancelT2()
	if _, err := s.conn.Write(EncodeAPDU(f, body)); err != nil {
		return newErr(KindTransportClosed, err)
	}
	_lg.Debugf("iec104: session %s sent i-frame ns=%d nr=%d type=%d", s.role, f.SendSN, f.RecvSN, asdu.Type())
	if !s.timers.t1Armed() {
		s.timers.armT1()
	}
	s.timers.resetT3()
	return nil
}

// restartT1AfterAck keeps T1 timing the oldest unacknowledged I-frame:
// before is Outstanding() ahead of the ack. If the ack drained the window
// T1 is cancelled; if it freed some but not all slots T1 starts again.
func (s *Session) restartT1AfterAck(before int) {
	n := s.sendWin.Outstanding()
	if n >= before {
		return
	}
	s.timers.cancelT1()
	if n > 0 {
		s.timers.armT1()
	}
}

func (s *Session) ackIfNeeded() error {
	if s.recvWin.NeedsAck() {
		return s.sendAckOnly()
	}
	return nil
}

func (s *Session) sendAckOnly() error {
	if !s.recvWin.Pending() {
		return nil
	}
	f := SFrame{RecvSN: s.recvWin.NR()}
	s.recvWin.Acked()
	s.timers.cancelT2()
	if _, err := s.conn.Write(EncodeAPDU(f, nil)); err != nil {
		return newErr(KindTransportClosed, err)
	}
	_lg.Debugf("iec104: session %s sent s-frame nr=%d", s.role, f.RecvSN)
	return nil
}

func (s *Session) sendU(fn UFunction) error {
	if _, err := s.conn.Write(EncodeAPDU(UFrame{Function: fn}, nil)); err != nil {
		return newErr(KindTransportClosed, err)
	}
	_lg.Debugf("iec104: session %s sent u-frame %v", s.role, fn)
	s.timers.resetT3()
	return nil
}

// StartDataTransfer runs the STARTDT handshake. On a client Session it
// sends the activation and waits for confirmation; on a server Session
// it waits for the peer's activation (which may already be in flight)
// and confirms it. It blocks until the handshake completes, ctx is
// done, or the session ends.
func (s *Session) StartDataTransfer(ctx context.Context) error {
	req := lifecycleRequest{done: make(chan error, 1)}
	select {
	case s.startC <- req:
	case <-s.done:
		return s.sessionEndedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-s.done:
		return s.sessionEndedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StopDataTransfer runs the STOPDT handshake, the inverse of
// StartDataTransfer.
func (s *Session) StopDataTransfer(ctx context.Context) error {
	req := lifecycleRequest{done: make(chan error, 1)}
	select {
	case s.stopC <- req:
	case <-s.done:
		return s.sessionEndedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-s.done:
		return s.sessionEndedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit encodes and sends asdu as an I-frame. It is only valid while
// the session is RUNNING and blocks (respecting ctx) if the send window
// is currently full.
func (s *Session) Submit(ctx context.Context, asdu *ASDU) error {
	req := submitRequest{asdu: asdu, done: make(chan error, 1)}
	for {
		select {
		case s.submitC <- req:
		case <-s.done:
			return s.sessionEndedErr()
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case err := <-req.done:
			if serr, ok := err.(*SessionError); ok && serr.Kind == KindWindowOverflow {
				select {
				case <-time.After(5 * time.Millisecond):
					continue
				case <-ctx.Done():
					return ctx.Err()
				case <-s.done:
					return s.sessionEndedErr()
				}
			}
			return err
		case <-s.done:
			return s.sessionEndedErr()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Receive returns the next ASDU carried by an I-frame, blocking until
// one arrives, ctx is done, or the session ends. An ASDU whose type_id has
// no registered codec is delivered too, with Objects nil and Raw holding
// its undecoded information-object bytes.
func (s *Session) Receive(ctx context.Context) (*ASDU, error) {
	select {
	case asdu, ok := <-s.asduCh:
		if !ok {
			return nil, s.sessionEndedErr()
		}
		return asdu, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) sessionEndedErr() error {
	if err := s.Err(); err != nil {
		return err
	}
	return newErr(KindAborted, nil)
}

// Close tears the session down without an orderly STOPDT exchange.
func (s *Session) Close() error {
	s.fail(newErr(KindAborted, nil))
	return nil
}

// Abort is Close with an explicit caller-supplied reason, for use when a
// higher-level protocol violation (detected outside the codec) must end
// the session.
func (s *Session) Abort(reason error) error {
	s.fail(newErr(KindAborted, reason))
	return nil
}
