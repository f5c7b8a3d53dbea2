package iec104

import "fmt"

// Kind identifies the taxonomy of fatal and recoverable conditions the
// stack can surface; each Kind carries its own recovery policy
// (session-fatal, terminal, or recoverable-inline).
type Kind uint8

const (
	_ Kind = iota
	// KindMalformedLength: frame length byte out of [4, 253].
	KindMalformedLength
	// KindFramingViolation: a byte preceded the start octet in a non-empty buffer.
	KindFramingViolation
	// KindProtocolViolation: a frame failed classification or field validation.
	KindProtocolViolation
	// KindUnhandledType: no registry entry for an ASDU type-id. Recoverable.
	KindUnhandledType
	// KindTruncated: an information element's value decoder ran out of bytes.
	KindTruncated
	// KindTrailingBytes: a value decoder left undecoded residue.
	KindTrailingBytes
	// KindEmptyASDU: num_objects == 0.
	KindEmptyASDU
	// KindNrOutOfRange: a received N(R) fell outside [v_a, v_s] on the modular circle.
	KindNrOutOfRange
	// KindWindowOverflow: an attempt to admit more than k unacked I-frames.
	KindWindowOverflow
	// KindT0Timeout: connection establishment did not complete in time.
	KindT0Timeout
	// KindT1Timeout: send/test acknowledgement was not received in time.
	KindT1Timeout
	// KindPolicyViolation: the security policy or rate-check hook rejected.
	KindPolicyViolation
	// KindBufferExceeded: the bounded receive buffer filled before a frame parsed.
	KindBufferExceeded
	// KindTransportClosed: the underlying transport reported EOF/closed.
	KindTransportClosed
	// KindAborted: the caller requested Session.Abort().
	KindAborted
)

func (k Kind) String() string {
	switch k {
	case KindMalformedLength:
		return "malformed-length"
	case KindFramingViolation:
		return "framing-violation"
	case KindProtocolViolation:
		return "protocol-violation"
	case KindUnhandledType:
		return "unhandled-type"
	case KindTruncated:
		return "truncated"
	case KindTrailingBytes:
		return "trailing-bytes"
	case KindEmptyASDU:
		return "empty-asdu"
	case KindNrOutOfRange:
		return "nr-out-of-range"
	case KindWindowOverflow:
		return "window-overflow"
	case KindT0Timeout:
		return "t0-timeout"
	case KindT1Timeout:
		return "t1-timeout"
	case KindPolicyViolation:
		return "policy-violation"
	case KindBufferExceeded:
		return "buffer-exceeded"
	case KindTransportClosed:
		return "transport-closed"
	case KindAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Fatal reports whether a condition of this Kind always drives the session
// to STOPPED. KindUnhandledType is the single recoverable, inline-delivered
// kind.
func (k Kind) Fatal() bool {
	return k != KindUnhandledType
}

// SessionError wraps a Kind with the underlying cause and, where relevant,
// the raw bytes that could not be handled (so a caller can log or forward
// an unhandled-type ASDU instead of dropping it silently).
type SessionError struct {
	Kind  Kind
	Cause error
	Raw   []byte
}

func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("iec104: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("iec104: %s", e.Kind)
}

func (e *SessionError) Unwrap() error { return e.Cause }

func newErr(kind Kind, cause error) *SessionError {
	return &SessionError{Kind: kind, Cause: cause}
}

func newErrRaw(kind Kind, cause error, raw []byte) *SessionError {
	return &SessionError{Kind: kind, Cause: cause, Raw: raw}
}

// IsKind reports whether err is a *SessionError of the given Kind.
func IsKind(err error, kind Kind) bool {
	se, ok := err.(*SessionError)
	if !ok {
		return false
	}
	return se.Kind == kind
}

// errSingleCmdTerm and errDoubleCmdTerm mirror the teacher's sentinel-error
// convention for the two command-termination markers a C_SC_NA_1/C_DC_NA_1
// activation-termination ASDU surfaces as. They are not session-fatal: a
// command's activation-termination is a normal part of its life cycle,
// delivered to Session.Receive like any other ASDU.
type errSingleCmdTerm struct{}

func (e errSingleCmdTerm) Error() string { return "termination of single command" }

// IsErrSingleCmdTerm reports whether err marks the end of a C_SC_NA_1 activation.
func IsErrSingleCmdTerm(err error) bool {
	_, ok := err.(errSingleCmdTerm)
	return ok
}

type errDoubleCmdTerm struct{}

func (e errDoubleCmdTerm) Error() string { return "termination of double command" }

// IsErrDoubleCmdTerm reports whether err marks the end of a C_DC_NA_1 activation.
func IsErrDoubleCmdTerm(err error) bool {
	_, ok := err.(errDoubleCmdTerm)
	return ok
}

// ClassifyCommandTermination turns a received activation-termination ASDU
// for a single or double command into the matching sentinel error, nil
// for anything else. A caller driving a command/response exchange can use
// this to fold the termination signal into its own error handling instead
// of pattern-matching on Type()/Cause() directly.
func ClassifyCommandTermination(asdu *ASDU) error {
	if asdu.Cause() != CotActTerm {
		return nil
	}
	switch asdu.Type() {
	case CScNa1:
		return errSingleCmdTerm{}
	case CDcNa1:
		return errDoubleCmdTerm{}
	default:
		return nil
	}
}
