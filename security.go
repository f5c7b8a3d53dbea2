package iec104

import "net"

// Decision is what a security hook returns: allow the session to
// proceed, or reject it before any protocol state is touched.
type Decision int

const (
	Allow Decision = iota
	Reject
)

// ConnectionPolicy is consulted once, when NewSession wraps a TCP (or TLS)
// connection (accepted by Serve or dialed by OpenClient) and before any
// APDU is read. It is the
// integration point for an allowlist, mutual-TLS identity check, or any
// other connection-level gate; this package only defines the call site
// and the contract — implementing a concrete policy is left to the
// embedding application.
//
// A Reject closes the connection without acknowledging the peer's
// STARTDT: the Session is returned already STOPPED, and its Err reports a
// *SessionError{Kind: KindPolicyViolation}.
type ConnectionPolicy func(remote net.Addr) Decision

// FrameMeta describes one received frame for rate-limiting purposes,
// independent of whether its ASDU body, if any, decodes.
type FrameMeta struct {
	Remote net.Addr
	Length int
	Type   FrameType
}

// RateCheck is consulted for every frame a Session reads whose control
// field parses, before the frame is acted on or its ASDU decoded. It lets an embedder enforce a frames-per-second or
// bytes-per-second budget per peer; this package does not implement a
// limiter itself.
type RateCheck func(FrameMeta) Decision

// allowAll and noRateLimit are the zero-value policies a Session falls
// back to when the embedder supplies none, so a caller that doesn't care
// about access control can ignore this part of the contract entirely.
func allowAll(net.Addr) Decision        { return Allow }
func noRateLimit(FrameMeta) Decision    { return Allow }
