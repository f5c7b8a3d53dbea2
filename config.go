package iec104

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// Default session parameters (§5), matching the companion standard's
// recommended values for a single link without redundancy.
const (
	DefaultK  = 12
	DefaultW  = 8
	DefaultT0 = 30 * time.Second
	DefaultT1 = 15 * time.Second
	DefaultT2 = 10 * time.Second
	DefaultT3 = 20 * time.Second
)

// SessionParameters bounds a running Session: the sliding-window sizes
// and the four timeouts. Construct with NewSessionParameters so the
// validated-defaults and w<k invariants always hold.
type SessionParameters struct {
	K, W           int
	T0, T1, T2, T3 time.Duration

	// MaxBufferSize bounds the FrameDecoder's rolling receive buffer.
	MaxBufferSize int
}

// Option configures a SessionParameters during construction, following
// the functional-options shape the client's connection options use.
type Option func(*SessionParameters)

// WithWindow overrides k (max unacked sent I-frames) and w (ack after
// this many received I-frames).
func WithWindow(k, w int) Option {
	return func(p *SessionParameters) {
		p.K, p.W = k, w
	}
}

// WithTimeouts overrides T0-T3.
func WithTimeouts(t0, t1, t2, t3 time.Duration) Option {
	return func(p *SessionParameters) {
		p.T0, p.T1, p.T2, p.T3 = t0, t1, t2, t3
	}
}

// WithMaxBufferSize overrides the receive buffer bound (0 keeps the
// FrameDecoder default).
func WithMaxBufferSize(n int) Option {
	return func(p *SessionParameters) { p.MaxBufferSize = n }
}

// NewSessionParameters builds parameters starting from the documented
// defaults and applying opts in order, then validates the result.
func NewSessionParameters(opts ...Option) (SessionParameters, error) {
	p := SessionParameters{
		K: DefaultK, W: DefaultW,
		T0: DefaultT0, T1: DefaultT1, T2: DefaultT2, T3: DefaultT3,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return SessionParameters{}, err
	}
	return p, nil
}

// Validate checks the invariants NewSessionParameters enforces: all of
// k, w, T0-T3 positive, and w < k (a window that acks no earlier than it
// fills can never make progress).
func (p SessionParameters) Validate() error {
	if p.K <= 0 || p.W <= 0 {
		return fmt.Errorf("iec104: k and w must be positive, got k=%d w=%d", p.K, p.W)
	}
	if p.W >= p.K {
		return fmt.Errorf("iec104: w (%d) must be less than k (%d)", p.W, p.K)
	}
	if p.T0 <= 0 || p.T1 <= 0 || p.T2 <= 0 || p.T3 <= 0 {
		return fmt.Errorf("iec104: T0-T3 must be positive")
	}
	if p.T2 > p.T1 {
		return fmt.Errorf("iec104: T2 (%s) must not exceed T1 (%s)", p.T2, p.T1)
	}
	return nil
}

// withParamDefaults fills in the documented defaults for any zero field
// of p, so a caller that only cares about overriding one or two
// parameters can pass a partially-populated SessionParameters.
func withParamDefaults(p SessionParameters) SessionParameters {
	if p.K == 0 {
		p.K = DefaultK
	}
	if p.W == 0 {
		p.W = DefaultW
	}
	if p.T0 == 0 {
		p.T0 = DefaultT0
	}
	if p.T1 == 0 {
		p.T1 = DefaultT1
	}
	if p.T2 == 0 {
		p.T2 = DefaultT2
	}
	if p.T3 == 0 {
		p.T3 = DefaultT3
	}
	return p
}

// LoadSessionParametersINI reads k/w/t0/t1/t2/t3/max_buffer_size from the
// "iec104" section of an INI file (gopkg.in/ini.v1, the format a station
// operator's deployment config is kept in), falling back to the
// documented default for any key not present.
func LoadSessionParametersINI(path string) (SessionParameters, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return SessionParameters{}, fmt.Errorf("iec104: load ini %s: %w", path, err)
	}
	sec := cfg.Section("iec104")
	p := SessionParameters{
		K:             sec.Key("k").MustInt(DefaultK),
		W:             sec.Key("w").MustInt(DefaultW),
		T0:            sec.Key("t0").MustDuration(DefaultT0),
		T1:            sec.Key("t1").MustDuration(DefaultT1),
		T2:            sec.Key("t2").MustDuration(DefaultT2),
		T3:            sec.Key("t3").MustDuration(DefaultT3),
		MaxBufferSize: sec.Key("max_buffer_size").MustInt(0),
	}
	if err := p.Validate(); err != nil {
		return SessionParameters{}, err
	}
	return p, nil
}
