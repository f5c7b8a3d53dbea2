package iec104

import (
	"context"
	"crypto/tls"
	"time"
)

// ClientConfig configures OpenClient. A nil TLS means a plain TCP dial; a
// nil Policy or RateCheck allows everything; a nil Registry selects
// DefaultRegistry; zero Params fields take the documented defaults.
type ClientConfig struct {
	TLS      *tls.Config
	Policy   ConnectionPolicy
	RateCheck RateCheck
	Registry *Registry
	Params   SessionParameters
}

// OpenClient dials address (optionally over TLS) and returns a running
// Session in the controlling-station role. It does not itself run the
// STARTDT handshake: call Session.StartDataTransfer once the caller is
// ready to receive process data, matching the separation between link
// establishment and data transfer the companion standard draws.
func OpenClient(ctx context.Context, address string, cfg ClientConfig) (*Session, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	cfg.Params = withParamDefaults(cfg.Params)
	timeout := cfg.Params.T0
	if timeout <= 0 {
		timeout = DefaultT0
	}
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d < timeout {
			timeout = d
		}
	}
	conn, err := dialTransport(address, cfg.TLS, timeout)
	if err != nil {
		return nil, newErr(KindTransportClosed, err)
	}
	return NewSession(conn, RoleClient, cfg.Params, reg, cfg.Policy, cfg.RateCheck), nil
}
