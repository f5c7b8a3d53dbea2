package iec104

import (
	"context"
	"time"
)

// Defaults for ManagedClient's reconnect behavior, carried over from the
// teacher's ClientOption.
const (
	DefaultReconnectRetries  = 0 // 0 means unlimited
	DefaultReconnectInterval = 1 * time.Minute
)

// AutoReconnectRule bounds how a ManagedClient retries a lost connection:
// up to retries attempts (0 = unlimited), waiting interval between each.
type AutoReconnectRule struct {
	retries  int
	interval time.Duration
}

// NewAutoReconnectRule validates and returns a rule, falling back to the
// package defaults for out-of-range fields.
func NewAutoReconnectRule(retries int, interval time.Duration) *AutoReconnectRule {
	if retries < 0 {
		retries = DefaultReconnectRetries
	}
	if interval <= 0 {
		interval = DefaultReconnectInterval
	}
	return &AutoReconnectRule{retries: retries, interval: interval}
}

// SessionHandler is invoked once per established Session, including every
// reconnect. It should drive StartDataTransfer, Submit/Receive, and
// return when the caller is done with this particular connection;
// ManagedClient decides separately whether to reconnect afterward.
type SessionHandler func(*Session)

// ManagedClient wraps OpenClient with the teacher's auto-reconnect
// policy: after a failed dial it waits the configured interval and dials
// again, up to the configured retry count. Once handler returns for an
// established session, it dials again immediately, whatever the session's
// outcome; the interval and retry count apply only to failed dials.
type ManagedClient struct {
	address string
	cfg     ClientConfig
	rule    *AutoReconnectRule
	handler SessionHandler

	onConnect    func(*Session)
	onDisconnect func(*Session, error)
}

// NewManagedClient returns a ManagedClient dialing address with cfg,
// invoking handler for every session established. Use the With* setters
// to override the default reconnect rule or install connect/disconnect
// hooks before calling Run.
func NewManagedClient(address string, cfg ClientConfig, handler SessionHandler) *ManagedClient {
	return &ManagedClient{
		address: address,
		cfg:     cfg,
		rule:    NewAutoReconnectRule(DefaultReconnectRetries, DefaultReconnectInterval),
		handler: handler,
	}
}

// WithAutoReconnectRule overrides the reconnect policy.
func (m *ManagedClient) WithAutoReconnectRule(rule *AutoReconnectRule) *ManagedClient {
	if rule != nil {
		m.rule = rule
	}
	return m
}

// WithOnConnect installs a hook called after a Session is established but
// before handler runs.
func (m *ManagedClient) WithOnConnect(fn func(*Session)) *ManagedClient {
	m.onConnect = fn
	return m
}

// WithOnDisconnect installs a hook called after handler returns, with the
// session's Err at that moment: nil if the session is still open, a
// KindAborted *SessionError after Close or Abort.
func (m *ManagedClient) WithOnDisconnect(fn func(*Session, error)) *ManagedClient {
	m.onDisconnect = fn
	return m
}

// Run dials and serves sessions until ctx is cancelled or the retry
// budget (rule.retries, 0 = unlimited) is exhausted. It returns the error
// from the last failed dial, or nil if ctx was cancelled first.
func (m *ManagedClient) Run(ctx context.Context) error {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return nil
		}
		sess, err := OpenClient(ctx, m.address, m.cfg)
		if err != nil {
			attempt++
			if m.rule.retries > 0 && attempt >= m.rule.retries {
				return err
			}
			select {
			case <-time.After(m.rule.interval):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		attempt = 0
		if m.onConnect != nil {
			m.onConnect(sess)
		}
		m.handler(sess)
		endErr := sess.Err()
		if m.onDisconnect != nil {
			m.onDisconnect(sess, endErr)
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}
