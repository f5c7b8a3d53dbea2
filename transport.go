package iec104

import (
	"crypto/tls"
	"net"
	"time"
)

// Transport is the byte-stream abstraction a Session drives; net.Conn
// satisfies it directly. Tests substitute an in-memory pipe.
type Transport interface {
	net.Conn
}

// dialTransport opens a TCP connection to address, wrapped in TLS when tc
// is non-nil. It is the generalization of the teacher's Client.dial,
// given a deadline instead of being called bare.
func dialTransport(address string, tc *tls.Config, timeout time.Duration) (Transport, error) {
	dialer := &net.Dialer{Timeout: timeout}
	if tc != nil {
		return tls.DialWithDialer(dialer, "tcp", address, tc)
	}
	return dialer.Dial("tcp", address)
}

// listenTransport opens a TCP listener on bindAddr, wrapped in TLS when
// tc is non-nil, generalizing the teacher's Server.listen.
func listenTransport(bindAddr string, tc *tls.Config) (net.Listener, error) {
	if tc != nil {
		return tls.Listen("tcp", bindAddr, tc)
	}
	return net.Listen("tcp", bindAddr)
}
