package iec104

import (
	"crypto/tls"
	"net"

	"github.com/sirupsen/logrus"
)

// ServerConfig configures Serve.
type ServerConfig struct {
	TLS       *tls.Config
	Policy    ConnectionPolicy
	RateCheck RateCheck
	Registry  *Registry
	Params    SessionParameters
	Logger    *logrus.Logger
}

// Serve listens on bindAddr and, for every accepted connection, builds a
// controlled-station Session and passes it to onSession. onSession
// should arrange for the session to eventually have StartDataTransfer
// driven on it (directly, since the peer is expected to send STARTDT
// act) and run for as long as the caller wants the link kept; Serve
// itself returns only when listening fails or Accept returns a
// non-temporary error.
//
// Grounded on the teacher's Server.listen/Server.Serve accept loop,
// generalized to hand each connection a Session instead of a bare Conn.
func Serve(bindAddr string, cfg ServerConfig, onSession func(*Session)) error {
	lg := cfg.Logger
	if lg == nil {
		lg = _lg
	}
	reg := cfg.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	cfg.Params = withParamDefaults(cfg.Params)
	listener, err := listenTransport(bindAddr, cfg.TLS)
	if err != nil {
		return err
	}
	defer listener.Close()

	lg.Infof("iec104: serving on %s (tls=%v)", bindAddr, cfg.TLS != nil)
	for {
		conn, err := listener.Accept()
		if err != nil {
			var ne net.Error
			if ok := asNetError(err, &ne); ok && ne.Temporary() {
				continue
			}
			return err
		}
		sess := NewSession(conn, RoleServer, cfg.Params, reg, cfg.Policy, cfg.RateCheck)
		go onSession(sess)
	}
}

func asNetError(err error, target *net.Error) bool {
	if ne, ok := err.(net.Error); ok {
		*target = ne
		return true
	}
	return false
}
