// Package transport emits signaling datagrams over UDP/IPv4.
// Fire-and-forget: send failures are surfaced to the caller, never
// retried.
package transport

import (
	"net"

	"github.com/protei/vmsc/pkg/vmscerr"
)

// DefaultPeer is the default destination when an Endpoint is left
// unconfigured.
const DefaultPeer = "127.0.0.1:4729"

// Sender emits datagrams to a fixed remote peer from a (possibly
// auto-assigned) local port.
type Sender struct {
	conn *net.UDPConn
	peer *net.UDPAddr
}

// NewSender opens a UDP socket bound to localAddr (host:port, port 0 to
// auto-assign) and targeting remoteAddr.
func NewSender(localAddr, remoteAddr string) (*Sender, error) {
	if remoteAddr == "" {
		remoteAddr = DefaultPeer
	}

	local, err := net.ResolveUDPAddr("udp4", localAddr)
	if err != nil {
		return nil, vmscerr.Wrap(vmscerr.KindTransportError, err, "resolving local address %s", localAddr)
	}
	remote, err := net.ResolveUDPAddr("udp4", remoteAddr)
	if err != nil {
		return nil, vmscerr.Wrap(vmscerr.KindTransportError, err, "resolving remote address %s", remoteAddr)
	}

	// An unconnected socket: ICMP errors caused by an earlier datagram are
	// not reported on later sends.
	conn, err := net.ListenUDP("udp4", local)
	if err != nil {
		return nil, vmscerr.Wrap(vmscerr.KindTransportError, err, "binding udp %s for %s", localAddr, remoteAddr)
	}

	return &Sender{conn: conn, peer: remote}, nil
}

// Send emits datagram to the configured peer. No retry on failure.
func (s *Sender) Send(datagram []byte) error {
	if _, err := s.conn.WriteToUDP(datagram, s.peer); err != nil {
		return vmscerr.Wrap(vmscerr.KindTransportError, err, "sending datagram to %s", s.peer)
	}
	return nil
}

// Close releases the underlying socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}
