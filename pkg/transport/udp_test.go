package transport

import (
	"net"
	"testing"
)

func TestSendDeliversDatagram(t *testing.T) {
	listener, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	sender, err := NewSender("127.0.0.1:0", listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	defer sender.Close()

	payload := []byte{0x01, 0x02, 0x03}
	if err := sender.Send(payload); err != nil {
		t.Fatalf("Send: %v", err)
	}

	buf := make([]byte, 16)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("ReadFromUDP: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("expected %d bytes, got %d", len(payload), n)
	}
}

func TestNewSenderDefaultsRemoteAddr(t *testing.T) {
	s, err := NewSender("127.0.0.1:0", "")
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	defer s.Close()
	if s.peer.Port != 4729 {
		t.Fatalf("expected default port 4729, got %d", s.peer.Port)
	}
}
