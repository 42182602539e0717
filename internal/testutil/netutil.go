package testutil

import (
	"net"
	"testing"
)

// PipeConn creates a connected net.Pipe pair whose ends report TCP addresses,
// so code that splits host:port works unchanged. Both ends close on cleanup.
func PipeConn(t testing.TB) (client, server net.Conn) {
	t.Helper()

	s, c := net.Pipe()
	server = &addrConn{Conn: s, local: TCPAddr("127.0.0.1:43594"), remote: TCPAddr("127.0.0.1:50000")}
	client = &addrConn{Conn: c, local: TCPAddr("127.0.0.1:50000"), remote: TCPAddr("127.0.0.1:43594")}

	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})

	return client, server
}

type addrConn struct {
	net.Conn
	local  net.Addr
	remote net.Addr
}

func (c *addrConn) LocalAddr() net.Addr  { return c.local }
func (c *addrConn) RemoteAddr() net.Addr { return c.remote }

// FakeAddr implements net.Addr for tests.
type FakeAddr struct {
	NetworkName string
	AddrString  string
}

func (f FakeAddr) Network() string { return f.NetworkName }
func (f FakeAddr) String() string  { return f.AddrString }

// NewFakeAddr creates a FakeAddr.
func NewFakeAddr(network, addr string) FakeAddr {
	return FakeAddr{
		NetworkName: network,
		AddrString:  addr,
	}
}

// TCPAddr creates a FakeAddr for a TCP endpoint.
func TCPAddr(addr string) FakeAddr {
	return NewFakeAddr("tcp", addr)
}

// ListenTCP creates a TCP listener on a random local port.
// The listener is closed on cleanup.
func ListenTCP(t testing.TB) (net.Listener, string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create TCP listener: %v", err)
	}

	t.Cleanup(func() {
		_ = listener.Close()
	})

	return listener, listener.Addr().String()
}
