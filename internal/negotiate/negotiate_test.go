// ABOUTME: Tests for the session negotiator
// ABOUTME: Scripts a fake JackTrip TCP peer and drives the handshake against it
package negotiate

import (
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"
)

func TestNegotiateHappyPath(t *testing.T) {
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start fake TCP peer: %v", err)
	}
	defer listener.Close()

	const fakeServerUDPPort = 54321
	var gotClientUDPPort uint32

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var buf [4]byte
		if _, err := readFull(conn, buf[:]); err != nil {
			return
		}
		gotClientUDPPort = binary.LittleEndian.Uint32(buf[:])

		var out [4]byte
		binary.LittleEndian.PutUint32(out[:], fakeServerUDPPort)
		conn.Write(out[:])
	}()

	tcpPort := listener.Addr().(*net.TCPAddr).Port
	res, err := Negotiate("127.0.0.1", tcpPort)
	if err != nil {
		t.Fatalf("Negotiate() error = %v", err)
	}
	defer res.Conn.Close()

	if res.ServerUDPPort != fakeServerUDPPort {
		t.Errorf("ServerUDPPort = %d, want %d", res.ServerUDPPort, fakeServerUDPPort)
	}

	// Give the fake peer goroutine a moment to have parsed the client port.
	time.Sleep(50 * time.Millisecond)
	if uint16(gotClientUDPPort) != res.ClientUDPPort {
		t.Errorf("server observed client UDP port %d, want %d", gotClientUDPPort, res.ClientUDPPort)
	}

	remote := res.Conn.RemoteAddr().(*net.UDPAddr)
	if remote.Port != fakeServerUDPPort {
		t.Errorf("UDP conn remote port = %d, want %d", remote.Port, fakeServerUDPPort)
	}
}

func TestNegotiatePeerRefused(t *testing.T) {
	// Bind a listener just to learn a free port, then close it immediately
	// so nothing is listening there: the TCP connect should be refused.
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	tcpPort := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	_, err = Negotiate("127.0.0.1", tcpPort)
	if err == nil {
		t.Fatal("Negotiate() expected an error when peer refuses connection")
	}
	if !errors.Is(err, ErrNegotiationFailed) {
		t.Errorf("error = %v, want it to wrap ErrNegotiationFailed", err)
	}
}

func TestGenerateDynamicPortInRange(t *testing.T) {
	for seed := uint16(0); seed < 10; seed++ {
		p := generateDynamicPort(seed)
		if p < DynamicPortStart || p > DynamicPortEnd {
			t.Errorf("generateDynamicPort(%d) = %d, out of range [%d,%d]", seed, p, DynamicPortStart, DynamicPortEnd)
		}
	}
}
