// ABOUTME: TCP handshake and dynamic port selection
// ABOUTME: Mirrors JackTripClient::Connect step by step
package negotiate

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"net"
	"time"
)

// JackTripTCPPort is the well-known TCP port a JackTrip server listens on
// for the port-exchange handshake.
const JackTripTCPPort = 4464

// Dynamic port range per IANA guidance for ephemeral/private ports, used to
// pick both the client's TCP and UDP source ports (spec §4.2).
const (
	DynamicPortStart = 49152
	DynamicPortEnd   = 65535
	DynamicPortRange = DynamicPortEnd - DynamicPortStart
)

// portNumberBytes is the fixed size of the port-exchange messages exchanged
// over TCP: one uint16 port number, little-endian, in a 4-byte field (the
// original JackTrip wire format widens the port to 4 bytes on the wire).
const portNumberBytes = 4

// ErrNegotiationFailed is returned for any failure during the handshake:
// bind failure, TCP connect failure, or a short read/write. The caller
// (the Receive Loop's connection attempt) treats all of these identically:
// log, tear down, sleep, retry.
var ErrNegotiationFailed = errors.New("negotiate: session negotiation failed")

// Result is the outcome of a successful negotiation: a UDP socket already
// bound to the chosen client port and connected to the server's advertised
// UDP port.
type Result struct {
	Conn          *net.UDPConn
	ClientUDPPort uint16
	ServerUDPPort uint16
}

// Negotiate performs the one-shot TCP rendezvous against serverIP:tcpPort
// and returns a ready-to-use UDP endpoint. On any failure it tears down
// whatever sockets it opened and returns an error wrapping
// ErrNegotiationFailed; the caller should sleep at least 2 seconds before
// retrying (spec §4.2).
func Negotiate(serverIP string, tcpPort int) (*Result, error) {
	clientTCPPort := generateDynamicPort(0)
	clientUDPPort := generateDynamicPort(clientTCPPort)
	for clientUDPPort == clientTCPPort {
		clientUDPPort = generateDynamicPort(clientUDPPort + 1)
	}

	log.Printf("negotiate: looking for a JackTrip server at %s:%d", serverIP, tcpPort)

	localTCPAddr := &net.TCPAddr{Port: int(clientTCPPort)}
	tcpConn, err := net.DialTCP("tcp4", localTCPAddr, &net.TCPAddr{
		IP:   net.ParseIP(serverIP),
		Port: tcpPort,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: bind/connect TCP port %d: %v", ErrNegotiationFailed, clientTCPPort, err)
	}
	defer tcpConn.Close()

	log.Printf("negotiate: TCP connection established on local port %d", clientTCPPort)

	var sendBuf [portNumberBytes]byte
	binary.LittleEndian.PutUint32(sendBuf[:], uint32(clientUDPPort))
	if n, err := tcpConn.Write(sendBuf[:]); err != nil || n != portNumberBytes {
		return nil, fmt.Errorf("%w: send UDP port to server: %v", ErrNegotiationFailed, err)
	}
	log.Printf("negotiate: sent UDP port %d to server", clientUDPPort)

	var recvBuf [portNumberBytes]byte
	if _, err := readFull(tcpConn, recvBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: receive UDP port from server: %v", ErrNegotiationFailed, err)
	}
	serverUDPPort := uint16(binary.LittleEndian.Uint32(recvBuf[:]))
	log.Printf("negotiate: received UDP port %d from server", serverUDPPort)

	// Close the TCP socket before opening the UDP one to keep peak socket
	// count low (spec §9's two-owner TCP socket lifecycle note).
	tcpConn.Close()

	udpConn, err := net.DialUDP("udp4", &net.UDPAddr{Port: int(clientUDPPort)}, &net.UDPAddr{
		IP:   net.ParseIP(serverIP),
		Port: int(serverUDPPort),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: bind/connect UDP port %d: %v", ErrNegotiationFailed, clientUDPPort, err)
	}

	log.Printf("negotiate: ready to send datagrams to %s:%d", serverIP, serverUDPPort)

	return &Result{
		Conn:          udpConn,
		ClientUDPPort: clientUDPPort,
		ServerUDPPort: serverUDPPort,
	}, nil
}

// readFull reads exactly len(buf) bytes, treating a short read as failure
// (spec's TcpShortRead).
func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// generateDynamicPort mirrors the original's clock-seeded generator: a
// monotonic-ish time reading, offset by seed, modulo the dynamic port
// range. It does not need to be cryptographically random, only cheap and
// well-distributed enough to avoid colliding with a port already in use.
func generateDynamicPort(seed uint16) uint16 {
	ticks := uint64(time.Now().UnixNano())
	return DynamicPortStart + uint16((ticks+uint64(seed))%uint64(DynamicPortRange))
}
