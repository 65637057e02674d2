// ABOUTME: Minimal JackTrip-protocol peer emulator
// ABOUTME: Answers the TCP handshake and streams a ramp waveform over UDP for manual testing
package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gojacktrip/jtcore/internal/negotiate"
	"github.com/gojacktrip/jtcore/pkg/jtwire"
	"github.com/gojacktrip/jtcore/pkg/sampleformat"
)

var (
	tcpPort  = flag.Int("tcp-port", negotiate.JackTripTCPPort, "TCP handshake port")
	channels = flag.Int("channels", 2, "Channels to stream")
	frames   = flag.Int("frames", 64, "Frames per packet")
	rate     = flag.Int("rate", 48000, "Sample rate")
)

func main() {
	flag.Parse()

	listener, err := net.Listen("tcp4", net.JoinHostPort("", strconv.Itoa(*tcpPort)))
	if err != nil {
		log.Fatalf("mockserver: listen TCP: %v", err)
	}
	defer listener.Close()
	log.Printf("mockserver: listening for JackTrip handshakes on :%d", *tcpPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("mockserver: accept: %v", err)
			return
		}
		go serveSession(conn)
	}
}

func serveSession(tcpConn net.Conn) {
	defer tcpConn.Close()

	var clientPortBuf [4]byte
	if _, err := readFull(tcpConn, clientPortBuf[:]); err != nil {
		log.Printf("mockserver: read client UDP port: %v", err)
		return
	}
	clientPort := int(uint32(clientPortBuf[0]) | uint32(clientPortBuf[1])<<8 | uint32(clientPortBuf[2])<<16 | uint32(clientPortBuf[3])<<24)

	udpConn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		log.Printf("mockserver: listen UDP: %v", err)
		return
	}

	serverUDPPort := udpConn.LocalAddr().(*net.UDPAddr).Port
	var reply [4]byte
	reply[0] = byte(serverUDPPort)
	reply[1] = byte(serverUDPPort >> 8)
	reply[2] = byte(serverUDPPort >> 16)
	reply[3] = byte(serverUDPPort >> 24)
	if _, err := tcpConn.Write(reply[:]); err != nil {
		log.Printf("mockserver: send server UDP port: %v", err)
		udpConn.Close()
		return
	}

	log.Printf("mockserver: session negotiated, client UDP port %d, streaming from :%d", clientPort, serverUDPPort)
	streamSession(udpConn)
}

// streamSession waits for the client's first datagram (to learn its
// address), then streams a ramp waveform at the configured cadence until a
// send fails. It does not watch for the client going quiet.
func streamSession(conn *net.UDPConn) {
	defer conn.Close()

	bps := sampleformat.BytesPerSample(sampleformat.S16)
	payload := make([]byte, jtwire.PayloadSize(*channels, *frames, bps))

	buf := make([]byte, len(payload)+16)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	n, clientAddr, err := conn.ReadFromUDP(buf)
	if err != nil || n == 0 {
		log.Printf("mockserver: no client datagram received, ending session: %v", err)
		return
	}

	ticker := time.NewTicker(time.Duration(*frames) * time.Second / time.Duration(*rate))
	defer ticker.Stop()

	var seq uint16
	var sample int16

	go drainClient(conn)

	for range ticker.C {
		seq++
		h := jtwire.PacketHeader{
			SequenceNumber:    seq,
			BufferSizeFrames:  uint16(*frames),
			SampleRateCode:    jtwire.SampleRateCodeFor(*rate),
			BitResolution:     sampleformat.BitResolution(sampleformat.S16),
			ChannelsInFromNet: uint8(*channels),
			ChannelsOutToNet:  uint8(*channels),
		}
		h.Encode(payload)

		for c := 0; c < *channels; c++ {
			start, _ := jtwire.ChannelBlock(c, *frames, bps)
			for i := 0; i < *frames; i++ {
				sampleformat.Encode(int32(sample), sampleformat.S16, payload[start+i*bps:start+(i+1)*bps])
				sample++
			}
		}

		if _, err := conn.WriteToUDP(payload, clientAddr); err != nil {
			log.Printf("mockserver: send audio packet: %v", err)
			return
		}
	}
}

// drainClient reads and discards the client's outbound packets so its
// send socket buffer never backs up.
func drainClient(conn *net.UDPConn) {
	buf := make([]byte, 65536)
	for {
		if _, _, err := conn.ReadFromUDP(buf); err != nil {
			return
		}
	}
}

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

