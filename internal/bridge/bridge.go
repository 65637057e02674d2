// ABOUTME: Client orchestrator: connection state machine, Receive Loop, Send Task
// ABOUTME: Mirrors CJackTripClient::Run/Receive/Disconnect and CSendTask::Run
package bridge

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gojacktrip/jtcore/internal/negotiate"
	"github.com/gojacktrip/jtcore/pkg/jtwire"
	"github.com/gojacktrip/jtcore/pkg/ringbuffer"
	"github.com/gojacktrip/jtcore/pkg/sampleformat"
)

// Tuning constants that are not exposed as spec §6 configuration constants
// because they govern this Go implementation's cooperative-yield substitute
// (a short-deadline blocking read) rather than the wire protocol itself.
const (
	pollInterval    = 20 * time.Millisecond
	retryCooldown   = 2 * time.Second
	sendPrimingWait = 100 * time.Millisecond
	sendSecondWait  = 25 * time.Millisecond
)

// Config carries the spec §6 configuration constants a Client needs. It is
// supplied by the external collaborator responsible for boot-option/config
// parsing (internal/config), never derived by the bridge itself.
type Config struct {
	ServerIP        string
	TCPPort         int
	Channels        int
	FramesPerPacket int
	SampleRate      int
	SourceFormat    sampleformat.SourceFormat
	ReceiveTimeout  time.Duration
}

// Stats is a point-in-time snapshot suitable for the TUI and diagnostics
// websocket feed.
type Stats struct {
	Connected          bool
	SessionID          string
	SequenceNumber     uint16
	PacketsReceived    uint64
	PacketsSent        uint64
	RingBufferFillFrac float64
	RecenterEvents     uint64
}

// Client is the network-to-DAC bridge: connection state machine, ring
// buffer, and the two cooperating tasks that keep audio flowing.
type Client struct {
	cfg           Config
	rb            *ringbuffer.RingBuffer
	udpPacketSize int
	recvBuf       []byte

	connMu sync.Mutex
	conn   *net.UDPConn

	connected      atomic.Bool
	tick           chan struct{}
	sendWG         sync.WaitGroup
	sequenceNumber atomic.Uint32
	packetsRecv    atomic.Uint64
	packetsSent    atomic.Uint64

	sessionMu   sync.RWMutex
	sessionID   string
	lastReceive time.Time
}

// New creates a Client for the given configuration. The ring buffer is sized
// per spec §3's rule of thumb (at least 16 packets of slack).
func New(cfg Config) *Client {
	bps := sampleformat.BytesPerSample(cfg.SourceFormat)
	udpPacketSize := jtwire.PayloadSize(cfg.Channels, cfg.FramesPerPacket, bps)

	// One byte more than the largest datagram the receive loop accepts, so
	// an exit sentinel longer than a packet is read whole and an oversized
	// datagram is seen as malformed instead of being truncated to fit.
	recvSize := udpPacketSize
	if recvSize < jtwire.ExitPacketSize {
		recvSize = jtwire.ExitPacketSize
	}

	return &Client{
		cfg:           cfg,
		rb:            ringbuffer.New(cfg.Channels, ringbuffer.MinLengthFor(cfg.FramesPerPacket)),
		udpPacketSize: udpPacketSize,
		recvBuf:       make([]byte, recvSize+1),
		tick:          make(chan struct{}, 1),
	}
}

// RingBuffer returns the ring buffer a DAC-facing adapter should read chunks
// from. It is always non-nil, even while disconnected (reads return
// silence).
func (c *Client) RingBuffer() *ringbuffer.RingBuffer {
	return c.rb
}

// Stats returns a snapshot of the client's current state.
func (c *Client) Stats() Stats {
	c.sessionMu.RLock()
	sessionID := c.sessionID
	c.sessionMu.RUnlock()

	return Stats{
		Connected:          c.connected.Load(),
		SessionID:          sessionID,
		SequenceNumber:     uint16(c.sequenceNumber.Load()),
		PacketsReceived:    c.packetsRecv.Load(),
		PacketsSent:        c.packetsSent.Load(),
		RingBufferFillFrac: c.rb.FillFraction(),
		RecenterEvents:     c.rb.RecenterEvents(),
	}
}

// Run drives the Receive Loop until ctx is done, attempting reconnection
// whenever disconnected. It never returns an error: every failure mode
// short of ctx cancellation is recovered by sleeping and retrying, per
// spec §7's "nothing above the session layer is ever fatal".
func (c *Client) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.disconnect()
			return
		default:
		}

		if !c.connected.Load() {
			if err := c.attemptConnect(); err != nil {
				log.Printf("bridge: %v", err)
				sleepCtx(ctx, retryCooldown)
			}
			continue
		}

		c.receivePass()
	}
}

// attemptConnect runs the Session Negotiator and, on success, spawns the
// Send Task (spec §4.4.1 step 1).
func (c *Client) attemptConnect() error {
	res, err := negotiate.Negotiate(c.cfg.ServerIP, c.cfg.TCPPort)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()

	c.connMu.Lock()
	c.conn = res.Conn
	c.connMu.Unlock()

	c.sessionMu.Lock()
	c.sessionID = sessionID
	c.lastReceive = time.Now()
	c.sessionMu.Unlock()

	c.rb.Clear()
	c.packetsRecv.Store(0)
	c.packetsSent.Store(0)
	c.sequenceNumber.Store(0)
	// Drain any stale tick from a previous session before the new send task
	// starts waiting on it.
	select {
	case <-c.tick:
	default:
	}

	c.connected.Store(true)

	c.sendWG.Add(1)
	go c.sendTask(res.Conn)

	log.Printf("bridge[%s]: connected, streaming %d ch / %d frames / %d Hz",
		sessionID, c.cfg.Channels, c.cfg.FramesPerPacket, c.cfg.SampleRate)
	return nil
}

// receivePass is one pass of the Receive Loop (spec §4.4.1 step 2). The
// short read deadline stands in for the original's MSG_DONTWAIT-plus-
// cooperative-yield: it never blocks the caller for long, but also never
// busy-spins.
func (c *Client) receivePass() {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return
	}

	conn.SetReadDeadline(time.Now().Add(pollInterval))
	n, err := conn.Read(c.recvBuf)

	sessionID := c.currentSessionID()

	switch {
	case err != nil:
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			c.sessionMu.RLock()
			idle := time.Since(c.lastReceive)
			c.sessionMu.RUnlock()
			if idle > c.cfg.ReceiveTimeout {
				log.Printf("bridge[%s]: nothing received for %s, disconnecting", sessionID, c.cfg.ReceiveTimeout)
				c.disconnect()
				time.Sleep(retryCooldown)
			}
			return
		}
		log.Printf("bridge[%s]: receive error: %v", sessionID, err)
		return

	case n > 0 && jtwire.IsExitSentinel(c.recvBuf[:n]):
		log.Printf("bridge[%s]: exit packet received", sessionID)
		c.disconnect()
		time.Sleep(retryCooldown)
		return

	case n == c.udpPacketSize:
		c.ingestPacket(c.recvBuf[:n])

	default:
		log.Printf("bridge[%s]: malformed packet: expected %d bytes, got %d", sessionID, c.udpPacketSize, n)
	}
}

// ingestPacket slices a well-formed datagram into per-channel blocks, writes
// them into the ring buffer, and signals the Send Task (spec §4.4.1 step
// 2's "write into RB, increment received counter, signal tick").
func (c *Client) ingestPacket(buf []byte) {
	frames := c.cfg.FramesPerPacket
	bps := sampleformat.BytesPerSample(c.cfg.SourceFormat)

	channelBlocks := make([][]int32, c.cfg.Channels)
	for ch := 0; ch < c.cfg.Channels; ch++ {
		start, end := jtwire.ChannelBlock(ch, frames, bps)
		raw := buf[start:end]

		block := make([]int32, frames)
		for n := 0; n < frames; n++ {
			block[n] = sampleformat.Decode(raw[n*bps:(n+1)*bps], c.cfg.SourceFormat)
		}
		channelBlocks[ch] = block
	}

	c.rb.Write(channelBlocks, frames)
	c.packetsRecv.Add(1)

	c.sessionMu.Lock()
	c.lastReceive = time.Now()
	c.sessionMu.Unlock()

	c.signalTick()
}

// disconnect performs the canonical shutdown handshake from spec §5:
// connected := false; tick.set(); send_task.join(); socket.close(); rb.clear().
func (c *Client) disconnect() {
	if !c.connected.CompareAndSwap(true, false) {
		return
	}

	c.signalTick()

	sessionID := c.currentSessionID()
	log.Printf("bridge[%s]: waiting for send task to terminate", sessionID)
	c.sendWG.Wait()
	log.Printf("bridge[%s]: send task terminated", sessionID)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	c.rb.Clear()
	log.Printf("bridge[%s]: disconnected", sessionID)
}

// signalTick sets the single-slot tick event. It never blocks: if a tick is
// already pending, the send task hasn't consumed it yet and a second signal
// is redundant (level-triggered, overwrite-on-signal semantics per spec §9).
func (c *Client) signalTick() {
	select {
	case c.tick <- struct{}{}:
	default:
	}
}

func (c *Client) currentSessionID() string {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.sessionID
}

// sendTask is the Send Task (spec §4.4.2): priming sequence, then a
// steady-state loop of increment-sequence, encode, send, wait-for-tick. It
// is not destroyed (in Go terms: sendTask does not return) until connected
// becomes false, and disconnect() waits on sendWG before closing the socket.
func (c *Client) sendTask(conn *net.UDPConn) {
	defer c.sendWG.Done()

	sessionID := c.currentSessionID()

	header := jtwire.PacketHeader{
		BufferSizeFrames:  uint16(c.cfg.FramesPerPacket),
		SampleRateCode:    jtwire.SampleRateCodeFor(c.cfg.SampleRate),
		BitResolution:     sampleformat.BitResolution(c.cfg.SourceFormat),
		ChannelsInFromNet: uint8(c.cfg.Channels),
		ChannelsOutToNet:  uint8(c.cfg.Channels),
	}
	packet := make([]byte, c.udpPacketSize)
	header.Encode(packet)

	// The JackTrip server polls for a datagram every 100ms and gives up
	// after a global timeout; sending a single packet first, then waiting a
	// little while, establishes the session where front-loaded bursts
	// provoke ICMP port-unreachable floods instead.
	time.Sleep(sendPrimingWait)
	if _, err := conn.Write(packet); err != nil {
		log.Printf("bridge[%s]: priming packet send failed: %v", sessionID, err)
	}
	time.Sleep(sendSecondWait)

	log.Printf("bridge[%s]: send task streaming", sessionID)

	for c.connected.Load() {
		header.SequenceNumber++
		c.sequenceNumber.Store(uint32(header.SequenceNumber))
		header.Encode(packet)

		n, err := conn.Write(packet)
		if err != nil || n != len(packet) {
			log.Printf("bridge[%s]: short/failed UDP send (seq %d): %v", sessionID, header.SequenceNumber, err)
		} else {
			c.packetsSent.Add(1)
		}

		<-c.tick
	}

	log.Printf("bridge[%s]: send task observed disconnect, exiting", sessionID)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// SendExitSentinel sends the 63-byte all-0xFF termination datagram to the
// peer, used by callers that want to tell the server this endpoint is
// leaving rather than simply going quiet (spec's exit sentinel is
// bidirectional; either side may send it).
func (c *Client) SendExitSentinel() error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("bridge: cannot send exit sentinel: not connected")
	}

	sentinel := make([]byte, jtwire.ExitPacketSize)
	for i := range sentinel {
		sentinel[i] = 0xFF
	}
	_, err := conn.Write(sentinel)
	return err
}
