// ABOUTME: Network-to-DAC bridge package
// ABOUTME: Orchestrates the Receive Loop / Send Task pair around a ring buffer
// Package bridge is the heart of the endpoint: it owns the connection state
// machine, drives the Receive Loop and Send Task described in spec §4.4, and
// feeds a pkg/ringbuffer.RingBuffer that a DAC-facing adapter (see
// internal/dacio) pulls fixed-size chunks from.
//
// Example:
//
//	c := bridge.New(bridge.Config{
//	    ServerIP:        "192.168.10.10",
//	    TCPPort:         negotiate.JackTripTCPPort,
//	    Channels:        2,
//	    FramesPerPacket: 64,
//	    SampleRate:      48000,
//	    SourceFormat:    sampleformat.S16,
//	})
//	go c.Run(ctx)
//	// elsewhere, on the DAC's chunk-request callback:
//	c.RingBuffer().Read(dst, framesWanted)
package bridge
