// ABOUTME: JackTrip wire format package
// ABOUTME: Defines the packet header layout and datagram sizing helpers
// Package jtwire implements the JackTrip UDP wire format: the fixed 16-byte
// packet header that precedes every audio datagram, and the layout helpers
// needed to slice a datagram into its per-channel sample blocks.
//
// Example:
//
//	h := jtwire.PacketHeader{
//	    BufferSizeFrames:  64,
//	    SampleRateCode:    jtwire.SR48000,
//	    BitResolution:     16,
//	    ChannelsInFromNet: 2,
//	    ChannelsOutToNet:  2,
//	}
//	var buf [jtwire.HeaderSize]byte
//	h.Encode(buf[:])
package jtwire
