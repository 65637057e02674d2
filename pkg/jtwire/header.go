// ABOUTME: Packet header encode/decode
// ABOUTME: Fixed 16-byte little-endian layout, bit-for-bit compatible with JackTrip
package jtwire

import "encoding/binary"

// HeaderSize is the fixed on-wire size of PacketHeader, in bytes.
const HeaderSize = 16

// ExitPacketSize is the length of the session-termination sentinel datagram.
const ExitPacketSize = 63

// SampleRateCode enumerates the sampling rates a JackTrip header can carry.
type SampleRateCode uint8

const (
	SR22050 SampleRateCode = iota
	SR32000
	SR44100
	SR48000
	SR88200
	SR96000
	SR192000
	SRUndef
)

// SampleRateCodeFor maps an integer sample rate to its wire code. It returns
// SRUndef for anything not in the enumerated set; callers that emit packets
// must never send SRUndef post-handshake (spec edge case).
func SampleRateCodeFor(rate int) SampleRateCode {
	switch rate {
	case 22050:
		return SR22050
	case 32000:
		return SR32000
	case 44100:
		return SR44100
	case 48000:
		return SR48000
	case 88200:
		return SR88200
	case 96000:
		return SR96000
	case 192000:
		return SR192000
	default:
		return SRUndef
	}
}

// PacketHeader is the 16-byte header attached to every JackTrip UDP payload.
// Field order and widths must not change; they are the wire layout.
type PacketHeader struct {
	Timestamp         uint64
	SequenceNumber    uint16
	BufferSizeFrames  uint16
	SampleRateCode    SampleRateCode
	BitResolution     uint8
	ChannelsInFromNet uint8
	ChannelsOutToNet  uint8
}

// Encode writes h into out in the fixed little-endian layout. out must be at
// least HeaderSize bytes; Encode never fails.
func (h PacketHeader) Encode(out []byte) {
	_ = out[:HeaderSize]
	binary.LittleEndian.PutUint64(out[0:8], h.Timestamp)
	binary.LittleEndian.PutUint16(out[8:10], h.SequenceNumber)
	binary.LittleEndian.PutUint16(out[10:12], h.BufferSizeFrames)
	out[12] = byte(h.SampleRateCode)
	out[13] = h.BitResolution
	out[14] = h.ChannelsInFromNet
	out[15] = h.ChannelsOutToNet
}

// DecodeHeader reads a PacketHeader out of the first HeaderSize bytes of in.
// It never fails; any 16-byte slice decodes to some header value, per spec.
func DecodeHeader(in []byte) PacketHeader {
	_ = in[:HeaderSize]
	return PacketHeader{
		Timestamp:         binary.LittleEndian.Uint64(in[0:8]),
		SequenceNumber:    binary.LittleEndian.Uint16(in[8:10]),
		BufferSizeFrames:  binary.LittleEndian.Uint16(in[10:12]),
		SampleRateCode:    SampleRateCode(in[12]),
		BitResolution:     in[13],
		ChannelsInFromNet: in[14],
		ChannelsOutToNet:  in[15],
	}
}

// IsExitSentinel reports whether buf is the 63-byte all-0xFF termination
// datagram. It must be checked before any size validation against the
// expected payload size.
func IsExitSentinel(buf []byte) bool {
	if len(buf) != ExitPacketSize {
		return false
	}
	for _, b := range buf {
		if b != 0xFF {
			return false
		}
	}
	return true
}

// PayloadSize returns the total UDP datagram size for channels channels of
// frames frames at bytesPerSample bytes each: header plus every channel's
// contiguous sample block.
func PayloadSize(channels, frames, bytesPerSample int) int {
	return HeaderSize + ChannelBlockSize(frames, bytesPerSample)*channels
}

// ChannelBlockSize returns the size in bytes of one channel's contiguous
// sample block within a datagram.
func ChannelBlockSize(frames, bytesPerSample int) int {
	return frames * bytesPerSample
}

// ChannelBlock returns the byte range within a datagram (after the header)
// occupied by channel ch's samples, given frames frames of bytesPerSample
// bytes each.
func ChannelBlock(ch, frames, bytesPerSample int) (start, end int) {
	block := ChannelBlockSize(frames, bytesPerSample)
	start = HeaderSize + ch*block
	end = start + block
	return
}
