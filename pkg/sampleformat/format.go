// ABOUTME: Source-format tagged variant and the RB-read-path target conversion
// ABOUTME: Narrowing on write (wire -> normalized s16-equivalent), widening on read (-> target word)
package sampleformat

import "math"

// SourceFormat is the bounded tagged variant over the wire sample widths
// the original's build-time TYPE alias could be configured to (spec §9's
// Design Note: reimplement as a tagged variant rather than a type alias).
type SourceFormat uint8

const (
	U8 SourceFormat = iota
	S16
	S24 // 24 significant bits, packed in a 4-byte little-endian word (s24-in-s32)
	U32
)

// BytesPerSample returns the on-wire width of one sample in the given
// format.
func BytesPerSample(f SourceFormat) int {
	switch f {
	case U8:
		return 1
	case S16:
		return 2
	case S24:
		return 4
	case U32:
		return 4
	default:
		return 2
	}
}

// BitResolution returns the header's bit_resolution field value for a
// format: 8 * significant bytes, so S24 reports 24 even though its samples
// travel in 4-byte words.
func BitResolution(f SourceFormat) uint8 {
	switch f {
	case U8:
		return 8
	case S16:
		return 16
	case S24:
		return 24
	case U32:
		return 32
	default:
		return 16
	}
}

// Decode reads one sample of the given format from raw (little-endian) and
// normalizes it to the ring buffer's native signed-16-range representation,
// so downstream code (ToTarget, and the ring buffer itself) never needs to
// know the original wire width.
func Decode(raw []byte, f SourceFormat) int32 {
	switch f {
	case U8:
		// Unsigned 8-bit, centered at 128; widen to signed 16-bit range.
		return (int32(raw[0]) - 128) << 8
	case S16:
		v := int16(uint16(raw[0]) | uint16(raw[1])<<8)
		return int32(v)
	case S24:
		// 24 significant bits in a little-endian 4-byte word; keep only the
		// magnitude relevant to a 16-bit-equivalent representation by
		// dropping the low 8 bits (mirrors the original's TYPE_SIZE=3 pack,
		// generalized to a 4-byte transport word).
		v := int32(raw[0]) | int32(raw[1])<<8 | int32(raw[2])<<16 | int32(raw[3])<<24
		return v >> 8
	case U32:
		u := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
		return int32(u>>16) - (1 << 15)
	default:
		v := int16(uint16(raw[0]) | uint16(raw[1])<<8)
		return int32(v)
	}
}

// Encode writes a normalized signed-16-range sample back out in the given
// wire format, narrowing as needed. Used by the send-side path when the
// core needs to originate audio in a non-default format (not exercised by
// the default silent-body Send Task, but required for a complete codec).
func Encode(sample int32, f SourceFormat, out []byte) {
	switch f {
	case U8:
		v := byte((sample >> 8) + 128)
		out[0] = v
	case S16:
		u := uint16(int16(sample))
		out[0] = byte(u)
		out[1] = byte(u >> 8)
	case S24:
		v := sample << 8
		out[0] = byte(v)
		out[1] = byte(v >> 8)
		out[2] = byte(v >> 16)
		out[3] = byte(v >> 24)
	case U32:
		u := uint32(sample+(1<<15)) << 16
		out[0] = byte(u)
		out[1] = byte(u >> 8)
		out[2] = byte(u >> 16)
		out[3] = byte(u >> 24)
	default:
		u := uint16(int16(sample))
		out[0] = byte(u)
		out[1] = byte(u >> 8)
	}
}

// ToTarget converts a normalized signed-16-range sample s into the unsigned
// target word required by the output peripheral, per spec §4.5.
//
//	amp    = volume * maxLevel / (signedTarget ? 1 : 2)
//	offset = signedTarget ? 0 : maxLevel/2
//	fs     = s / 32768.0
//	t      = round(fs*amp + offset)
func ToTarget(s int32, maxLevel int32, signedTarget bool, volume float64) uint32 {
	divisor := 2.0
	if signedTarget {
		divisor = 1.0
	}
	amp := volume * float64(maxLevel) / divisor

	var offset float64
	if !signedTarget {
		offset = float64(maxLevel / 2)
	}

	fs := float64(s) / 32768.0
	t := math.Round(fs*amp + offset)

	return uint32(int64(t))
}
