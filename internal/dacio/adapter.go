package dacio

import (
	"github.com/gojacktrip/jtcore/pkg/ringbuffer"
	"github.com/gojacktrip/jtcore/pkg/sampleformat"
)

// Peripheral full-scale levels. These are illustrative of common embedded
// DAC/PWM widths (a 10-bit PWM timer, a 24-bit I2S codec) and are meant to
// be overridden per board via NewPWMAdapterWithLevel/NewI2SAdapterWithLevel.
const (
	DefaultPWMMaxLevel int32 = 1023
	DefaultI2SMaxLevel int32 = 1<<23 - 1
)

// Chunker is the downstream interface a DAC driver polls on demand (spec
// §4.6): it always returns exactly the number of frames requested, filling
// with silence if the ring buffer has nothing newer.
type Chunker interface {
	// GetChunk fills dst (frame-interleaved, channels-per-frame words) and
	// returns the number of frames written, which is always frames.
	GetChunk(dst []uint32, frames int) int
}

// Adapter formats ring-buffer samples into the unsigned target word a
// peripheral expects, per spec §4.5.
type Adapter struct {
	rb           *ringbuffer.RingBuffer
	channels     int
	maxLevel     int32
	signedTarget bool
	volume       float64
	scratch      []int32
}

// NewPWMAdapter builds an Adapter for an unsigned, offset-centered PWM
// peripheral at the default full-scale level.
func NewPWMAdapter(rb *ringbuffer.RingBuffer, channels int, volume float64) *Adapter {
	return NewPWMAdapterWithLevel(rb, channels, volume, DefaultPWMMaxLevel)
}

// NewPWMAdapterWithLevel builds a PWM Adapter with an explicit full-scale
// level, for boards whose PWM timer resolution differs from the default.
func NewPWMAdapterWithLevel(rb *ringbuffer.RingBuffer, channels int, volume float64, maxLevel int32) *Adapter {
	return &Adapter{rb: rb, channels: channels, maxLevel: maxLevel, signedTarget: false, volume: volume}
}

// NewI2SAdapter builds an Adapter for a signed, zero-centered I2S codec at
// the default full-scale level.
func NewI2SAdapter(rb *ringbuffer.RingBuffer, channels int, volume float64) *Adapter {
	return NewI2SAdapterWithLevel(rb, channels, volume, DefaultI2SMaxLevel)
}

// NewI2SAdapterWithLevel builds an I2S Adapter with an explicit full-scale
// level.
func NewI2SAdapterWithLevel(rb *ringbuffer.RingBuffer, channels int, volume float64, maxLevel int32) *Adapter {
	return &Adapter{rb: rb, channels: channels, maxLevel: maxLevel, signedTarget: true, volume: volume}
}

// SetVolume adjusts the gain applied in the §4.5 amplitude formula. Callers
// typically clamp to [0, 1] but the formula itself does not require it.
func (a *Adapter) SetVolume(volume float64) {
	a.volume = volume
}

// GetChunk implements Chunker: it reads frames*channels native samples from
// the ring buffer and formats each into the peripheral's target word.
func (a *Adapter) GetChunk(dst []uint32, frames int) int {
	n := frames * a.channels
	if cap(a.scratch) < n {
		a.scratch = make([]int32, n)
	}
	scratch := a.scratch[:n]

	a.rb.Read(scratch, frames)

	for i, s := range scratch {
		dst[i] = sampleformat.ToTarget(s, a.maxLevel, a.signedTarget, a.volume)
	}
	return frames
}
