// ABOUTME: DAC-facing chunk adapters
// ABOUTME: Pulls fixed-size frame chunks from a RingBuffer and formats them for a peripheral
// Package dacio implements the downstream half of spec §4.6: a Chunker that a
// DAC driver calls on demand, formatting frame-interleaved unsigned target
// words from the ring buffer's native signed samples via
// pkg/sampleformat.ToTarget.
//
// Two peripheral-shaped adapters are provided out of the box, PWM (unsigned,
// offset-centered) and I2S (signed, zero-centered); a third, Oto, drives a
// real desktop sound card for development and manual testing instead of
// bare-metal PWM/I2S registers.
//
// Example:
//
//	a := dacio.NewI2SAdapter(rb, channels, 1.0)
//	buf := make([]uint32, channels*framesPerChunk)
//	n := a.GetChunk(buf, framesPerChunk)
package dacio
