// ABOUTME: Sample format adaptation package
// ABOUTME: Converts native signed samples into the DAC peripheral's target word
// Package sampleformat adapts the ring buffer's native signed samples into
// the unsigned target word a DAC peripheral expects, and adapts the source
// wire formats (u8, s16, s24-in-s32, u32) down to the ring buffer's native
// int32 storage.
//
// Example:
//
//	t := sampleformat.ToTarget(sample, maxLevel, false, 0.5)
package sampleformat
