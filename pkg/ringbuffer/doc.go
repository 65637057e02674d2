// ABOUTME: Channel ring buffer package
// ABOUTME: Bounded, mutex-protected sample FIFO reconciling network and DAC clocks
// Package ringbuffer implements the bounded, channel-demultiplexed sample
// FIFO that sits between the network receive path and the DAC's chunk-pull
// path. Writer and reader indices advance independently under a single
// mutex; a collision (writer catching the reader, or vice versa) is resolved
// by recentering the offending index half a buffer away rather than
// blocking or dropping.
//
// Example:
//
//	rb := ringbuffer.New(2, 64*16)
//	rb.Write([][]int32{leftSamples, rightSamples}, 64)
//	dest := make([]int32, 64*2)
//	rb.Read(dest, 64)
package ringbuffer
