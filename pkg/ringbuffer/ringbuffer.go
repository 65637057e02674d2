// ABOUTME: RingBuffer type and Write/Read/Clear operations
// ABOUTME: Recenter-on-collision policy for over/underrun; never blocks, never drops silently
package ringbuffer

import (
	"log"
	"sync"
)

// RingBuffer is a bounded, channel-demultiplexed sample FIFO. Samples are
// stored at their native signed width (int32, generalized from the
// original's build-time TYPE alias). Reader and writer conversion to the
// DAC's target word format is the caller's job (see pkg/sampleformat); this
// package only ever moves native samples.
type RingBuffer struct {
	mu sync.Mutex

	channels int
	length   int
	buffer   [][]int32 // buffer[channel][index]

	writeIdx int
	readIdx  int

	recenterEvents  uint64
	logThrottle     int
	recenterLogEach int
}

// MinLengthFor returns the minimum RingBuffer length that leaves a
// half-buffer of slack for a given per-packet frame count, per the
// LENGTH >= 16*bufferSizeFrames rule of thumb.
func MinLengthFor(bufferSizeFrames int) int {
	return 16 * bufferSizeFrames
}

// New creates a RingBuffer for the given channel count and length (in
// frames per channel) and clears it to its initial state.
func New(channels, length int) *RingBuffer {
	rb := &RingBuffer{
		channels:        channels,
		length:          length,
		buffer:          make([][]int32, channels),
		recenterLogEach: 10000,
	}
	for c := range rb.buffer {
		rb.buffer[c] = make([]int32, length)
	}
	rb.Clear()
	return rb
}

// Write stores frames frames of samples for every channel. channelBlocks[c]
// must have at least frames elements; channelBlocks[c][n] is frame n of
// channel c. A write-side collision (the advancing write index would land on
// the read index) recenters the write index half a buffer away from the read
// index; the frames written after that replace the newer half of the samples
// the reader has not consumed yet.
func (rb *RingBuffer) Write(channelBlocks [][]int32, frames int) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for n := 0; n < frames; n++ {
		for c := 0; c < rb.channels; c++ {
			rb.buffer[c][rb.writeIdx] = channelBlocks[c][n]
		}

		rb.writeIdx = (rb.writeIdx + 1) % rb.length
		if rb.writeIdx == rb.readIdx {
			rb.recenter(&rb.writeIdx, "write")
		}
	}
}

// Read fills dest with frames frames of frame-interleaved native samples
// (channel-major within each frame: dest[frame*channels+ch]). A read-side
// collision (the advancing read index would land on the write index)
// recenters the read index, producing exactly one discontinuity rather than
// starving the DAC.
func (rb *RingBuffer) Read(dest []int32, frames int) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for n := 0; n < frames; n++ {
		base := n * rb.channels
		for c := 0; c < rb.channels; c++ {
			dest[base+c] = rb.buffer[c][rb.readIdx]
		}

		rb.readIdx = (rb.readIdx + 1) % rb.length
		if rb.readIdx == rb.writeIdx {
			rb.recenter(&rb.readIdx, "read")
		}
	}
}

// Clear zeroes all storage and resets the indices to their initial
// half-buffer-apart positions, so the first LENGTH/2 frames read back are
// silence.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for c := range rb.buffer {
		for i := range rb.buffer[c] {
			rb.buffer[c][i] = 0
		}
	}
	rb.writeIdx = 0
	rb.readIdx = rb.length / 2
}

// RecenterEvents returns the total number of recenter events since the
// buffer was created (or last had its counter reset via Clear... note Clear
// does not reset this counter; it is a lifetime diagnostic).
func (rb *RingBuffer) RecenterEvents() uint64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.recenterEvents
}

// FillFraction reports the fraction of the buffer currently holding
// unread samples, for diagnostics/TUI display only. It is a snapshot and
// not meaningful as an exact occupancy count once collisions have occurred.
func (rb *RingBuffer) FillFraction() float64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	gap := rb.writeIdx - rb.readIdx
	if gap < 0 {
		gap += rb.length
	}
	return float64(gap) / float64(rb.length)
}

// recenter rewinds *idx by half the buffer length, with wraparound. Caller
// must hold rb.mu. This is an internal event, never surfaced as an error;
// it is logged, throttled, to avoid flooding the log under sustained
// clock drift.
func (rb *RingBuffer) recenter(idx *int, which string) {
	*idx = (*idx + rb.length/2) % rb.length
	rb.recenterEvents++

	if rb.logThrottle == 0 {
		log.Printf("ringbuffer: %s collision, recentering (event #%d)", which, rb.recenterEvents)
		rb.logThrottle = rb.recenterLogEach
	} else {
		rb.logThrottle--
	}
}
