// ABOUTME: Oto-based desktop DAC stand-in
// ABOUTME: Streams the ring buffer straight to the sound card for development and manual testing
package dacio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/gojacktrip/jtcore/pkg/ringbuffer"
)

// OtoAdapter plays a RingBuffer's contents on the host sound card via
// github.com/ebitengine/oto/v3. It bypasses the PWM/I2S target-word
// formatting entirely: a desktop sound card wants signed 16-bit PCM, and
// the ring buffer's native samples are already normalized to that range,
// so OtoAdapter is a much thinner adapter than Adapter.
type OtoAdapter struct {
	rb         *ringbuffer.RingBuffer
	channels   int
	sampleRate int
	frames     int

	ctx    context.Context
	cancel context.CancelFunc

	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter

	scratch []int32
}

// NewOtoAdapter builds an adapter that pulls frames-sized chunks from rb at
// the pace implied by sampleRate and plays them back live.
func NewOtoAdapter(rb *ringbuffer.RingBuffer, sampleRate, channels, frames int) *OtoAdapter {
	ctx, cancel := context.WithCancel(context.Background())
	return &OtoAdapter{
		rb:         rb,
		channels:   channels,
		sampleRate: sampleRate,
		frames:     frames,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Open initializes the oto context and starts the pull loop. It must be
// called once per process, matching oto's own one-context-per-process
// restriction.
func (o *OtoAdapter) Open() error {
	op := &oto.NewContextOptions{
		SampleRate:   o.sampleRate,
		ChannelCount: o.channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("dacio: create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	go o.pullLoop()

	log.Printf("dacio: oto output opened at %d Hz, %d channel(s)", o.sampleRate, o.channels)
	return nil
}

// pullLoop reads fixed-size chunks from the ring buffer at the packet
// cadence and feeds them to the player's pipe, converting the ring
// buffer's native samples to little-endian int16 frames as it goes.
func (o *OtoAdapter) pullLoop() {
	period := time.Duration(o.frames) * time.Second / time.Duration(o.sampleRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	n := o.frames * o.channels
	o.scratch = make([]int32, n)
	out := make([]byte, n*2)

	for {
		select {
		case <-o.ctx.Done():
			return
		case <-ticker.C:
			o.rb.Read(o.scratch, o.frames)
			for i, s := range o.scratch {
				binary.LittleEndian.PutUint16(out[i*2:], uint16(clampInt16(s)))
			}
			if _, err := o.pipeWriter.Write(out); err != nil {
				return
			}
		}
	}
}

// Close stops the pull loop and releases oto resources.
func (o *OtoAdapter) Close() error {
	o.cancel()
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
	}
	if o.player != nil {
		o.player.Close()
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
	return nil
}

func clampInt16(s int32) int16 {
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
