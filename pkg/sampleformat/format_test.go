// ABOUTME: Tests for sample format conversions
package sampleformat

import "testing"

func TestToTargetSignedCentersAtZero(t *testing.T) {
	got := ToTarget(0, 1<<15, true, 0.5)
	if got != 0 {
		t.Errorf("silence should center at 0 for signed target, got %d", got)
	}
}

func TestToTargetUnsignedCentersAtHalfScale(t *testing.T) {
	const maxLevel = int32(255)
	got := ToTarget(0, maxLevel, false, 0.5)
	want := uint32(maxLevel / 2)
	if got != want {
		t.Errorf("silence should center at maxLevel/2 = %d for unsigned target, got %d", want, got)
	}
}

func TestToTargetFullScalePositive(t *testing.T) {
	tests := []struct {
		name         string
		signedTarget bool
	}{
		{"signed", true},
		{"unsigned", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const maxLevel = int32(1000)
			got := ToTarget(32767, maxLevel, tt.signedTarget, 1.0)
			// fs ~= 1.0, amp = maxLevel/(divisor), offset per target kind.
			divisor := 2.0
			if tt.signedTarget {
				divisor = 1.0
			}
			amp := float64(maxLevel) / divisor
			var offset float64
			if !tt.signedTarget {
				offset = float64(maxLevel) / 2
			}
			fs := 32767.0 / 32768.0
			want := int64(fs*amp + offset + 0.5) // round
			if int64(got) != want {
				t.Errorf("got %d, want approximately %d", got, want)
			}
		})
	}
}

func TestDecodeEncodeRoundTripS16(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345, -12345}
	for _, s := range samples {
		buf := make([]byte, 2)
		Encode(int32(s), S16, buf)
		got := Decode(buf, S16)
		if got != int32(s) {
			t.Errorf("S16 round trip: got %d, want %d", got, s)
		}
	}
}

func TestDecodeU8Centering(t *testing.T) {
	// 128 (mid-scale unsigned) must decode to silence (0).
	got := Decode([]byte{128}, U8)
	if got != 0 {
		t.Errorf("U8 mid-scale should decode to 0, got %d", got)
	}
}

func TestBytesPerSample(t *testing.T) {
	tests := []struct {
		f    SourceFormat
		want int
	}{
		{U8, 1},
		{S16, 2},
		{S24, 4},
		{U32, 4},
	}
	for _, tt := range tests {
		if got := BytesPerSample(tt.f); got != tt.want {
			t.Errorf("BytesPerSample(%v) = %d, want %d", tt.f, got, tt.want)
		}
	}
}

func TestBitResolution(t *testing.T) {
	tests := []struct {
		f    SourceFormat
		want uint8
	}{
		{U8, 8},
		{S16, 16},
		{S24, 24},
		{U32, 32},
	}
	for _, tt := range tests {
		if got := BitResolution(tt.f); got != tt.want {
			t.Errorf("BitResolution(%v) = %d, want %d", tt.f, got, tt.want)
		}
	}
}
