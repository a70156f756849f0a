// Package pcm holds mono float32 audio clips passed between capture,
// cleanup and transcription.
package pcm

import (
	"math"
	"time"
)

// SampleRate is the rate every clip is captured or resampled to; whisper
// models expect 16 kHz mono.
const SampleRate = 16000

// Clip is mono PCM in [-1, 1].
type Clip struct {
	Samples []float32
	Rate    int
}

// Silence returns a zeroed clip of duration d.
func Silence(d time.Duration) Clip {
	n := int(d.Seconds() * SampleRate)
	if n < 0 {
		n = 0
	}
	return Clip{Samples: make([]float32, n), Rate: SampleRate}
}

func (c Clip) Empty() bool { return len(c.Samples) == 0 }

func (c Clip) Duration() time.Duration {
	if c.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.Rate) * float64(time.Second))
}

// RMS is the root-mean-square level of the whole clip.
func (c Clip) RMS() float64 {
	return FrameRMS(c.Samples)
}

// Int16 converts the clip to clamped 16-bit samples.
func (c Clip) Int16() []int16 {
	out := make([]int16, len(c.Samples))
	for i, s := range c.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = int16(s * 32767)
	}
	return out
}

func FrameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
