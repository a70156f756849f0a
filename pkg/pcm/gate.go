package pcm

import (
	"errors"
	"sort"
)

// NoiseGate attenuates frames whose level stays near the clip's noise floor.
// The floor is estimated as a low percentile of per-frame RMS.
type NoiseGate struct {
	FrameSize   int     // samples per frame, 320 = 20ms @ 16kHz
	Percentile  float64 // frame level treated as the floor, in [0, 1]
	Ratio       float64 // frames below floor*Ratio are gated
	Attenuation float32 // gain applied to gated frames
}

func NewNoiseGate() *NoiseGate {
	return &NoiseGate{
		FrameSize:   320,
		Percentile:  0.1,
		Ratio:       2.0,
		Attenuation: 0.05,
	}
}

var errClipTooShort = errors.New("clip shorter than two frames")

// Clean returns a gated copy of c, or c unchanged if it cannot be processed.
func (g *NoiseGate) Clean(c Clip) Clip {
	out, err := g.Apply(c)
	if err != nil {
		return c
	}
	return out
}

// Apply is Clean with the failure reported.
func (g *NoiseGate) Apply(c Clip) (Clip, error) {
	if g.FrameSize <= 0 {
		return c, errors.New("non-positive frame size")
	}
	frames := len(c.Samples) / g.FrameSize
	if frames < 2 {
		return c, errClipTooShort
	}

	levels := make([]float64, frames)
	for i := range levels {
		levels[i] = FrameRMS(c.Samples[i*g.FrameSize : (i+1)*g.FrameSize])
	}

	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)
	idx := int(g.Percentile * float64(frames-1))
	idx = max(0, min(idx, frames-1))
	gate := sorted[idx] * g.Ratio

	out := Clip{Samples: make([]float32, len(c.Samples)), Rate: c.Rate}
	copy(out.Samples, c.Samples)

	for i, lvl := range levels {
		if lvl > gate {
			continue
		}
		frame := out.Samples[i*g.FrameSize : (i+1)*g.FrameSize]
		for j := range frame {
			frame[j] *= g.Attenuation
		}
	}

	return out, nil
}
