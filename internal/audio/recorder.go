package audio

import (
	"context"
	log "log/slog"
	"time"

	"github.com/gordonklaus/portaudio"

	"vozc/pkg/pcm"
)

const (
	frameSize        = 320 // 20ms @ 16kHz
	silenceThreshRMS = 0.015
	trailingSilence  = 600 * time.Millisecond
)

// Recorder captures mono 16 kHz audio from the default input device.
type Recorder struct {
	// StopOnSilence ends a capture early once speech was heard and then
	// trailingSilence passed without any.
	StopOnSilence bool
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Capture records for d. Device errors are logged and yield silence.
func (r *Recorder) Capture(ctx context.Context, d time.Duration) pcm.Clip {
	samples, err := r.record(ctx, d)
	if err != nil {
		log.Error("Failed to record", "err", err)
		return pcm.Silence(d)
	}
	log.Debug("Recorded", "samples", len(samples))
	return pcm.Clip{Samples: samples, Rate: pcm.SampleRate}
}

func (r *Recorder) record(ctx context.Context, d time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)
	maxFrames := int(d.Seconds() * pcm.SampleRate / frameSize)
	out := make([]float32, 0, maxFrames*frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, pcm.SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
		frameDur      = time.Second * frameSize / pcm.SampleRate
	)

	for i := 0; i < maxFrames; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := stream.Read(); err != nil {
			return nil, err
		}
		out = append(out, buf...)

		if !r.StopOnSilence {
			continue
		}
		if pcm.FrameRMS(buf) > silenceThreshRMS {
			speaking = true
			silenceFrames = 0
			continue
		}
		if speaking {
			silenceFrames++
			if time.Duration(silenceFrames)*frameDur >= trailingSilence {
				break
			}
		}
	}

	return out, nil
}
