package audio

import (
	"context"
	log "log/slog"
	"time"

	"vozc/pkg/audioconv"
	"vozc/pkg/pcm"
)

// Replay serves pre-recorded files, one per capture, in order. Once the
// files run out it calls onDone and returns silence.
type Replay struct {
	files  []string
	onDone func()
}

func NewReplay(files []string, onDone func()) *Replay {
	return &Replay{files: append([]string(nil), files...), onDone: onDone}
}

func (r *Replay) Capture(_ context.Context, d time.Duration) pcm.Clip {
	if len(r.files) == 0 {
		if r.onDone != nil {
			r.onDone()
			r.onDone = nil
		}
		return pcm.Silence(d)
	}

	path := r.files[0]
	r.files = r.files[1:]

	clip, err := audioconv.DecodeFile(path)
	if err != nil {
		log.Error("Failed to decode replay file", "path", path, "err", err)
		return pcm.Silence(d)
	}

	log.Info("Replaying", "path", path, "duration", clip.Duration())
	return clip
}

// Silent captures nothing. Used when transcripts come from text input.
type Silent struct{}

func (Silent) Capture(context.Context, time.Duration) pcm.Clip { return pcm.Clip{Rate: pcm.SampleRate} }
