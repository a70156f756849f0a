package session

import (
	"context"
	"time"

	"vozc/pkg/pcm"
)

// Capturer records audio for a fixed window. It never fails; on trouble it
// returns silence.
type Capturer interface {
	Capture(ctx context.Context, d time.Duration) pcm.Clip
}

// NoiseReducer is best-effort: on failure it returns its input.
type NoiseReducer interface {
	Clean(c pcm.Clip) pcm.Clip
}

// Transcriber returns "" when nothing was heard or recognition failed.
type Transcriber interface {
	Transcribe(ctx context.Context, c pcm.Clip, lang string) string
}

type ArtifactWriter interface {
	Append(path, text string) error
}

type Viewer interface {
	Open(ctx context.Context, path string) error
}

// Reporter tells the human what happened in a cycle.
type Reporter interface {
	Report(o Outcome)
}

// Notifier signals that the wake phrase was heard.
type Notifier interface {
	Activated() error
}

// Ducker lowers other audio while a command is captured.
type Ducker interface {
	Duck(ctx context.Context) error
	Unduck(ctx context.Context) error
}

// Publisher broadcasts cycle outcomes to outside listeners.
type Publisher interface {
	Publish(o Outcome) error
}

type passthrough struct{}

func (passthrough) Clean(c pcm.Clip) pcm.Clip { return c }
