// Package stt provides speech-to-text engines over pcm clips.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"regexp"
	"strings"

	"vozc/pkg/pcm"
)

var ErrEmptyAudio = errors.New("no audio samples provided")

// Engine transcribes a clip in the given language ("es", "en", "auto").
type Engine interface {
	Transcribe(ctx context.Context, c pcm.Clip, lang string) (string, error)
	Name() string
	Close() error
}

type Config struct {
	Backend     string // whisper, whisper-cli, openai, stdin
	ModelPath   string
	Threads     int
	CLIPath     string
	OpenAIModel string
	APIKey      string
	HTTPClient  *http.Client
	Input       io.Reader // stdin backend
	OnEOF       func()
}

// New builds the engine selected by cfg.Backend.
func New(cfg Config) (Engine, error) {
	switch cfg.Backend {
	case "whisper", "":
		return NewWhisper(cfg.ModelPath, cfg.Threads)
	case "whisper-cli":
		return NewCLI(cfg.CLIPath, cfg.ModelPath)
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.OpenAIModel, cfg.HTTPClient)
	case "stdin":
		return NewLines(cfg.Input, cfg.OnEOF), nil
	default:
		return nil, fmt.Errorf("unknown stt backend %q (supported: whisper, whisper-cli, openai, stdin)", cfg.Backend)
	}
}

// Tolerant adapts an Engine to the session contract: failures and silence
// both come back as "".
type Tolerant struct {
	engine Engine
	minRMS float64
}

// NewTolerant wraps e. Clips quieter than minRMS are not sent to the engine;
// zero disables the check.
func NewTolerant(e Engine, minRMS float64) *Tolerant {
	return &Tolerant{engine: e, minRMS: minRMS}
}

func (t *Tolerant) Transcribe(ctx context.Context, c pcm.Clip, lang string) string {
	if t.minRMS > 0 && c.RMS() < t.minRMS {
		log.Debug("Skipping silent clip", "rms", c.RMS())
		return ""
	}

	text, err := t.engine.Transcribe(ctx, c, lang)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("Failed to transcribe", "engine", t.engine.Name(), "err", err)
		}
		return ""
	}

	return Clean(text)
}

var markerRe = regexp.MustCompile(`\[[A-Z_ ]+\]|\([^)]*\)`)

// Clean drops non-speech markers such as [BLANK_AUDIO] or (music) and
// collapses whitespace.
func Clean(text string) string {
	text = markerRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}
