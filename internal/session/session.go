// Package session runs the wake → command → artifact loop.
package session

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vozc/internal/codegen"
	"vozc/internal/nlu"
)

type Config struct {
	OutputPath    string
	Language      string
	WakeWindow    time.Duration
	CommandWindow time.Duration
	Pause         time.Duration
	WakePhrases   []string
	OpenViewer    bool
}

func DefaultConfig() Config {
	return Config{
		OutputPath:    codegen.DefaultOutput,
		Language:      "es",
		WakeWindow:    3 * time.Second,
		CommandWindow: 8 * time.Second,
		Pause:         500 * time.Millisecond,
		WakePhrases:   []string{"oye compilador", "oye compiler", "hey compilador"},
		OpenViewer:    true,
	}
}

// Deps are the collaborators a Session drives. Capturer, Transcriber and
// Writer are required; the rest may be nil.
type Deps struct {
	Capturer    Capturer
	Cleaner     NoiseReducer
	Transcriber Transcriber
	Writer      ArtifactWriter
	Viewer      Viewer
	Reporter    Reporter
	Notifier    Notifier
	Ducker      Ducker
	Publisher   Publisher
}

type Session struct {
	id    string
	state State
	cfg   Config
	deps  Deps
	in    *nlu.Interpreter

	phrases []string
	trigger chan struct{}
}

func New(cfg Config, in *nlu.Interpreter, deps Deps) (*Session, error) {
	if in == nil {
		return nil, errors.New("nil interpreter")
	}
	if deps.Capturer == nil || deps.Transcriber == nil || deps.Writer == nil {
		return nil, errors.New("capturer, transcriber and writer are required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("empty output path")
	}
	if deps.Cleaner == nil {
		deps.Cleaner = passthrough{}
	}
	if deps.Reporter == nil {
		deps.Reporter = LogReporter{}
	}

	var phrases []string
	for _, p := range cfg.WakePhrases {
		if p = nlu.Clean(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	if len(phrases) == 0 {
		return nil, errors.New("no activation phrases")
	}

	return &Session{
		id:      uuid.NewString(),
		state:   StateIdle,
		cfg:     cfg,
		deps:    deps,
		in:      in,
		phrases: phrases,
		trigger: make(chan struct{}, 1),
	}, nil
}

func (s *Session) ID() string         { return s.id }
func (s *Session) State() State       { return s.state }
func (s *Session) OutputPath() string { return s.cfg.OutputPath }

// SetPublisher attaches a publisher after construction, for publishers that
// need the session id. Call before Run.
func (s *Session) SetPublisher(p Publisher) { s.deps.Publisher = p }

// Trigger asks the loop to skip the wake phrase on its next idle cycle.
// Safe to call from other goroutines.
func (s *Session) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run cycles until a terminate command arrives or ctx is cancelled. It returns
// nil on terminate and ctx.Err() on cancellation. Cancellation is observed
// between cycles; a cycle in progress finishes first.
func (s *Session) Run(ctx context.Context) error {
	log.Info("Session started", "id", s.id, "output", s.cfg.OutputPath)

	for s.state != StateTerminated {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.Step(ctx)

		if s.state == StateIdle {
			if err := s.pause(ctx); err != nil {
				return err
			}
		}
	}

	log.Info("Session terminated", "id", s.id)
	return nil
}

// Step runs a single cycle for the current state.
func (s *Session) Step(ctx context.Context) {
	switch s.state {
	case StateIdle:
		s.listenForWake(ctx)
	case StateAwaitingCommand:
		s.listenForCommand(ctx)
	}
}

func (s *Session) listenForWake(ctx context.Context) {
	select {
	case <-s.trigger:
		log.Info("Triggered")
		s.activate()
		return
	default:
	}

	text := s.listen(ctx, s.cfg.WakeWindow)
	if text == "" {
		return
	}

	log.Info("Heard", "text", text)
	if !s.IsWake(text) {
		log.Debug("No activation phrase")
		return
	}

	log.Info("Activation phrase detected")
	s.activate()
}

func (s *Session) activate() {
	s.setState(StateAwaitingCommand)
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.Activated(); err != nil {
			log.Warn("Failed to notify", "err", err)
		}
	}
}

func (s *Session) listenForCommand(ctx context.Context) {
	if d := s.deps.Ducker; d != nil {
		if err := d.Duck(ctx); err != nil {
			log.Warn("Failed to duck audio", "err", err)
		}
		defer func() {
			if err := d.Unduck(context.WithoutCancel(ctx)); err != nil {
				log.Warn("Failed to unduck audio", "err", err)
			}
		}()
	}

	log.Info("Recording command", "window", s.cfg.CommandWindow)
	text := s.listen(ctx, s.cfg.CommandWindow)

	out := s.Execute(ctx, text)
	s.deps.Reporter.Report(out)
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(out); err != nil {
			log.Warn("Failed to publish outcome", "err", err)
		}
	}

	if out.Kind == OutcomeTerminate {
		s.setState(StateTerminated)
		return
	}
	s.setState(StateIdle)
}

func (s *Session) listen(ctx context.Context, window time.Duration) string {
	clip := s.deps.Capturer.Capture(ctx, window)
	clip = s.deps.Cleaner.Clean(clip)
	return strings.TrimSpace(s.deps.Transcriber.Transcribe(ctx, clip, s.cfg.Language))
}

// Execute runs one transcript through interpretation, synthesis and
// persistence. It does not change the session state.
func (s *Session) Execute(ctx context.Context, transcript string) Outcome {
	out := Outcome{Transcript: transcript, Intent: nlu.IntentUnknown}
	if transcript == "" {
		out.Kind = OutcomeEmptyTranscript
		return out
	}

	res, err := s.in.Analyze(transcript)
	out.Normalized = res.Normalized
	out.Intent = res.Match.Intent
	out.Params = res.Params

	switch {
	case errors.Is(err, nlu.ErrUnknownIntent):
		out.Kind = OutcomeNoIntent
		out.Err = err
		return out
	case errors.Is(err, nlu.ErrMissingParameters):
		out.Kind = OutcomeMissingParameters
		out.Err = err
		return out
	case err != nil:
		out.Kind = OutcomeNoIntent
		out.Err = err
		return out
	}

	if out.Intent == nlu.IntentTerminate {
		out.Kind = OutcomeTerminate
		return out
	}

	code, ok := codegen.Synthesize(res.Params)
	if !ok {
		out.Kind = OutcomeNoIntent
		out.Err = fmt.Errorf("no code for intent %s", out.Intent)
		return out
	}
	out.Code = code
	out.Path = s.cfg.OutputPath

	if err := s.deps.Writer.Append(s.cfg.OutputPath, code); err != nil {
		out.Kind = OutcomeWriteFailed
		out.Err = err
		return out
	}
	out.Kind = OutcomeArtifact

	if s.cfg.OpenViewer && s.deps.Viewer != nil {
		if err := s.deps.Viewer.Open(ctx, s.cfg.OutputPath); err != nil {
			log.Warn("Failed to open artifact", "path", s.cfg.OutputPath, "err", err)
		}
	}

	return out
}

// IsWake reports whether transcript contains an activation phrase, either
// after normalization or as plain lowercase text.
func (s *Session) IsWake(transcript string) bool {
	candidates := []string{
		s.in.Normalizer().Normalize(transcript),
		nlu.Clean(transcript),
	}
	for _, text := range candidates {
		for _, p := range s.phrases {
			if strings.Contains(text, p) {
				return true
			}
		}
	}
	return false
}

func (s *Session) setState(next State) {
	if next == s.state {
		return
	}
	log.Debug("State", "from", s.state, "to", next)
	s.state = next
}

func (s *Session) pause(ctx context.Context) error {
	if s.cfg.Pause <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.cfg.Pause)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
