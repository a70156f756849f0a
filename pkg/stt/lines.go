package stt

import (
	"bufio"
	"context"
	"io"
	"sync"

	"vozc/pkg/pcm"
)

// Lines treats each line read from r as one transcript and ignores audio.
// It lets the session run from a keyboard or a script.
type Lines struct {
	sc    *bufio.Scanner
	onEOF func()
	once  sync.Once
}

func NewLines(r io.Reader, onEOF func()) *Lines {
	return &Lines{sc: bufio.NewScanner(r), onEOF: onEOF}
}

func (l *Lines) Name() string { return "stdin" }

func (l *Lines) Close() error { return nil }

func (l *Lines) Transcribe(_ context.Context, _ pcm.Clip, _ string) (string, error) {
	if l.sc.Scan() {
		return l.sc.Text(), nil
	}
	if err := l.sc.Err(); err != nil {
		return "", err
	}
	if l.onEOF != nil {
		l.once.Do(l.onEOF)
	}
	return "", io.EOF
}
