package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"vozc/pkg/audioconv"
	"vozc/pkg/pcm"
)

// CLI runs the whisper.cpp command line tool on a temp WAV file.
type CLI struct {
	execPath  string
	modelPath string
}

func NewCLI(execPath, modelPath string) (*CLI, error) {
	if execPath == "" {
		execPath = "whisper-cli"
	}
	resolved, err := exec.LookPath(execPath)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", execPath, err)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	return &CLI{execPath: resolved, modelPath: modelPath}, nil
}

func (c *CLI) Name() string { return "whisper-cli" }

func (c *CLI) Close() error { return nil }

func (c *CLI) Transcribe(ctx context.Context, clip pcm.Clip, lang string) (string, error) {
	if clip.Empty() {
		return "", ErrEmptyAudio
	}

	path, err := audioconv.WriteTempWAV(clip, "vozc-*.wav")
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	if lang == "" {
		lang = "auto"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.execPath,
		"-m", c.modelPath,
		"-f", path,
		"-l", lang,
		"-nt", // no timestamps
		"-np", // no progress / system info
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s: %w: %s", c.execPath, err, bytes.TrimSpace(stderr.Bytes()))
		}
		return "", fmt.Errorf("%s: %w", c.execPath, err)
	}

	return stdout.String(), nil
}
