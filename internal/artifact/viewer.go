package artifact

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// SystemViewer opens files with the platform's default application.
type SystemViewer struct {
	goos string
}

func NewSystemViewer() *SystemViewer {
	return &SystemViewer{goos: runtime.GOOS}
}

// Open launches the viewer and returns without waiting for it to exit.
func (v *SystemViewer) Open(ctx context.Context, path string) error {
	name, args := v.command(path)

	cmd := exec.CommandContext(context.WithoutCancel(ctx), name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return cmd.Process.Release()
}

func (v *SystemViewer) command(path string) (string, []string) {
	switch v.goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}
