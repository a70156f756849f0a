// Package artifact persists generated code and opens it for viewing.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

const fileMode = 0o644

// FileWriter appends fragments to a file, creating it and its directory on
// first use. Each fragment is written with a single call.
type FileWriter struct{}

func NewFileWriter() *FileWriter { return &FileWriter{} }

func (FileWriter) Append(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
