package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriterAppendsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "codigo_generado.py")
	w := NewFileWriter()

	require.NoError(t, w.Append(path, "x = 10\n"))
	require.NoError(t, w.Append(path, "def f():\n    pass\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 10\ndef f():\n    pass\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(fileMode), info.Mode().Perm())
}

func TestFileWriterKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.py")
	require.NoError(t, os.WriteFile(path, []byte("# header\n"), 0o644))

	require.NoError(t, NewFileWriter().Append(path, "print(\"hola\")\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# header\nprint(\"hola\")\n", string(got))
}

func TestFileWriterFailsOnDirectory(t *testing.T) {
	err := NewFileWriter().Append(t.TempDir(), "x = 1\n")
	assert.Error(t, err)
}

func TestSystemViewerCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{goos: "linux", name: "xdg-open", args: []string{"f.py"}},
		{goos: "darwin", name: "open", args: []string{"f.py"}},
		{goos: "windows", name: "cmd", args: []string{"/c", "start", "", "f.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			v := &SystemViewer{goos: tt.goos}
			name, args := v.command("f.py")
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}
