package ipc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortSocketPath(t *testing.T) string {
	t.Helper()
	// unix socket paths are limited to ~100 bytes, t.TempDir can exceed that
	dir, err := os.MkdirTemp("", "vozc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "ctl.sock")
}

func TestSendCommandReachesHandler(t *testing.T) {
	path := shortSocketPath(t)
	got := make(chan ControlMessage, 2)

	srv, err := StartServer(path, func(msg ControlMessage) { got <- msg })
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, SendCommand(path, CmdTrigger))
	require.NoError(t, SendCommand(path, CmdStop))

	var cmds []string
	for i := 0; i < 2; i++ {
		select {
		case msg := <-got:
			cmds = append(cmds, msg.Cmd)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for control message")
		}
	}
	assert.ElementsMatch(t, []string{CmdTrigger, CmdStop}, cmds)
}

func TestSendCommandWithoutServer(t *testing.T) {
	err := SendCommand(shortSocketPath(t), CmdStop)
	assert.Error(t, err)
}

func TestCloseRemovesSocket(t *testing.T) {
	path := shortSocketPath(t)
	srv, err := StartServer(path, func(ControlMessage) {})
	require.NoError(t, err)

	require.NoError(t, srv.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
