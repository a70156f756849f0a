// Package ipc carries control messages from vozc-ctl to a running session
// over a unix socket.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

const (
	CmdTrigger = "trigger" // start capturing a command without the wake phrase
	CmdStop    = "stop"    // end the session after the current cycle
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

// DefaultSocketPath is the per-user control socket.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "vozc.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("vozc-%d.sock", os.Getuid()))
}

// Server accepts control messages and hands each to handler on its own
// goroutine.
type Server struct {
	ln   net.Listener
	path string
}

func StartServer(path string, handler func(ControlMessage)) (*Server, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				return
			}
			go handleConn(conn, handler)
		}
	}()

	return &Server{ln: ln, path: path}, nil
}

func (s *Server) Close() error {
	err := s.ln.Close()
	os.Remove(s.path)
	return err
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}
	handler(msg)
}

func SendCommand(path, cmd string) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd})
}
