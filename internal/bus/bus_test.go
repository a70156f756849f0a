package bus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vozc/internal/nlu"
	"vozc/internal/session"
)

func newHub(t *testing.T) (string, <-chan Message) {
	t.Helper()

	msgs := make(chan Message, 8)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var m Message
			if json.Unmarshal(data, &m) == nil {
				msgs <- m
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), msgs
}

func TestPublishSendsOutcome(t *testing.T) {
	url, msgs := newHub(t)

	p, err := NewPublisher(url, "vozc", "sess-1")
	require.NoError(t, err)
	defer p.Close()

	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	err = p.Publish(session.Outcome{
		Kind:   session.OutcomeArtifact,
		Intent: nlu.IntentVariable,
		Code:   "x = 10\n",
		Path:   "codigo_generado.py",
	})
	require.NoError(t, err)

	select {
	case m := <-msgs:
		assert.Equal(t, Message{
			From:    "vozc",
			Session: "sess-1",
			Kind:    "artifact",
			Intent:  "variable",
			Content: "x = 10\n",
			Path:    "codigo_generado.py",
			Reason:  "Código guardado en 'codigo_generado.py'",
			At:      fixed,
		}, m)
	case <-time.After(2 * time.Second):
		t.Fatal("hub received nothing")
	}
}

func TestNewPublisherRejectsHTTPURL(t *testing.T) {
	_, err := NewPublisher("http://localhost:1", "vozc", "s")
	assert.ErrorContains(t, err, "ws://")
}

func TestNewPublisherDialFailure(t *testing.T) {
	_, err := NewPublisher("ws://127.0.0.1:1/ws", "vozc", "s")
	assert.Error(t, err)
}
