// Package bus broadcasts session outcomes to a websocket hub.
package bus

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"vozc/internal/session"
)

// Message is the JSON frame written for every outcome.
type Message struct {
	From    string    `json:"from"`
	Session string    `json:"session"`
	Kind    string    `json:"kind"`
	Intent  string    `json:"intent,omitempty"`
	Content string    `json:"content,omitempty"`
	Path    string    `json:"path,omitempty"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"at"`
}

// Publisher holds one websocket connection and redials once when a write
// fails.
type Publisher struct {
	url     string
	from    string
	session string
	conn    *websocket.Conn
	dialer  *websocket.Dialer
	now     func() time.Time
}

func NewPublisher(wsURL, from, sessionID string) (*Publisher, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("bus url must be ws:// or wss://, got %q", wsURL)
	}

	p := &Publisher{
		url:     u.String(),
		from:    from,
		session: sessionID,
		dialer:  &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		now:     time.Now,
	}
	if err := p.dial(); err != nil {
		return nil, err
	}

	log.Info("Connected to bus", "url", p.url)
	return p, nil
}

func (p *Publisher) Publish(o session.Outcome) error {
	m := Message{
		From:    p.from,
		Session: p.session,
		Kind:    string(o.Kind),
		Intent:  o.Intent.String(),
		Content: o.Code,
		Path:    o.Path,
		Reason:  o.Reason(),
		At:      p.now().UTC(),
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	err = p.write(data)
	if err == nil {
		return nil
	}
	if !isClosed(err) {
		log.Debug("Bus write failed, redialing", "err", err)
	}

	if err := p.dial(); err != nil {
		return fmt.Errorf("redial %s: %w", p.url, err)
	}
	return p.write(data)
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return p.conn.Close()
}

func (p *Publisher) dial() error {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	conn, _, err := p.dialer.Dial(p.url, nil)
	if err != nil {
		return err
	}
	p.conn = conn
	return nil
}

func (p *Publisher) write(data []byte) error {
	if p.conn == nil {
		return websocket.ErrCloseSent
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure)
}
