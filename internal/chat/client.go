// Package chat is the live chat transport: a websocket that authenticates
// with the session token and then exchanges small JSON frames.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/ytget/social-client/internal/logging"
)

// Frame types
const (
	FrameAuth     = "auth"
	FrameOutgoing = "chatFromBrowser"
	FrameIncoming = "chatFromServer"
)

const writeTimeout = 10 * time.Second

// ErrClosed is returned by Send after Close
var ErrClosed = errors.New("chat: connection closed")

// Message is a chat line received from another user
type Message struct {
	Username string
	Avatar   string
	Body     string
}

type authFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type outgoingFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Client is one chat connection
type Client struct {
	conn *websocket.Conn
	log  *logrus.Entry

	writeMu sync.Mutex
	closed  bool
}

// WebsocketURL derives the chat endpoint from the REST base URL
func WebsocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("chat: parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("chat: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/chat"
	return u.String(), nil
}

// Dial connects to endpoint and authenticates with token
func Dial(ctx context.Context, endpoint, token string, log *logrus.Entry) (*Client, error) {
	log = logging.OrDiscard(log)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("chat: dial: %w", err)
	}

	c := &Client{conn: conn, log: log}
	if err := c.write(ctx, authFrame{Type: FrameAuth, Token: token}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("chat: auth: %w", err)
	}
	log.WithField("endpoint", endpoint).Info("chat connected")
	return c, nil
}

// Listen reads frames until the connection closes, handing each incoming
// chat line to handler. A normal close returns nil.
func (c *Client) Listen(handler func(Message)) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || c.isClosed() {
				return nil
			}
			return fmt.Errorf("chat: read: %w", err)
		}

		frame := gjson.ParseBytes(data)
		if frame.Get("type").String() != FrameIncoming {
			c.log.WithField("type", frame.Get("type").String()).Debug("ignoring chat frame")
			continue
		}
		handler(Message{
			Username: frame.Get("username").String(),
			Avatar:   frame.Get("avatar").String(),
			Body:     frame.Get("message").String(),
		})
	}
}

// Send posts a chat line
func (c *Client) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return c.write(ctx, outgoingFrame{Type: FrameOutgoing, Message: text})
}

// Close says goodbye and closes the socket
func (c *Client) Close() error {
	c.writeMu.Lock()
	if c.closed {
		c.writeMu.Unlock()
		return nil
	}
	c.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.writeMu.Unlock()

	return c.conn.Close()
}

func (c *Client) write(ctx context.Context, v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *Client) isClosed() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.closed
}
