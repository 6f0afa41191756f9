package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// conn wraps one WebSocket session. Reads are synchronous; closing the
// session unblocks a pending read.
type conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration

	// Write serialization
	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// dial opens a WebSocket session to url.
func dial(ctx context.Context, url string, cfg Config) (*conn, error) {
	header := http.Header{}
	header.Set("Accept", "application/json")

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
	}

	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	// Server-initiated pings keep the connection alive; answer them.
	ws.SetPingHandler(func(data string) error {
		return ws.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	return &conn{
		ws:           ws,
		writeTimeout: cfg.WriteTimeout,
	}, nil
}

// send writes one text frame.
func (c *conn) send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// read blocks until the next inbound frame and returns it with the local
// receive timestamp.
func (c *conn) read() ([]byte, time.Time, error) {
	_, data, err := c.ws.ReadMessage()
	return data, time.Now(), err
}

// close sends a close frame and tears the session down. Idempotent.
func (c *conn) close() error {
	c.closeOnce.Do(func() {
		c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
