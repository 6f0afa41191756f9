package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned when an operation races a terminal Disconnect.
var ErrClosed = errors.New("client closed")

// ConnectError reports a failed initial connection attempt. It is the only
// error surfaced synchronously from Connect; everything after the first
// successful connect is reported through the error handler.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TransportError reports an established connection dropping. The client
// recovers automatically; the error exists for diagnostics only.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connection dropped: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports an inbound frame that could not be parsed. The receive
// loop continues with the next frame.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// HandlerError reports a registered handler failing during dispatch. The
// failure is isolated to that handler.
type HandlerError struct {
	Channel Channel
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %s: %v", e.Channel, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// RejectionError reports the provider rejecting a subscription.
type RejectionError struct {
	Channel Channel
	Message string
}

func (e *RejectionError) Error() string {
	if e.Channel.Name == "" {
		return fmt.Sprintf("provider rejection: %s", e.Message)
	}
	return fmt.Sprintf("provider rejected %s: %s", e.Channel, e.Message)
}

// State is the connection lifecycle state. Exactly one State exists per
// client, owned and mutated only by the client's lifecycle methods.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	}
	return "invalid"
}

// Event is one decoded unit of channel data. Events are handed to handlers
// and discarded; the client never stores them.
type Event struct {
	Channel    Channel
	Key        string          // top-level wire key the data arrived under
	Payload    json.RawMessage // channel-specific data, as sent by the provider
	Seq        uint64          // per-client monotonic sequence, for ordering diagnostics
	ReceivedAt time.Time       // local timestamp when the frame was read
}

// Handler consumes events for a channel. A non-nil return is reported as a
// HandlerError and does not affect other handlers or the receive loop.
type Handler func(Event) error

// Config configures a streaming client.
type Config struct {
	URL              string        // WebSocket URL of the provider's feed
	HandshakeTimeout time.Duration // Dial handshake deadline
	WriteTimeout     time.Duration // Write deadline for outbound frames

	ReconnectBaseDelay time.Duration // First reconnect delay
	ReconnectMaxDelay  time.Duration // Reconnect delay cap
	ReconnectJitter    float64       // Fractional jitter applied to each delay (0.2 = ±20%)
}

// DefaultURL is the provider's public streaming endpoint.
const DefaultURL = "wss://mempool.space/api/v1/ws"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:                DefaultURL,
		HandshakeTimeout:   10 * time.Second,
		WriteTimeout:       5 * time.Second,
		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  60 * time.Second,
		ReconnectJitter:    0.2,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.URL == "" {
		c.URL = def.URL
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.ReconnectBaseDelay == 0 {
		c.ReconnectBaseDelay = def.ReconnectBaseDelay
	}
	if c.ReconnectMaxDelay == 0 {
		c.ReconnectMaxDelay = def.ReconnectMaxDelay
	}
	if c.ReconnectJitter == 0 {
		c.ReconnectJitter = def.ReconnectJitter
	}
	return c
}
