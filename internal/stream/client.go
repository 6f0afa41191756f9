package stream

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Client is a streaming client for the provider's push feed. A Client is
// constructed, connected, used, and disconnected; it holds no process-wide
// state and several clients can run side by side.
//
// Only the very first connection attempt can fail a Connect call. Once
// connected, drops are recovered internally: the client backs off, redials,
// and replays every desired subscription, indefinitely, until Disconnect.
type Client struct {
	cfg    Config
	logger *slog.Logger

	codec      Codec
	registry   *Registry
	dispatcher *Dispatcher

	mu    sync.Mutex
	state State
	conn  *conn
	done  chan struct{} // closed by Disconnect; recreated by a fresh Connect

	wg  sync.WaitGroup
	seq atomic.Uint64

	errMu       sync.Mutex
	errHandlers []func(error)
}

// New creates a streaming client. Zero-value config fields take defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:      cfg.withDefaults(),
		logger:   logger,
		registry: NewRegistry(),
		state:    StateDisconnected,
		done:     make(chan struct{}),
	}
	c.dispatcher = NewDispatcher(c.reportError)
	return c
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubscriptionState returns the state of the subscription for ch.
func (c *Client) SubscriptionState(ch Channel) (SubscriptionState, bool) {
	return c.registry.State(ch)
}

// On registers a handler for ch's events. Handlers may be registered before
// or after subscribing; they are invoked in registration order.
func (c *Client) On(ch Channel, h Handler) {
	c.dispatcher.Register(ch, h)
}

// OnError registers a sink for asynchronous errors (transient disconnects,
// decode failures, handler failures, provider rejections).
func (c *Client) OnError(fn func(error)) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.errHandlers = append(c.errHandlers, fn)
}

// Connect establishes the connection and replays desired subscriptions.
// Calling Connect while connected or connecting is a no-op. Only a failure
// of this first attempt is returned; after that, recovery is internal.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateConnected, StateConnecting, StateReconnecting:
		c.mu.Unlock()
		return nil
	case StateClosed:
		// A disconnected client may be reused; start fresh.
		c.done = make(chan struct{})
	}
	c.state = StateConnecting
	c.mu.Unlock()

	ws, err := dial(ctx, c.cfg.URL, c.cfg)
	if err != nil {
		c.mu.Lock()
		if c.state == StateConnecting {
			c.state = StateDisconnected
		}
		c.mu.Unlock()
		return &ConnectError{URL: c.cfg.URL, Err: err}
	}

	c.mu.Lock()
	if c.state == StateClosed {
		// Disconnect raced the dial.
		c.mu.Unlock()
		ws.close()
		return ErrClosed
	}
	c.conn = ws
	c.state = StateConnected
	done := c.done
	c.mu.Unlock()

	c.logger.Info("connected", "url", c.cfg.URL)
	c.replay(ws)

	c.wg.Add(1)
	go c.run(ws, done)

	return nil
}

// Subscribe records ch as desired and, if connected, sends the subscribe
// frame immediately. Re-subscribing a desired channel is a no-op; while
// disconnected or reconnecting only the desired state is updated.
func (c *Client) Subscribe(ch Channel) {
	if !ch.Name.Valid() {
		c.logger.Warn("ignoring subscribe for unknown channel", "channel", ch.String())
		return
	}
	if !c.registry.Add(ch) {
		return
	}

	ws, ok := c.connected()
	if !ok {
		return
	}
	c.sendSubscribe(ws, ch)
}

// Unsubscribe removes ch from the desired set and, if connected, tells the
// provider. Unsubscribing a channel that was never subscribed is a no-op.
func (c *Client) Unsubscribe(ch Channel) {
	if !c.registry.Remove(ch) {
		return
	}

	ws, ok := c.connected()
	if !ok {
		return
	}

	var frame []byte
	var err error
	if ch.Name == ChannelAddress {
		frame, err = c.codec.EncodeTrackAddress("")
	} else {
		// The provider replaces the want set wholesale; resend what remains.
		frame, err = c.codec.EncodeWant(c.registry.SimpleNames())
	}
	if err == nil {
		err = ws.send(frame)
	}
	if err != nil {
		c.logger.Warn("unsubscribe send failed", "channel", ch.String(), "error", err)
	}
}

// Disconnect closes the connection, cancels any pending reconnect, and stops
// the receive loop. Idempotent; safe from any goroutine, including handlers.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	ws := c.conn
	c.conn = nil
	done := c.done
	c.mu.Unlock()

	close(done)
	if ws != nil {
		ws.close()
	}
	c.registry.ResetPending()

	c.logger.Info("disconnected")
}

// connected returns the live session, if any.
func (c *Client) connected() (*conn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected || c.conn == nil {
		return nil, false
	}
	return c.conn, true
}

// sendSubscribe sends the wire subscribe for one channel.
func (c *Client) sendSubscribe(ws *conn, ch Channel) {
	var frame []byte
	var err error
	if ch.Name == ChannelAddress {
		frame, err = c.codec.EncodeTrackAddress(ch.Param)
	} else {
		frame, err = c.codec.EncodeWant(c.registry.SimpleNames())
	}
	if err == nil {
		err = ws.send(frame)
	}
	if err != nil {
		c.logger.Warn("subscribe send failed", "channel", ch.String(), "error", err)
	}
}

// replay converges the wire subscriptions to the desired set after a
// successful (re)connect. Every desired channel goes back to Pending.
func (c *Client) replay(ws *conn) {
	c.registry.ResetPending()

	if names := c.registry.SimpleNames(); len(names) > 0 {
		frame, err := c.codec.EncodeWant(names)
		if err == nil {
			err = ws.send(frame)
		}
		if err != nil {
			c.logger.Warn("subscription replay failed", "error", err)
		}
	}

	for _, addr := range c.registry.Addresses() {
		frame, err := c.codec.EncodeTrackAddress(addr)
		if err == nil {
			err = ws.send(frame)
		}
		if err != nil {
			c.logger.Warn("address replay failed", "address", addr, "error", err)
		}
	}
}

// run is the receive loop. It lives across reconnects and exits only when
// the client is closed.
func (c *Client) run(ws *conn, done chan struct{}) {
	defer c.wg.Done()

	for {
		data, receivedAt, err := ws.read()
		if err != nil {
			select {
			case <-done:
				return
			default:
			}

			c.mu.Lock()
			if c.state != StateConnected {
				c.mu.Unlock()
				return
			}
			c.state = StateReconnecting
			c.conn = nil
			c.mu.Unlock()

			ws.close()
			c.registry.ResetPending()
			c.reportError(&TransportError{Err: err})

			ws = c.reconnect(done)
			if ws == nil {
				return
			}
			continue
		}

		c.handleFrame(data, receivedAt)
	}
}

// handleFrame decodes one frame and dispatches its events in order. Decode
// failures are reported and skipped; the loop never dies on bad input.
func (c *Client) handleFrame(data []byte, receivedAt time.Time) {
	events, rejection, err := c.codec.Decode(data, receivedAt)
	if err != nil {
		c.reportError(err)
		return
	}
	if rejection != nil {
		c.registry.MarkFailed(rejection.Channel)
		c.reportError(rejection)
	}

	for i := range events {
		events[i].Seq = c.seq.Add(1)
		if events[i].Channel.Name != ChannelUnknown {
			// First data for a channel doubles as its acknowledgement.
			c.registry.MarkActive(events[i].Channel)
		}
		c.dispatcher.Dispatch(events[i])
	}
}

// reconnect redials with exponential backoff until it succeeds or the client
// closes. The attempt counter resets on every successful connection, and the
// client never gives up on its own: remote outages are expected and normal.
func (c *Client) reconnect(done chan struct{}) *conn {
	for attempt := 1; ; attempt++ {
		delay := backoffDelay(attempt, c.cfg.ReconnectBaseDelay, c.cfg.ReconnectMaxDelay, c.cfg.ReconnectJitter)

		timer := time.NewTimer(delay)
		select {
		case <-done:
			timer.Stop()
			return nil
		case <-timer.C:
		}

		c.logger.Info("attempting reconnection", "attempt", attempt, "delay", delay)

		ws, err := dial(context.Background(), c.cfg.URL, c.cfg)
		if err != nil {
			c.logger.Warn("reconnection failed", "attempt", attempt, "error", err)
			continue
		}

		c.mu.Lock()
		if c.state == StateClosed {
			c.mu.Unlock()
			ws.close()
			return nil
		}
		c.conn = ws
		c.state = StateConnected
		c.mu.Unlock()

		c.logger.Info("reconnected", "attempt", attempt)
		c.replay(ws)
		return ws
	}
}

// reportError fans an asynchronous error out to registered sinks.
func (c *Client) reportError(err error) {
	c.errMu.Lock()
	sinks := make([]func(error), len(c.errHandlers))
	copy(sinks, c.errHandlers)
	c.errMu.Unlock()

	if len(sinks) == 0 {
		c.logger.Warn("stream error", "error", err)
		return
	}
	for _, fn := range sinks {
		fn(err)
	}
}
