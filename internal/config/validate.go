package config

import (
	"fmt"
	"strings"

	"github.com/bitwatch/mempool-data/internal/stream"
)

// Validate checks that all required fields are set and values are valid.
func (c *WatcherConfig) Validate() error {
	if !strings.HasPrefix(c.Stream.URL, "ws://") && !strings.HasPrefix(c.Stream.URL, "wss://") {
		return fmt.Errorf("stream.url must be a ws:// or wss:// URL, got %q", c.Stream.URL)
	}

	for _, name := range c.Stream.Channels {
		if !stream.ChannelName(name).Valid() || stream.ChannelName(name) == stream.ChannelAddress {
			return fmt.Errorf("stream.channels: unknown channel %q", name)
		}
	}
	for _, addr := range c.Stream.TrackAddresses {
		if addr == "" {
			return fmt.Errorf("stream.track_addresses must not contain empty entries")
		}
	}

	if c.Stream.ReconnectBaseDelay > c.Stream.ReconnectMaxDelay {
		return fmt.Errorf("stream.reconnect_base_delay (%s) cannot exceed reconnect_max_delay (%s)",
			c.Stream.ReconnectBaseDelay, c.Stream.ReconnectMaxDelay)
	}
	if c.Stream.ReconnectJitter < 0 || c.Stream.ReconnectJitter > 1 {
		return fmt.Errorf("stream.reconnect_jitter must be between 0 and 1, got %v", c.Stream.ReconnectJitter)
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}
