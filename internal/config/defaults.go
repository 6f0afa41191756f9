package config

import (
	"time"

	"github.com/google/uuid"

	"github.com/bitwatch/mempool-data/internal/api"
	"github.com/bitwatch/mempool-data/internal/stream"
)

// Default values for optional configuration fields.
const (
	DefaultAPITimeout         = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultHandshakeTimeout   = 10 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultReconnectJitter    = 0.2
	DefaultPollInterval       = 5 * time.Minute
	DefaultPollTimeout        = 30 * time.Second
	DefaultHealthPort         = 8080
	DefaultHealthPath         = "/healthz"
)

// DefaultChannels are the subscriptions used when none are configured.
var DefaultChannels = []string{"blocks", "mempool-blocks", "stats"}

func (c *WatcherConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = "watcher-" + uuid.NewString()[:8]
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = api.DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Stream defaults
	if c.Stream.URL == "" {
		c.Stream.URL = stream.DefaultURL
	}
	if len(c.Stream.Channels) == 0 {
		c.Stream.Channels = DefaultChannels
	}
	if c.Stream.HandshakeTimeout == 0 {
		c.Stream.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.ReconnectJitter == 0 {
		c.Stream.ReconnectJitter = DefaultReconnectJitter
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
	if c.Health.Path == "" {
		c.Health.Path = DefaultHealthPath
	}
}
