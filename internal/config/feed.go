package config

import (
	"errors"
	"time"
)

type FeedConfig struct {
	// URL points at the RTDS WebSocket endpoint.
	URL string `mapstructure:"url"`
	// ReconnectDelay is the pause between reconnect attempts after a
	// connection loss.
	ReconnectDelay time.Duration `mapstructure:"reconnect-delay"`
	// MaxReconnectAttempts bounds consecutive failed reconnects before the
	// feed is considered permanently lost. There is no HTTP fallback for
	// activity ingestion, so exhausting this bound is fatal.
	MaxReconnectAttempts int `mapstructure:"max-reconnect-attempts"`
	// HandshakeTimeout bounds the WebSocket dial.
	HandshakeTimeout time.Duration `mapstructure:"handshake-timeout"`
}

func (cfg *FeedConfig) Validate() error {
	if cfg.URL == "" {
		return errors.New("feed url is required")
	}
	if cfg.ReconnectDelay <= 0 {
		return errors.New("feed reconnect-delay must be positive")
	}
	if cfg.MaxReconnectAttempts <= 0 {
		return errors.New("feed max-reconnect-attempts must be positive")
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}

	return nil
}
