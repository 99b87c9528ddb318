package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/polycopy/trade-monitor/internal/config"
	"github.com/polycopy/trade-monitor/internal/observability/metrics"
	"github.com/polycopy/trade-monitor/internal/types"
)

// ConnState is the feed connection lifecycle state.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateClosing
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	}
	return "unknown"
}

// Conn is the subset of a WebSocket connection the feed client uses.
// *websocket.Conn satisfies it; tests substitute a fake transport.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer opens a feed connection. Injectable so the reconnect behaviour is
// testable without network I/O.
type Dialer func(ctx context.Context, url string) (Conn, error)

// ActivityHandler receives every parsed trade event together with its
// source address.
type ActivityHandler func(ctx context.Context, activity *types.TradeActivity, address string)

// FeedClient maintains the live RTDS subscription. On connect it
// subscribes to the tracked addresses; on loss it reconnects after a fixed
// delay up to a configured bound, after which the failure is surfaced on
// Fatal(). Activity ingestion has no HTTP fallback, so an exhausted bound
// is terminal for the monitor.
type FeedClient struct {
	cfg       *config.FeedConfig
	addresses []string
	dial      Dialer
	handler   ActivityHandler

	state  atomic.Int32
	connMu sync.Mutex
	conn   Conn

	fatal chan error
	stop  chan struct{}
}

func NewFeedClient(
	cfg *config.FeedConfig,
	addresses []string,
	dial Dialer,
	handler ActivityHandler,
) *FeedClient {
	if dial == nil {
		dial = defaultDialer(cfg.HandshakeTimeout)
	}
	return &FeedClient{
		cfg:       cfg,
		addresses: addresses,
		dial:      dial,
		handler:   handler,
		fatal:     make(chan error, 1),
		stop:      make(chan struct{}),
	}
}

func defaultDialer(handshakeTimeout time.Duration) Dialer {
	return func(ctx context.Context, url string) (Conn, error) {
		dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
		conn, resp, err := dialer.DialContext(ctx, url, nil)
		if err != nil {
			if resp != nil {
				return nil, fmt.Errorf("dial failed with status %d: %w", resp.StatusCode, err)
			}
			return nil, fmt.Errorf("dial failed: %w", err)
		}
		return conn, nil
	}
}

func (f *FeedClient) State() ConnState {
	return ConnState(f.state.Load())
}

func (f *FeedClient) setState(s ConnState) {
	f.state.Store(int32(s))
}

// Fatal delivers the terminal error once reconnect attempts are
// exhausted.
func (f *FeedClient) Fatal() <-chan error {
	return f.fatal
}

// Start runs the connection loop in the background.
func (f *FeedClient) Start(ctx context.Context) {
	go f.run(ctx)
}

// Stop closes the connection and suppresses any further reconnects.
func (f *FeedClient) Stop() {
	if f.State() == StateClosing {
		return
	}
	f.setState(StateClosing)
	close(f.stop)
	f.closeConn()
}

func (f *FeedClient) run(ctx context.Context) {
	log := log.Ctx(ctx)
	attempts := 0

	for {
		if f.stopping(ctx) {
			f.setState(StateDisconnected)
			return
		}

		f.setState(StateConnecting)
		conn, err := f.connect(ctx)
		if err == nil {
			f.setConn(conn)
			f.setState(StateConnected)
			attempts = 0
			log.Info().Str("endpoint", f.cfg.URL).Msg("Feed connected")

			readErr := f.readLoop(ctx, conn)
			f.closeConn()
			if !f.stopping(ctx) {
				log.Warn().Err(readErr).Msg("Feed connection lost")
			}
		} else if !f.stopping(ctx) {
			log.Error().Err(err).Msg("Feed connect failed")
		}

		if f.stopping(ctx) {
			f.setState(StateDisconnected)
			return
		}

		f.setState(StateDisconnected)
		attempts++
		metrics.IncFeedReconnects()
		if attempts > f.cfg.MaxReconnectAttempts {
			f.fatal <- fmt.Errorf(
				"feed permanently failed after %d reconnect attempts",
				f.cfg.MaxReconnectAttempts,
			)
			return
		}

		log.Info().
			Int("attempt", attempts).
			Int("max_attempts", f.cfg.MaxReconnectAttempts).
			Dur("delay", f.cfg.ReconnectDelay).
			Msg("Scheduling feed reconnect")

		select {
		case <-ctx.Done():
			f.setState(StateDisconnected)
			return
		case <-f.stop:
			f.setState(StateDisconnected)
			return
		case <-time.After(f.cfg.ReconnectDelay):
		}
	}
}

// connect performs the handshake and immediately subscribes to the full
// tracked address set.
func (f *FeedClient) connect(ctx context.Context) (Conn, error) {
	conn, err := f.dial(ctx, f.cfg.URL)
	if err != nil {
		return nil, err
	}

	if err := conn.WriteJSON(types.NewSubscribeMessage(f.addresses)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to send subscribe message: %w", err)
	}

	return conn, nil
}

func (f *FeedClient) readLoop(ctx context.Context, conn Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		f.handleMessage(ctx, data)
	}
}

// handleMessage parses one inbound message. A malformed message is logged
// and skipped; it never tears down the connection. Only messages carrying
// both an activity payload and an address are forwarded.
func (f *FeedClient) handleMessage(ctx context.Context, data []byte) {
	var msg types.FeedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.RecordFeedMessage("malformed")
		log.Ctx(ctx).Debug().Err(err).Msg("Failed to parse feed message")
		return
	}

	if msg.Activity == nil || msg.Address == "" {
		metrics.RecordFeedMessage("ignored")
		return
	}

	metrics.RecordFeedMessage("forwarded")
	f.handler(ctx, msg.Activity, msg.Address)
}

func (f *FeedClient) stopping(ctx context.Context) bool {
	if f.State() == StateClosing {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (f *FeedClient) setConn(conn Conn) {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	f.conn = conn
}

func (f *FeedClient) closeConn() {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn != nil {
		_ = f.conn.Close()
		f.conn = nil
	}
}
