package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/polycopy/trade-monitor/internal/clients/chainclient"
	"github.com/polycopy/trade-monitor/internal/clients/dataclient"
	"github.com/polycopy/trade-monitor/internal/config"
	"github.com/polycopy/trade-monitor/internal/db"
	"github.com/polycopy/trade-monitor/internal/observability/metrics"
	"github.com/polycopy/trade-monitor/internal/utils/poller"
)

type Service struct {
	cfg      *config.Config
	db       db.DbInterface
	data     dataclient.DataInterface
	chain    chainclient.ChainInterface
	feed     *FeedClient
	reporter Reporter

	tracked map[string]bool

	// running gates new synchronization cycles; a stop request flips it
	// before anything is torn down so no new cycle starts mid-shutdown.
	running        atomic.Bool
	stopOnce       sync.Once
	quit           chan struct{}
	positionPoller *poller.Poller
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	data dataclient.DataInterface,
	chain chainclient.ChainInterface,
	reporter Reporter,
) *Service {
	tracked := make(map[string]bool, len(cfg.Monitor.TrackedAddresses))
	for _, address := range cfg.Monitor.TrackedAddresses {
		tracked[address] = true
	}

	s := &Service{
		cfg:      cfg,
		db:       db,
		data:     data,
		chain:    chain,
		reporter: reporter,
		tracked:  tracked,
		quit:     make(chan struct{}),
	}
	s.feed = NewFeedClient(&cfg.Feed, cfg.Monitor.TrackedAddresses, nil, s.ProcessTradeActivity)

	return s
}

// RunMonitorSync drives the whole monitor lifecycle: startup reporting,
// one-time backfill suppression, the live feed and the periodic position
// synchronization. It blocks until Stop is called, the context is
// cancelled, or the feed fails permanently.
func (s *Service) RunMonitorSync(ctx context.Context) error {
	log := log.Ctx(ctx)

	metrics.SetTrackedAddresses(len(s.cfg.Monitor.TrackedAddresses))

	if err := s.bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap monitor: %w", err)
	}

	if err := s.suppressBackfill(ctx); err != nil {
		return fmt.Errorf("failed to run backfill suppression: %w", err)
	}

	s.running.Store(true)
	s.feed.Start(ctx)

	s.positionPoller = poller.NewPoller(
		s.cfg.Monitor.PositionSyncInterval,
		metrics.RecordPollerDuration("positions", s.pollPositions),
	)
	go s.positionPoller.Start(ctx)

	log.Info().
		Int("addresses", len(s.cfg.Monitor.TrackedAddresses)).
		Msg("Monitoring trader activity via RTDS")

	select {
	case err := <-s.feed.Fatal():
		s.Stop()
		return err
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	case <-s.quit:
		log.Info().Msg("Trade monitor stopped")
		return nil
	}
}

// pollPositions is the interval-triggered synchronization entry point. The
// running flag is checked on every firing so that a stop request cleanly
// suppresses cycles scheduled around shutdown.
func (s *Service) pollPositions(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}
	return s.SyncPositions(ctx)
}

// Stop requests shutdown. It does not wait for an in-flight
// synchronization cycle, but no new cycle starts afterwards and the feed
// will not reconnect.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		s.running.Store(false)
		if s.positionPoller != nil {
			s.positionPoller.Stop()
		}
		s.feed.Stop()
		close(s.quit)
	})
}
