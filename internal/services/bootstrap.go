package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/internal/utils"
)

// bootstrap produces the startup report: per-address record counts, the
// operator's portfolio, and a summary for each tracked trader. Count
// queries are required to succeed since they also prove the store is
// reachable; the operator and trader summaries are best effort.
func (s *Service) bootstrap(ctx context.Context) error {
	activityCounts := make(map[string]int64, len(s.cfg.Monitor.TrackedAddresses))
	positionCounts := make(map[string]int64, len(s.cfg.Monitor.TrackedAddresses))
	for _, address := range s.cfg.Monitor.TrackedAddresses {
		activities, err := s.db.CountActivities(ctx, address)
		if err != nil {
			return fmt.Errorf("failed to count activities for %s: %w", utils.RedactAddress(address), err)
		}
		positions, err := s.db.CountPositions(ctx, address)
		if err != nil {
			return fmt.Errorf("failed to count positions for %s: %w", utils.RedactAddress(address), err)
		}
		activityCounts[address] = activities
		positionCounts[address] = positions
	}
	s.reporter.StartupSummary(s.cfg.Monitor.TrackedAddresses, activityCounts, positionCounts)

	s.reportOperator(ctx)
	s.reportTraders(ctx)

	return nil
}

// reportOperator summarizes the operator wallet's live positions and USDC
// balance. Failures degrade to zero values so a flaky data API or RPC
// endpoint cannot block startup.
func (s *Service) reportOperator(ctx context.Context) {
	log := log.Ctx(ctx)
	wallet := s.cfg.Monitor.OperatorWallet
	if wallet == "" {
		return
	}

	var summary PositionSummary
	positions, err := s.data.GetPositions(ctx, wallet)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch operator positions")
	} else {
		docs := make([]model.PositionDocument, len(positions))
		for i := range positions {
			docs[i] = *model.FromPositionSnapshot(&positions[i])
		}
		summary = SummarizePositions(docs, s.cfg.Monitor.TopPositionsOperator)
	}

	balance, err := s.chain.GetUSDCBalance(ctx, wallet)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch operator USDC balance")
		balance = 0
	}

	s.reporter.OperatorSummary(wallet, summary, balance)
}

// reportTraders summarizes each tracked trader from the stored snapshots.
func (s *Service) reportTraders(ctx context.Context) {
	log := log.Ctx(ctx)
	for _, address := range s.cfg.Monitor.TrackedAddresses {
		positions, err := s.db.GetPositions(ctx, address)
		if err != nil {
			log.Warn().Err(err).
				Str("address", utils.RedactAddress(address)).
				Msg("Failed to load stored positions")
			continue
		}
		s.reporter.TraderSummary(address, SummarizePositions(positions, s.cfg.Monitor.TopPositionsTrader))
	}
}

// suppressBackfill runs once per deployment. On the first ever run the
// historical activity already sitting in the store is bulk-marked as
// processed so the monitor never acts on pre-existing records; a
// persisted checkpoint makes every later run a no-op.
func (s *Service) suppressBackfill(ctx context.Context) error {
	log := log.Ctx(ctx)

	completed, err := s.db.GetBackfillCompleted(ctx)
	if err != nil {
		return fmt.Errorf("failed to read backfill checkpoint: %w", err)
	}
	if completed {
		log.Debug().Msg("Backfill suppression already completed")
		return nil
	}

	for _, address := range s.cfg.Monitor.TrackedAddresses {
		marked, err := s.db.MarkActivitiesProcessed(ctx, address)
		if err != nil {
			return fmt.Errorf(
				"failed to suppress backfill for %s: %w", utils.RedactAddress(address), err,
			)
		}
		if marked > 0 {
			log.Info().
				Str("address", utils.RedactAddress(address)).
				Int64("marked", marked).
				Msg("Suppressed historical activity backfill")
		}
	}

	if err := s.db.SetBackfillCompleted(ctx); err != nil {
		return fmt.Errorf("failed to persist backfill checkpoint: %w", err)
	}

	return nil
}
