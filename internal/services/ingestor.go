package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/polycopy/trade-monitor/internal/db"
	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/internal/observability/metrics"
	"github.com/polycopy/trade-monitor/internal/types"
	"github.com/polycopy/trade-monitor/internal/utils"
)

// ProcessTradeActivity ingests one live trade event. Events for untracked
// addresses are dropped silently, stale events are dropped with a counter,
// and already-seen transaction hashes are skipped. The unique index on
// transaction_hash is the final authority; a duplicate key error from the
// insert is treated as an ordinary skip, not a failure.
func (s *Service) ProcessTradeActivity(
	ctx context.Context, activity *types.TradeActivity, address string,
) {
	log := log.Ctx(ctx)

	if !s.tracked[address] {
		return
	}

	if age := activity.Age(time.Now()); age > s.cfg.Monitor.MaxActivityAge {
		metrics.IncStaleActivities()
		log.Debug().
			Str("tx_hash", activity.TransactionHash).
			Dur("age", age).
			Msg("Skipping stale activity")
		return
	}

	exists, err := s.db.HasActivity(ctx, address, activity.TransactionHash)
	if err != nil {
		log.Error().Err(err).
			Str("address", utils.RedactAddress(address)).
			Str("tx_hash", activity.TransactionHash).
			Msg("Failed to check for existing activity")
		return
	}
	if exists {
		metrics.IncDuplicateActivities()
		return
	}

	if err := s.db.SaveNewActivity(ctx, address, model.FromTradeActivity(activity)); err != nil {
		if db.IsDuplicateKeyError(err) {
			metrics.IncDuplicateActivities()
			return
		}
		log.Error().Err(err).
			Str("address", utils.RedactAddress(address)).
			Str("tx_hash", activity.TransactionHash).
			Msg("Failed to save activity")
		return
	}

	metrics.IncActivitiesStored()
	log.Info().
		Str("address", utils.RedactAddress(address)).
		Str("side", activity.Side).
		Str("outcome", activity.Outcome).
		Str("title", activity.Title).
		Float64("usdc_size", activity.USDCSize()).
		Str("tx_hash", activity.TransactionHash).
		Msg("New trade detected")
}
