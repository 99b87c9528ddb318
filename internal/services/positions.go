package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/polycopy/trade-monitor/internal/db/model"
	"github.com/polycopy/trade-monitor/internal/utils"
)

// SyncPositions refreshes the stored position snapshots for every tracked
// address. A failure for one address is logged and does not block the
// remaining addresses; the cycle reports the last error so the poller
// records it.
func (s *Service) SyncPositions(ctx context.Context) error {
	log := log.Ctx(ctx)

	var lastErr error
	for _, address := range s.cfg.Monitor.TrackedAddresses {
		if err := s.syncAddressPositions(ctx, address); err != nil {
			log.Error().Err(err).
				Str("address", utils.RedactAddress(address)).
				Msg("Failed to sync positions")
			lastErr = err
		}
	}

	return lastErr
}

// syncAddressPositions fetches the address's current positions from the
// data API and upserts each one keyed by (asset, condition id). Positions
// no longer returned by the API are left in place; the store is a
// last-known-snapshot record, not a mirror.
func (s *Service) syncAddressPositions(ctx context.Context, address string) error {
	positions, err := s.data.GetPositions(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to fetch positions: %w", err)
	}

	for i := range positions {
		if err := s.db.UpsertPosition(ctx, address, model.FromPositionSnapshot(&positions[i])); err != nil {
			return fmt.Errorf(
				"failed to upsert position for asset %s: %w", positions[i].Asset, err,
			)
		}
	}

	log.Ctx(ctx).Debug().
		Str("address", utils.RedactAddress(address)).
		Int("positions", len(positions)).
		Msg("Position snapshots synced")

	return nil
}
