package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/polycopy/trade-monitor/internal/utils"
)

const (
	defaultMaxActivityAge       = 24 * time.Hour
	defaultTopPositionsOperator = 5
	defaultTopPositionsTrader   = 3
)

type MonitorConfig struct {
	// TrackedAddresses is the fixed set of trader wallets observed for the
	// process lifetime. At least one is required.
	TrackedAddresses []string `mapstructure:"tracked-addresses"`
	// MaxActivityAge discards feed events older than this on ingestion.
	MaxActivityAge time.Duration `mapstructure:"max-activity-age"`
	// PositionSyncInterval drives the periodic snapshot reconciliation.
	PositionSyncInterval time.Duration `mapstructure:"position-sync-interval"`
	// OperatorWallet is the operator's own proxy wallet, reported
	// best-effort at startup.
	OperatorWallet       string `mapstructure:"operator-wallet"`
	TopPositionsOperator int    `mapstructure:"top-positions-operator"`
	TopPositionsTrader   int    `mapstructure:"top-positions-trader"`
}

func (cfg *MonitorConfig) Validate() error {
	if len(cfg.TrackedAddresses) == 0 {
		return errors.New("at least one tracked address is required")
	}
	for _, addr := range cfg.TrackedAddresses {
		if err := utils.ValidateAddress(addr); err != nil {
			return fmt.Errorf("tracked address %q: %w", addr, err)
		}
	}

	if cfg.PositionSyncInterval <= 0 {
		return errors.New("position-sync-interval must be positive")
	}

	if cfg.MaxActivityAge < 0 {
		return errors.New("max-activity-age must not be negative")
	}
	if cfg.MaxActivityAge == 0 {
		cfg.MaxActivityAge = defaultMaxActivityAge
	}

	if cfg.TopPositionsOperator <= 0 {
		cfg.TopPositionsOperator = defaultTopPositionsOperator
	}
	if cfg.TopPositionsTrader <= 0 {
		cfg.TopPositionsTrader = defaultTopPositionsTrader
	}

	return nil
}
