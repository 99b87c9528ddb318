package config

import (
	"fmt"

	"github.com/polycopy/trade-monitor/internal/utils"
)

// Polygon mainnet USDC (bridged), the collateral token on Polymarket.
const defaultUSDCContract = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"

type ChainConfig struct {
	// RPCURL is the Polygon JSON-RPC endpoint used for balance lookups.
	RPCURL string `mapstructure:"rpc-url"`
	// USDCContract overrides the USDC token contract address.
	USDCContract string `mapstructure:"usdc-contract"`
}

func (cfg *ChainConfig) Validate() error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("chain rpc-url is required")
	}
	if cfg.USDCContract == "" {
		cfg.USDCContract = defaultUSDCContract
	}
	if err := utils.ValidateAddress(cfg.USDCContract); err != nil {
		return fmt.Errorf("usdc-contract: %w", err)
	}

	return nil
}
