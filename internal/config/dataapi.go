package config

import (
	"fmt"
)

type DataAPIConfig struct {
	// URL is the base address of the Polymarket data API used for position
	// snapshots.
	URL string `mapstructure:"url"`
}

func (cfg *DataAPIConfig) Validate() error {
	if cfg.URL == "" {
		return fmt.Errorf("data-api url is required")
	}

	return nil
}
