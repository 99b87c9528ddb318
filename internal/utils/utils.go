package utils

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RedactAddress shortens a wallet address for log output so that full
// addresses never end up in log aggregation. Keeps the first 6 and last 4
// characters, matching the form used across the reporting surface.
func RedactAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// ValidateAddress checks that the given string is a well-formed EVM
// address. Tracked addresses come straight from config, so this is the
// only place malformed ones can be rejected before collections are
// created for them.
func ValidateAddress(address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid EVM address: %s", address)
	}
	return nil
}
