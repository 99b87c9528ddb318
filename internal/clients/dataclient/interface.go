package dataclient

import (
	"context"

	"github.com/polycopy/trade-monitor/internal/types"
)

type DataInterface interface {
	GetPositions(ctx context.Context, address string) ([]types.PositionSnapshot, error)
}
