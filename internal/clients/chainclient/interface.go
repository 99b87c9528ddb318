package chainclient

import "context"

type ChainInterface interface {
	GetUSDCBalance(ctx context.Context, wallet string) (float64, error)
}
