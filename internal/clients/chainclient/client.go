package chainclient

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/polycopy/trade-monitor/internal/config"
)

const usdcDecimals = 6

const defaultCallTimeout = 10 * time.Second

// ERC-20 balanceOf(address) function selector.
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

type Client struct {
	eth  *ethclient.Client
	usdc common.Address
}

func NewClient(cfg *config.ChainConfig) (*Client, error) {
	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain rpc: %w", err)
	}

	return &Client{
		eth:  eth,
		usdc: common.HexToAddress(cfg.USDCContract),
	}, nil
}

// GetUSDCBalance reads the wallet's USDC balance via eth_call against the
// token contract, converted to whole USDC.
func (c *Client) GetUSDCBalance(ctx context.Context, wallet string) (float64, error) {
	if !common.IsHexAddress(wallet) {
		return 0, fmt.Errorf("invalid wallet address: %s", wallet)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	calldata := make([]byte, 0, 36)
	calldata = append(calldata, balanceOfSelector...)
	calldata = append(calldata, common.LeftPadBytes(common.HexToAddress(wallet).Bytes(), 32)...)

	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.usdc,
		Data: calldata,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("balanceOf call failed: %w", err)
	}

	raw := new(big.Int).SetBytes(out)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(usdcDecimals), nil)
	balance, _ := new(big.Float).Quo(
		new(big.Float).SetInt(raw),
		new(big.Float).SetInt(divisor),
	).Float64()

	return balance, nil
}
