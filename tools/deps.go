package tools

import (
	"context"
	"math/big"

	"github.com/defipilot/sui-agent/aftermath"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// ChainReader is the subset of the Sui fullnode API the tools depend on.
// Implemented by sui.Client.
type ChainReader interface {
	AllBalances(ctx context.Context, address string) ([]sui.CoinBalance, error)
	Balance(ctx context.Context, address, coinType string) (*big.Int, error)
	CoinMetadata(ctx context.Context, coinType string) (*sui.CoinMetadata, error)
	Coins(ctx context.Context, address, coinType string, limit int) ([]sui.Coin, error)
	TransferSUITransaction(ctx context.Context, signer, recipient string, amount *big.Int) ([]byte, error)
}

// Oracle is the DEX surface the tools depend on. Implemented by
// aftermath.Client.
type Oracle interface {
	SupportedCoins(ctx context.Context) ([]aftermath.CoinInfo, error)
	Prices(ctx context.Context, coinTypes []string) (map[string]float64, error)
	Decimals(ctx context.Context, coinTypes []string) (map[string]int, error)
	TradeRoute(ctx context.Context, coinIn, coinOut string, amountIn *big.Int) (*aftermath.Route, error)
	RouteTransaction(ctx context.Context, route *aftermath.Route, walletAddress string, slippage float64) ([]byte, error)
	Pool(ctx context.Context, poolID string) (*aftermath.Pool, error)
	PoolStats(ctx context.Context, poolIDs []string) ([]aftermath.PoolStats, error)
	DepositEstimate(ctx context.Context, poolID string, amountsIn map[string]*big.Int) (*big.Int, error)
	DepositTransaction(ctx context.Context, poolID, walletAddress string, amountsIn map[string]*big.Int, slippage float64) ([]byte, error)
	Farms(ctx context.Context) ([]aftermath.Farm, error)
	Farm(ctx context.Context, farmID string) (*aftermath.Farm, error)
	StakeTransaction(ctx context.Context, farmID, walletAddress string, amount *big.Int, lockDurationMs int64) ([]byte, error)
	StakedPositions(ctx context.Context, address string) ([]aftermath.StakedPosition, error)
}

// LiquidStaker builds liquid staking transactions. Implemented by
// aftermath.Client.
type LiquidStaker interface {
	MintTransaction(ctx context.Context, walletAddress string, amount *big.Int) ([]byte, error)
	RedeemTransaction(ctx context.Context, walletAddress string, coinObjectIDs []string, amount *big.Int) ([]byte, error)
}

// Deps bundles the external services the tool set is built over.
type Deps struct {
	Chain  ChainReader
	Oracle Oracle
	Staker LiquidStaker
}

// All returns the full tool set wired to deps.
func All(deps Deps) []core.Tool {
	return []core.Tool{
		NewBalancesTool(deps.Chain, deps.Oracle),
		NewListCoinsTool(deps.Oracle),
		NewPricesTool(deps.Oracle),
		NewSendSUITool(deps.Chain),
		NewSwapTool(deps.Chain, deps.Oracle),
		NewLiquidStakingTool(deps.Chain, deps.Staker),
		NewAddLiquidityTool(deps.Chain, deps.Oracle),
		NewYieldTool(deps.Chain, deps.Oracle),
	}
}
