package tools_test

import (
	"context"
	"fmt"
	"math/big"

	"github.com/defipilot/sui-agent/aftermath"
	"github.com/defipilot/sui-agent/sui"
)

func bigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int literal: " + s)
	}
	return n
}

// fakeChain is an in-memory ChainReader.
type fakeChain struct {
	balances map[string][]sui.CoinBalance
	metadata map[string]*sui.CoinMetadata
	coins    map[string][]sui.Coin

	transferBytes []byte
	transferErr   error
}

func (f *fakeChain) AllBalances(_ context.Context, address string) ([]sui.CoinBalance, error) {
	return f.balances[address], nil
}

func (f *fakeChain) Balance(_ context.Context, address, coinType string) (*big.Int, error) {
	for _, b := range f.balances[address] {
		if b.CoinType == coinType {
			return sui.ParseBaseUnits(b.TotalBalance)
		}
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) CoinMetadata(_ context.Context, coinType string) (*sui.CoinMetadata, error) {
	if meta, ok := f.metadata[coinType]; ok {
		return meta, nil
	}
	return nil, fmt.Errorf("no metadata for %s", coinType)
}

func (f *fakeChain) Coins(_ context.Context, _, coinType string, _ int) ([]sui.Coin, error) {
	return f.coins[coinType], nil
}

func (f *fakeChain) TransferSUITransaction(_ context.Context, _, _ string, _ *big.Int) ([]byte, error) {
	return f.transferBytes, f.transferErr
}

// fakeOracle is an in-memory Oracle that records transaction requests.
type fakeOracle struct {
	supported []aftermath.CoinInfo
	prices    map[string]float64
	pricesErr error
	decimals  map[string]int

	route    *aftermath.Route
	routeErr error

	routeTxBytes []byte
	routeTxErr   error

	pools     map[string]*aftermath.Pool
	poolStats []aftermath.PoolStats

	lpEstimate    *big.Int
	lpEstimateErr error

	depositBytes []byte
	depositErr   error

	farms    []aftermath.Farm
	farmByID map[string]*aftermath.Farm

	stakeBytes    []byte
	stakeErr      error
	gotStakeAmt   *big.Int
	gotLockMs     int64
	positions     []aftermath.StakedPosition
}

func (f *fakeOracle) SupportedCoins(_ context.Context) ([]aftermath.CoinInfo, error) {
	return f.supported, nil
}

func (f *fakeOracle) Prices(_ context.Context, _ []string) (map[string]float64, error) {
	if f.pricesErr != nil {
		return nil, f.pricesErr
	}
	return f.prices, nil
}

func (f *fakeOracle) Decimals(_ context.Context, coinTypes []string) (map[string]int, error) {
	if f.decimals != nil {
		return f.decimals, nil
	}
	decimals := make(map[string]int, len(coinTypes))
	for _, ct := range coinTypes {
		decimals[ct] = 9
	}
	return decimals, nil
}

func (f *fakeOracle) TradeRoute(_ context.Context, _, _ string, _ *big.Int) (*aftermath.Route, error) {
	return f.route, f.routeErr
}

func (f *fakeOracle) RouteTransaction(_ context.Context, _ *aftermath.Route, _ string, _ float64) ([]byte, error) {
	return f.routeTxBytes, f.routeTxErr
}

func (f *fakeOracle) Pool(_ context.Context, poolID string) (*aftermath.Pool, error) {
	if pool, ok := f.pools[poolID]; ok {
		return pool, nil
	}
	return nil, fmt.Errorf("pool %s not found", poolID)
}

func (f *fakeOracle) PoolStats(_ context.Context, _ []string) ([]aftermath.PoolStats, error) {
	return f.poolStats, nil
}

func (f *fakeOracle) DepositEstimate(_ context.Context, _ string, _ map[string]*big.Int) (*big.Int, error) {
	return f.lpEstimate, f.lpEstimateErr
}

func (f *fakeOracle) DepositTransaction(_ context.Context, _, _ string, _ map[string]*big.Int, _ float64) ([]byte, error) {
	return f.depositBytes, f.depositErr
}

func (f *fakeOracle) Farms(_ context.Context) ([]aftermath.Farm, error) {
	return f.farms, nil
}

func (f *fakeOracle) Farm(_ context.Context, farmID string) (*aftermath.Farm, error) {
	if farm, ok := f.farmByID[farmID]; ok {
		return farm, nil
	}
	return nil, fmt.Errorf("farm %s not found", farmID)
}

func (f *fakeOracle) StakeTransaction(_ context.Context, _, _ string, amount *big.Int, lockDurationMs int64) ([]byte, error) {
	f.gotStakeAmt = amount
	f.gotLockMs = lockDurationMs
	return f.stakeBytes, f.stakeErr
}

func (f *fakeOracle) StakedPositions(_ context.Context, _ string) ([]aftermath.StakedPosition, error) {
	return f.positions, nil
}

// fakeStaker is an in-memory LiquidStaker that records redeem requests.
type fakeStaker struct {
	mintBytes []byte
	mintErr   error

	redeemBytes   []byte
	redeemErr     error
	gotRedeemIDs  []string
	gotRedeemAmt  *big.Int
}

func (f *fakeStaker) MintTransaction(_ context.Context, _ string, _ *big.Int) ([]byte, error) {
	return f.mintBytes, f.mintErr
}

func (f *fakeStaker) RedeemTransaction(_ context.Context, _ string, coinObjectIDs []string, amount *big.Int) ([]byte, error) {
	f.gotRedeemIDs = coinObjectIDs
	f.gotRedeemAmt = amount
	return f.redeemBytes, f.redeemErr
}
