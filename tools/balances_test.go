package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/defipilot/sui-agent/aftermath"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
	"github.com/defipilot/sui-agent/tools"
)

const testAddress = "0x1111111111111111111111111111111111111111111111111111111111111111"

func execute(t *testing.T, tool core.Tool, address string, input string) *core.ToolResult {
	t.Helper()
	result, err := tool.Execute(context.Background(), &core.ToolParams{
		Address: address,
		Input:   json.RawMessage(input),
	})
	if err != nil {
		t.Fatalf("%s: %v", tool.Name(), err)
	}
	return result
}

func TestBalancesComputesUSDValues(t *testing.T) {
	chain := &fakeChain{
		balances: map[string][]sui.CoinBalance{
			testAddress: {
				{CoinType: sui.SUIType, CoinObjectCount: 2, TotalBalance: "5000000000"},
				{CoinType: "0xabc::usdc::USDC", CoinObjectCount: 1, TotalBalance: "3000000"},
			},
		},
	}
	oracle := &fakeOracle{
		prices:   map[string]float64{sui.SUIType: 2.0, "0xabc::usdc::USDC": 1.0},
		decimals: map[string]int{sui.SUIType: 9, "0xabc::usdc::USDC": 6},
	}

	result := execute(t, tools.NewBalancesTool(chain, oracle), testAddress, `{}`)
	if !result.Success {
		t.Fatalf("result not successful: %s", result.Error)
	}
	data := result.Data.(tools.BalancesResult)
	if len(data.Balances) != 2 {
		t.Fatalf("got %d balances, want 2", len(data.Balances))
	}
	if data.Balances[0].NormalizedBalance != 5.0 {
		t.Errorf("SUI normalized = %v, want 5", data.Balances[0].NormalizedBalance)
	}
	if data.Balances[0].USDValue == nil || *data.Balances[0].USDValue != 10.0 {
		t.Errorf("SUI usd value = %v, want 10", data.Balances[0].USDValue)
	}
	if data.TotalUSDValue != 13.0 {
		t.Errorf("total usd = %v, want 13", data.TotalUSDValue)
	}
}

func TestBalancesUnpricedCoinHasNoUSDValue(t *testing.T) {
	chain := &fakeChain{
		balances: map[string][]sui.CoinBalance{
			testAddress: {
				{CoinType: "0xdead::meme::MEME", TotalBalance: "1000000000"},
			},
		},
	}
	oracle := &fakeOracle{prices: map[string]float64{}}

	result := execute(t, tools.NewBalancesTool(chain, oracle), testAddress, `{}`)
	data := result.Data.(tools.BalancesResult)
	if data.Balances[0].USDValue != nil {
		t.Errorf("unpriced coin should have nil usdValue, got %v", *data.Balances[0].USDValue)
	}
	if data.TotalUSDValue != 0 {
		t.Errorf("total usd = %v, want 0", data.TotalUSDValue)
	}
}

func TestBalancesSUIVariantFallsBackToCanonicalPrice(t *testing.T) {
	longSUI := "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"
	chain := &fakeChain{
		balances: map[string][]sui.CoinBalance{
			testAddress: {{CoinType: longSUI, TotalBalance: "2000000000"}},
		},
	}
	oracle := &fakeOracle{
		prices: map[string]float64{sui.SUIType: 3.0},
	}

	result := execute(t, tools.NewBalancesTool(chain, oracle), testAddress, `{}`)
	data := result.Data.(tools.BalancesResult)
	if data.Balances[0].USDValue == nil || *data.Balances[0].USDValue != 6.0 {
		t.Errorf("variant SUI usd value = %v, want 6", data.Balances[0].USDValue)
	}
}

func TestBalancesPriceOutageDegrades(t *testing.T) {
	chain := &fakeChain{
		balances: map[string][]sui.CoinBalance{
			testAddress: {{CoinType: sui.SUIType, TotalBalance: "1000000000"}},
		},
	}
	oracle := &fakeOracle{pricesErr: errors.New("price service down")}

	result := execute(t, tools.NewBalancesTool(chain, oracle), testAddress, `{}`)
	if !result.Success {
		t.Fatalf("price outage must not fail the balance lookup: %s", result.Error)
	}
	data := result.Data.(tools.BalancesResult)
	if data.Balances[0].USDValue != nil {
		t.Errorf("usd value should be absent during a price outage")
	}
}

func TestBalancesRequiresAddress(t *testing.T) {
	result := execute(t, tools.NewBalancesTool(&fakeChain{}, &fakeOracle{}), "", `{}`)
	if result.Success || result.Error != core.ErrWalletRequired {
		t.Errorf("result = %+v, want WALLET_REQUIRED failure", result)
	}
}

func TestBalancesFoldsStakedPositionsIntoTotal(t *testing.T) {
	afSUI := "0xf3::afsui::AFSUI"
	chain := &fakeChain{
		balances: map[string][]sui.CoinBalance{
			testAddress: {
				{CoinType: sui.SUIType, CoinObjectCount: 1, TotalBalance: "1000000000"},
			},
		},
	}
	oracle := &fakeOracle{
		prices:   map[string]float64{sui.SUIType: 2.0, afSUI: 2.5},
		decimals: map[string]int{sui.SUIType: 9, afSUI: 9},
		positions: []aftermath.StakedPosition{
			{Source: "liquid-staking", CoinType: afSUI, Amount: "2000000000"},
		},
	}

	result := execute(t, tools.NewBalancesTool(chain, oracle), testAddress, `{}`)
	if !result.Success {
		t.Fatalf("result not successful: %s", result.Error)
	}
	data := result.Data.(tools.BalancesResult)
	if len(data.StakedPositions) != 1 {
		t.Fatalf("got %d staked positions, want 1", len(data.StakedPositions))
	}
	pos := data.StakedPositions[0]
	if pos.NormalizedBalance != 2.0 {
		t.Errorf("staked normalized = %v, want 2", pos.NormalizedBalance)
	}
	if pos.USDValue == nil || *pos.USDValue != 5.0 {
		t.Errorf("staked usd = %v, want 5", pos.USDValue)
	}
	// 1 SUI at $2 plus 2 afSUI at $2.50.
	if data.TotalUSDValue != 7.0 {
		t.Errorf("total usd = %v, want 7", data.TotalUSDValue)
	}
}
