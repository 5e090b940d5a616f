package tools

import (
	"context"
	"encoding/json"
	"log"

	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// BalanceEntry is one coin balance enriched with display fields.
type BalanceEntry struct {
	CoinType          string   `json:"coinType"`
	CoinObjectCount   int      `json:"coinObjectCount"`
	TotalBalance      string   `json:"totalBalance"`
	NormalizedBalance float64  `json:"normalizedBalance"`
	USDValue          *float64 `json:"usdValue,omitempty"`
}

// StakedEntry is one staked or farmed position held outside the wallet.
type StakedEntry struct {
	Source            string   `json:"source"`
	CoinType          string   `json:"coinType"`
	Amount            string   `json:"amount"`
	NormalizedBalance float64  `json:"normalizedBalance"`
	USDValue          *float64 `json:"usdValue,omitempty"`
}

// BalancesResult is the getAllBalances tool output. TotalUSDValue covers
// wallet balances and staked positions.
type BalancesResult struct {
	Balances        []BalanceEntry `json:"balances"`
	StakedPositions []StakedEntry  `json:"stakedPositions,omitempty"`
	TotalUSDValue   float64        `json:"totalUsdValue"`
}

// NewBalancesTool builds the getAllBalances tool: every coin held by an
// address, normalized per coin decimals, with best-effort USD values.
func NewBalancesTool(chain ChainReader, oracle Oracle) core.Tool {
	return New("getAllBalances").
		Description("Get all coin balances for a given address on the Sui blockchain, with USD values where prices are available.").
		Schema(ObjectSchema(map[string]interface{}{
			"address": StringProperty("The Sui address to get balances for. Defaults to the connected wallet."),
		})).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Address string `json:"address"`
			}
			if len(params.Input) > 0 {
				if err := json.Unmarshal(params.Input, &args); err != nil {
					return nil, err
				}
			}
			address := args.Address
			if address == "" {
				address = params.Address
			}
			if address == "" {
				return core.Fail(core.ErrWalletRequired), nil
			}

			balances, err := chain.AllBalances(ctx, address)
			if err != nil {
				return nil, err
			}

			// Staked positions are best effort, like prices: the wallet
			// view stays useful when the oracle is down.
			positions, err := oracle.StakedPositions(ctx, address)
			if err != nil {
				log.Printf("[BALANCES] staked position lookup failed: %v", err)
				positions = nil
			}

			coinTypes := make([]string, 0, len(balances)+len(positions)+1)
			hasCanonicalSUI := false
			hasSUIVariant := false
			for _, b := range balances {
				coinTypes = append(coinTypes, b.CoinType)
				if b.CoinType == sui.SUIType {
					hasCanonicalSUI = true
				} else if sui.IsSUI(b.CoinType) {
					hasSUIVariant = true
				}
			}
			for _, p := range positions {
				coinTypes = append(coinTypes, p.CoinType)
				if sui.IsSUI(p.CoinType) && p.CoinType != sui.SUIType {
					hasSUIVariant = true
				}
			}
			// Variant SUI types price against the canonical type.
			if hasSUIVariant && !hasCanonicalSUI {
				coinTypes = append(coinTypes, sui.SUIType)
			}

			decimals, err := oracle.Decimals(ctx, coinTypes)
			if err != nil {
				return nil, err
			}

			// Prices are best effort: a pricing outage degrades the
			// response, it never fails the balance lookup.
			prices, err := oracle.Prices(ctx, coinTypes)
			if err != nil {
				log.Printf("[BALANCES] price lookup failed: %v", err)
				prices = map[string]float64{}
			}

			result := BalancesResult{Balances: make([]BalanceEntry, 0, len(balances))}
			for _, b := range balances {
				dec, ok := decimals[b.CoinType]
				if !ok {
					dec = sui.SUIDecimals
				}
				raw, err := sui.ParseBaseUnits(b.TotalBalance)
				if err != nil {
					return nil, err
				}
				entry := BalanceEntry{
					CoinType:          b.CoinType,
					CoinObjectCount:   b.CoinObjectCount,
					TotalBalance:      b.TotalBalance,
					NormalizedBalance: sui.Normalize(raw, dec),
				}

				price, priced := prices[b.CoinType]
				if !priced && sui.IsSUI(b.CoinType) {
					price, priced = prices[sui.SUIType]
				}
				if priced {
					usd := entry.NormalizedBalance * price
					entry.USDValue = &usd
					result.TotalUSDValue += usd
				}
				result.Balances = append(result.Balances, entry)
			}

			for _, p := range positions {
				dec, ok := decimals[p.CoinType]
				if !ok {
					dec = sui.SUIDecimals
				}
				raw, err := sui.ParseBaseUnits(p.Amount)
				if err != nil {
					log.Printf("[BALANCES] bad staked amount %q: %v", p.Amount, err)
					continue
				}
				entry := StakedEntry{
					Source:            p.Source,
					CoinType:          p.CoinType,
					Amount:            p.Amount,
					NormalizedBalance: sui.Normalize(raw, dec),
				}
				price, priced := prices[p.CoinType]
				if !priced && sui.IsSUI(p.CoinType) {
					price, priced = prices[sui.SUIType]
				}
				if priced {
					usd := entry.NormalizedBalance * price
					entry.USDValue = &usd
					result.TotalUSDValue += usd
				}
				result.StakedPositions = append(result.StakedPositions, entry)
			}

			return core.Ok(result), nil
		}).
		Build()
}
