package tools

import (
	"context"
	"encoding/json"

	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// PriceEntry is one resolved coin price.
type PriceEntry struct {
	CoinType string  `json:"coinType"`
	Price    float64 `json:"price"`
}

// PricesResult is the getPrices tool output. Coins without a resolvable
// price are omitted.
type PricesResult struct {
	Prices []PriceEntry `json:"prices"`
}

// NewPricesTool builds the getPrices tool: spot USD prices for the given
// coin types.
func NewPricesTool(oracle Oracle) core.Tool {
	return New("getPrices").
		Description("Get current USD prices for one or more coin types. Coins with no known price are omitted from the result.").
		Schema(ObjectSchema(map[string]interface{}{
			"coins": ArrayProperty("Coin types to price", StringProperty("A coin type")),
		}, "coins")).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Coins []string `json:"coins"`
			}
			if err := json.Unmarshal(params.Input, &args); err != nil {
				return nil, err
			}
			if len(args.Coins) == 0 {
				return core.Fail(core.ErrNoCoinsFound), nil
			}

			prices, err := oracle.Prices(ctx, args.Coins)
			if err != nil {
				return nil, err
			}

			result := PricesResult{Prices: make([]PriceEntry, 0, len(args.Coins))}
			for _, coinType := range args.Coins {
				price, ok := prices[coinType]
				if !ok && sui.IsSUI(coinType) {
					price, ok = prices[sui.SUIType]
				}
				if !ok {
					continue
				}
				result.Prices = append(result.Prices, PriceEntry{CoinType: coinType, Price: price})
			}
			return core.Ok(result), nil
		}).
		Build()
}
