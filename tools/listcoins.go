package tools

import (
	"context"

	"github.com/defipilot/sui-agent/core"
)

// NewListCoinsTool builds the listCoins tool: the DEX's supported coin
// catalog with display metadata.
func NewListCoinsTool(oracle Oracle) core.Tool {
	return New("listCoins").
		Description("Get a list of all supported coins that can be traded through the DEX.").
		Schema(ObjectSchema(map[string]interface{}{})).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			coins, err := oracle.SupportedCoins(ctx)
			if err != nil {
				return nil, err
			}
			if len(coins) == 0 {
				return core.Fail(core.ErrNoCoinsFound), nil
			}
			return core.Ok(map[string]interface{}{"coins": coins}), nil
		}).
		Build()
}
