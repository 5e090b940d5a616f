package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"

	"github.com/defipilot/sui-agent/aftermath"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// TokenSide describes one side of a liquid staking conversion.
type TokenSide struct {
	Type     string            `json:"type"`
	Metadata *sui.CoinMetadata `json:"metadata,omitempty"`
	Amount   float64           `json:"amount"`
}

// LiquidStakingResult is the liquidStaking tool output.
type LiquidStakingResult struct {
	TxBytes  []byte    `json:"txBytes"`
	Action   string    `json:"action"`
	TokenIn  TokenSide `json:"tokenIn"`
	TokenOut TokenSide `json:"tokenOut"`
}

// NewLiquidStakingTool builds the liquidStaking tool: mint afSUI from SUI or
// redeem afSUI back to SUI.
func NewLiquidStakingTool(chain ChainReader, staker LiquidStaker) core.Tool {
	return New("liquidStaking").
		Description("Mint or redeem afSUI liquid staking tokens. Amounts are in MIST units (1 SUI = 1,000,000,000 MIST). Returns an unsigned transaction for wallet approval.").
		Schema(ObjectSchema(map[string]interface{}{
			"action":  StringEnumProperty("Whether to mint or redeem afSUI", "mint", "redeem"),
			"amount":  StringProperty("Amount in MIST units"),
			"address": StringProperty("The Sui address to perform the action on. Defaults to the connected wallet."),
		}, "action", "amount")).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Action  string      `json:"action"`
				Amount  json.Number `json:"amount"`
				Address string      `json:"address"`
			}
			if err := json.Unmarshal(params.Input, &args); err != nil {
				return nil, err
			}
			address := args.Address
			if address == "" {
				address = params.Address
			}
			if address == "" {
				return core.Fail(core.ErrWalletRequired), nil
			}
			amount, err := sui.ParseBaseUnits(args.Amount.String())
			if err != nil {
				return nil, fmt.Errorf("invalid amount: %w", err)
			}

			var tokenInType, tokenOutType string
			var txBytes []byte
			switch args.Action {
			case "mint":
				tokenInType, tokenOutType = sui.SUIType, aftermath.AfSUIType
				txBytes, err = staker.MintTransaction(ctx, address, amount)
				if err != nil {
					return nil, err
				}
			case "redeem":
				tokenInType, tokenOutType = aftermath.AfSUIType, sui.SUIType
				coins, err := chain.Coins(ctx, address, aftermath.AfSUIType, 1000)
				if err != nil {
					return nil, err
				}
				if len(coins) == 0 {
					return core.Fail(core.ErrNoCoinsFound), nil
				}

				// No single coin object has to cover the amount: the
				// builder merges every object before splitting.
				total := new(big.Int)
				objectIDs := make([]string, 0, len(coins))
				for _, coin := range coins {
					balance, err := sui.ParseBaseUnits(coin.Balance)
					if err != nil {
						return nil, fmt.Errorf("coin %s: %w", coin.CoinObjectID, err)
					}
					total.Add(total, balance)
					objectIDs = append(objectIDs, coin.CoinObjectID)
				}
				if total.Cmp(amount) < 0 {
					return core.Fail(core.ErrInsufficientBalance), nil
				}

				txBytes, err = staker.RedeemTransaction(ctx, address, objectIDs, amount)
				if err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("unknown action %q", args.Action)
			}

			tokenInMeta, err := chain.CoinMetadata(ctx, tokenInType)
			if err != nil {
				log.Printf("[STAKING] token in metadata: %v", err)
			}
			tokenOutMeta, err := chain.CoinMetadata(ctx, tokenOutType)
			if err != nil {
				log.Printf("[STAKING] token out metadata: %v", err)
			}

			inDecimals := sui.SUIDecimals
			if tokenInMeta != nil && tokenInMeta.Decimals > 0 {
				inDecimals = tokenInMeta.Decimals
			}
			tokenInAmount := sui.Normalize(amount, inDecimals)
			tokenOutAmount := tokenInAmount
			if args.Action == "mint" {
				// Display estimate of the current exchange rate.
				tokenOutAmount = tokenInAmount * aftermath.MintEstimateFactor
			}

			return core.Ok(LiquidStakingResult{
				TxBytes: txBytes,
				Action:  args.Action,
				TokenIn: TokenSide{
					Type:     tokenInType,
					Metadata: patchSUIIcon(tokenInMeta, tokenInType),
					Amount:   tokenInAmount,
				},
				TokenOut: TokenSide{
					Type:     tokenOutType,
					Metadata: patchSUIIcon(tokenOutMeta, tokenOutType),
					Amount:   tokenOutAmount,
				},
			}), nil
		}).
		Build()
}
