package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/defipilot/sui-agent/aftermath"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// SUIIconURL replaces missing icon metadata on SUI variants. The on-chain
// metadata object for SUI ships without an icon.
const SUIIconURL = "https://raw.githubusercontent.com/MystenLabs/sui/main/apps/icons/sui.svg"

// SwapCoinMetadata pairs the in and out coin display metadata for a swap.
type SwapCoinMetadata struct {
	CoinIn  *sui.CoinMetadata `json:"coinIn"`
	CoinOut *sui.CoinMetadata `json:"coinOut"`
}

// SwapResult is the swap tool output: a quoted route and, when building
// succeeded, the unsigned transaction for wallet approval.
type SwapResult struct {
	TxBytes      []byte            `json:"transactionBytes,omitempty"`
	Route        *aftermath.Route  `json:"route"`
	CoinMetadata *SwapCoinMetadata `json:"coinMetadata"`
}

// patchSUIIcon fills in the icon for SUI variants, copying the metadata
// first so the shared cache entry stays untouched.
func patchSUIIcon(meta *sui.CoinMetadata, coinType string) *sui.CoinMetadata {
	if meta == nil || !sui.IsSUI(coinType) {
		return meta
	}
	patched := *meta
	patched.IconURL = SUIIconURL
	return &patched
}

// NewSwapTool builds the swap tool: quote a route through the DEX and build
// the unsigned swap transaction.
func NewSwapTool(chain ChainReader, oracle Oracle) core.Tool {
	return New("swap").
		Description("Swap coins using the DEX on Sui. Provide the coin types and amount to swap in base units. Returns the trade route and an unsigned transaction for wallet approval.").
		Schema(ObjectSchema(map[string]interface{}{
			"coinInType":  StringProperty(`Input coin type (e.g. "0x2::sui::SUI")`),
			"coinOutType": StringProperty("Output coin type"),
			"amount":      StringProperty("Amount to swap in base units"),
			"slippage":    NumberProperty("Slippage tolerance (e.g. 0.01 for 1%)"),
			"address":     StringProperty("Sui wallet address of the user. Defaults to the connected wallet."),
		}, "coinInType", "coinOutType", "amount", "slippage")).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				CoinInType  string      `json:"coinInType"`
				CoinOutType string      `json:"coinOutType"`
				Amount      json.Number `json:"amount"`
				Slippage    float64     `json:"slippage"`
				Address     string      `json:"address"`
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

			coinInMeta, err := chain.CoinMetadata(ctx, args.CoinInType)
			if err != nil {
				log.Printf("[SWAP] coin in metadata: %v", err)
			}
			coinOutMeta, err := chain.CoinMetadata(ctx, args.CoinOutType)
			if err != nil {
				log.Printf("[SWAP] coin out metadata: %v", err)
			}
			metadata := &SwapCoinMetadata{
				CoinIn:  patchSUIIcon(coinInMeta, args.CoinInType),
				CoinOut: patchSUIIcon(coinOutMeta, args.CoinOutType),
			}

			route, err := oracle.TradeRoute(ctx, args.CoinInType, args.CoinOutType, amount)
			if err != nil {
				log.Printf("[SWAP] no route %s -> %s: %v", args.CoinInType, args.CoinOutType, err)
				return core.Fail(core.ErrNoRouteFound), nil
			}

			txBytes, err := oracle.RouteTransaction(ctx, route, address, args.Slippage)
			if err != nil {
				// The quote survives a failed build so the caller can
				// still show what the trade would have been.
				log.Printf("[SWAP] transaction build failed: %v", err)
				return core.FailData(err.Error(), SwapResult{
					Route:        route,
					CoinMetadata: metadata,
				}), nil
			}

			return core.Ok(SwapResult{
				TxBytes:      txBytes,
				Route:        route,
				CoinMetadata: metadata,
			}), nil
		}).
		Build()
}
