package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// SendSUIResult is the sendSui tool output: an unsigned transfer for the
// wallet to approve.
type SendSUIResult struct {
	TxBytes   []byte  `json:"txBytes"`
	Recipient string  `json:"recipient"`
	Amount    string  `json:"amount"`
	SUIAmount float64 `json:"suiAmount"`
}

// NewSendSUITool builds the sendSui tool: a plain SUI transfer. The
// transaction is returned for client-side signing, never submitted here.
func NewSendSUITool(chain ChainReader) core.Tool {
	return New("sendSui").
		Description("Send SUI tokens to another address on the Sui blockchain. The amount is specified in MIST units (1 SUI = 1,000,000,000 MIST). Returns an unsigned transaction for wallet approval.").
		Schema(ObjectSchema(map[string]interface{}{
			"to":     StringProperty("The recipient Sui address to send tokens to"),
			"amount": StringProperty("The amount to send in MIST units"),
		}, "to", "amount")).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				To     string      `json:"to"`
				Amount json.Number `json:"amount"`
			}
			if err := json.Unmarshal(params.Input, &args); err != nil {
				return nil, err
			}
			if params.Address == "" {
				return core.Fail(core.ErrWalletRequired), nil
			}
			if args.To == "" {
				return nil, fmt.Errorf("missing recipient address")
			}
			amount, err := sui.ParseBaseUnits(args.Amount.String())
			if err != nil {
				return nil, fmt.Errorf("invalid amount: %w", err)
			}

			balance, err := chain.Balance(ctx, params.Address, sui.SUIType)
			if err != nil {
				return nil, err
			}
			if balance.Cmp(amount) < 0 {
				return core.Fail(core.ErrInsufficientBalance), nil
			}

			txBytes, err := chain.TransferSUITransaction(ctx, params.Address, args.To, amount)
			if err != nil {
				return nil, err
			}

			return core.Ok(SendSUIResult{
				TxBytes:   txBytes,
				Recipient: args.To,
				Amount:    amount.String(),
				SUIAmount: sui.Normalize(amount, sui.SUIDecimals),
			}), nil
		}).
		Build()
}
