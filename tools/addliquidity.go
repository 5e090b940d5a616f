package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"

	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// MissingToken identifies a token the user lacks for a deposit.
type MissingToken struct {
	CoinType string `json:"coinType"`
	Symbol   string `json:"symbol"`
}

// InsufficientBalanceData accompanies an INSUFFICIENT_BALANCE failure so the
// caller can show exactly which tokens are short.
type InsufficientBalanceData struct {
	MissingTokens []MissingToken `json:"missingTokens"`
	Message       string         `json:"message"`
}

// PendingTransaction is one unsigned transaction awaiting wallet approval.
type PendingTransaction struct {
	TransactionBytes []byte `json:"transactionBytes"`
	Description      string `json:"description"`
}

// LiquidityTransactions groups the deposit and stake steps of an add
// liquidity flow. Either may be nil depending on mode.
type LiquidityTransactions struct {
	Deposit *PendingTransaction `json:"deposit"`
	Stake   *PendingTransaction `json:"stake"`
}

// PoolInfo summarizes the pool a deposit targets.
type PoolInfo struct {
	PoolID            string `json:"poolId"`
	PoolName          string `json:"poolName"`
	LPCoinType        string `json:"lpCoinType"`
	EstimatedLPTokens string `json:"estimatedLpTokens"`
}

// DepositInfo is one deposited token with display metadata.
type DepositInfo struct {
	CoinType string `json:"coinType"`
	Amount   string `json:"amount"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// FarmInfo summarizes the staking leg of an add liquidity flow.
type FarmInfo struct {
	FarmID           string `json:"farmId"`
	LockDurationDays int    `json:"lockDurationDays"`
	LPAmountToStake  string `json:"lpAmountToStake"`
	LPCoinType       string `json:"lpCoinType"`
}

// AddLiquidityResult is the addLiquidity tool output.
type AddLiquidityResult struct {
	Transactions LiquidityTransactions `json:"transactions"`
	PoolInfo     *PoolInfo             `json:"poolInfo,omitempty"`
	DepositsInfo []DepositInfo         `json:"depositsInfo,omitempty"`
	FarmInfo     *FarmInfo             `json:"farmInfo,omitempty"`
}

// NewAddLiquidityTool builds the addLiquidity tool: deposit into a pool,
// stake LP tokens in a farm, or both in one flow.
func NewAddLiquidityTool(chain ChainReader, oracle Oracle) core.Tool {
	return New("addLiquidity").
		Description("Add liquidity to a pool and/or stake LP tokens in a farm. Mode 'deposit' builds a pool deposit, 'stake' builds a farm stake of existing LP tokens, 'both' chains deposit then stake. Returns unsigned transactions for wallet approval.").
		Schema(ObjectSchema(map[string]interface{}{
			"poolId":           StringProperty("The pool object ID to add liquidity to"),
			"amountsIn":        map[string]interface{}{"type": "object", "description": "Map of coin types to base-unit amounts to deposit (required for deposit mode)"},
			"farmId":           StringProperty("Farm ID to stake LP tokens in"),
			"lockDurationDays": IntegerProperty("Lock duration in days for farming"),
			"slippage":         NumberProperty("Slippage tolerance (0.01 = 1%)"),
			"walletAddress":    StringProperty("User's wallet address. Defaults to the connected wallet."),
			"mode":             StringEnumProperty("Mode: 'deposit' for liquidity only, 'stake' for farming only, 'both' for deposit then stake", "deposit", "stake", "both"),
			"lpAmount":         StringProperty("Amount of LP tokens to stake (required for stake-only mode)"),
			"lpCoinType":       StringProperty("LP coin type to stake (required for stake-only mode)"),
		}, "poolId")).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				PoolID           string            `json:"poolId"`
				AmountsIn        map[string]string `json:"amountsIn"`
				FarmID           string            `json:"farmId"`
				LockDurationDays *int              `json:"lockDurationDays"`
				Slippage         float64           `json:"slippage"`
				WalletAddress    string            `json:"walletAddress"`
				Mode             string            `json:"mode"`
				LPAmount         string            `json:"lpAmount"`
				LPCoinType       string            `json:"lpCoinType"`
			}
			if err := json.Unmarshal(params.Input, &args); err != nil {
				return nil, err
			}
			address := args.WalletAddress
			if address == "" {
				address = params.Address
			}
			if address == "" {
				return core.Fail(core.ErrWalletRequired), nil
			}
			if args.Mode == "" {
				args.Mode = "deposit"
			}
			if args.Slippage <= 0 {
				args.Slippage = 0.01
			}

			result := AddLiquidityResult{}
			var lpEstimate *big.Int
			var lpCoinType string

			if args.Mode == "deposit" || args.Mode == "both" {
				if len(args.AmountsIn) == 0 {
					return nil, fmt.Errorf("amountsIn is required for deposit mode")
				}

				pool, err := oracle.Pool(ctx, args.PoolID)
				if err != nil {
					log.Printf("[LIQUIDITY] pool %s: %v", args.PoolID, err)
					return core.Fail(core.ErrPoolNotFound), nil
				}

				balances, err := chain.AllBalances(ctx, address)
				if err != nil {
					return nil, err
				}
				userBalances := map[string]*big.Int{}
				for _, b := range balances {
					raw, err := sui.ParseBaseUnits(b.TotalBalance)
					if err != nil {
						continue
					}
					userBalances[b.CoinType] = raw
					userBalances[sui.NormalizeCoinType(b.CoinType)] = raw
				}

				var missing []MissingToken
				amounts := map[string]*big.Int{}
				for coinType, amountStr := range args.AmountsIn {
					amount, err := sui.ParseBaseUnits(amountStr)
					if err != nil {
						return nil, fmt.Errorf("invalid amount for %s: %w", coinType, err)
					}
					amounts[coinType] = amount

					held, ok := userBalances[sui.NormalizeCoinType(coinType)]
					if !ok {
						held = userBalances[coinType]
					}
					if held == nil || held.Cmp(amount) < 0 {
						symbol := sui.Symbol(coinType)
						if meta, err := chain.CoinMetadata(ctx, coinType); err == nil && meta != nil && meta.Symbol != "" {
							symbol = meta.Symbol
						}
						missing = append(missing, MissingToken{CoinType: coinType, Symbol: symbol})
					}
				}
				if len(missing) > 0 {
					message := "You need more "
					for i, m := range missing {
						if i > 0 {
							message += ", "
						}
						message += m.Symbol
					}
					message += " to add liquidity."
					return core.FailData(core.ErrInsufficientBalance, InsufficientBalanceData{
						MissingTokens: missing,
						Message:       message,
					}), nil
				}

				// User coin types and pool coin types may differ in
				// address padding; match on the trailing segment.
				poolAmounts := map[string]*big.Int{}
				for userType, amount := range amounts {
					matched := ""
					for poolType := range pool.Coins {
						if sui.SameCoin(userType, poolType) {
							matched = poolType
							break
						}
					}
					if matched == "" {
						return nil, fmt.Errorf("token %s not found in pool", userType)
					}
					poolAmounts[matched] = amount
				}

				lpEstimate, err = oracle.DepositEstimate(ctx, args.PoolID, poolAmounts)
				if err != nil {
					log.Printf("[LIQUIDITY] lp estimate failed: %v", err)
					lpEstimate = nil
				}

				depositBytes, err := oracle.DepositTransaction(ctx, args.PoolID, address, poolAmounts, args.Slippage)
				if err != nil {
					return nil, err
				}
				result.Transactions.Deposit = &PendingTransaction{
					TransactionBytes: depositBytes,
					Description:      "Add liquidity to pool",
				}

				lpCoinType = pool.LPCoinType
				estimated := "0"
				if lpEstimate != nil {
					estimated = lpEstimate.String()
				}
				result.PoolInfo = &PoolInfo{
					PoolID:            pool.ObjectID,
					PoolName:          pool.Name,
					LPCoinType:        pool.LPCoinType,
					EstimatedLPTokens: estimated,
				}

				for coinType, amount := range amounts {
					info := DepositInfo{
						CoinType: coinType,
						Amount:   amount.String(),
						Symbol:   sui.Symbol(coinType),
						Decimals: sui.SUIDecimals,
					}
					if meta, err := chain.CoinMetadata(ctx, coinType); err == nil && meta != nil {
						if meta.Symbol != "" {
							info.Symbol = meta.Symbol
						}
						if meta.Decimals > 0 {
							info.Decimals = meta.Decimals
						}
					}
					result.DepositsInfo = append(result.DepositsInfo, info)
				}
			}

			if (args.Mode == "stake" || args.Mode == "both") && args.FarmID != "" && args.LockDurationDays != nil {
				var stakeAmount *big.Int
				stakeLPType := lpCoinType

				if args.Mode == "stake" {
					if args.LPAmount == "" || args.LPCoinType == "" {
						return nil, fmt.Errorf("lpAmount and lpCoinType are required for stake-only mode")
					}
					amount, err := sui.ParseBaseUnits(args.LPAmount)
					if err != nil {
						return nil, fmt.Errorf("invalid lpAmount: %w", err)
					}
					stakeAmount = amount
					stakeLPType = args.LPCoinType
				} else {
					// Chained stake uses the LP estimate, not the sum of
					// deposit inputs.
					if lpEstimate == nil || lpEstimate.Sign() == 0 {
						return nil, fmt.Errorf("could not estimate LP amount for staking")
					}
					stakeAmount = lpEstimate
				}

				if _, err := oracle.Farm(ctx, args.FarmID); err != nil {
					log.Printf("[LIQUIDITY] farm %s: %v", args.FarmID, err)
					return core.Fail(core.ErrFarmNotFound), nil
				}

				lockDurationMs := int64(*args.LockDurationDays) * 86_400_000
				stakeBytes, err := oracle.StakeTransaction(ctx, args.FarmID, address, stakeAmount, lockDurationMs)
				if err != nil {
					return nil, err
				}
				result.Transactions.Stake = &PendingTransaction{
					TransactionBytes: stakeBytes,
					Description:      "Stake LP tokens in farm",
				}
				result.FarmInfo = &FarmInfo{
					FarmID:           args.FarmID,
					LockDurationDays: *args.LockDurationDays,
					LPAmountToStake:  stakeAmount.String(),
					LPCoinType:       stakeLPType,
				}
			}

			return core.Ok(result), nil
		}).
		Build()
}
