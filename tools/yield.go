package tools

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"math/big"
	"sort"

	"github.com/defipilot/sui-agent/aftermath"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
)

// defaultYieldLimit caps the opportunity list when the caller sets none.
const defaultYieldLimit = 5

// APRBreakdown splits a pool's yield into its fee and farming components.
type APRBreakdown struct {
	PoolFeeAPR      float64   `json:"poolFeeApr"`
	FarmingAPR      float64   `json:"farmingApr"`
	TotalAPR        float64   `json:"totalApr"`
	FarmingAPRRange *APRRange `json:"farmingAprRange,omitempty"`
}

// APRRange bounds the farming APR from unlocked to max lock boost.
type APRRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// YieldCoin is one pool asset annotated with the user's holdings.
type YieldCoin struct {
	CoinType    string  `json:"coinType"`
	Weight      float64 `json:"weight"`
	Symbol      string  `json:"symbol,omitempty"`
	Name        string  `json:"name,omitempty"`
	IconURL     string  `json:"iconUrl,omitempty"`
	UserBalance float64 `json:"userBalance"`
}

// LockDurationOption is one lock tier with its boosted APR.
type LockDurationOption struct {
	DurationDays int     `json:"durationDays"`
	Multiplier   float64 `json:"multiplier"`
	BoostedAPR   float64 `json:"boostedApr"`
}

// YieldFarm is the farm attached to a yield opportunity.
type YieldFarm struct {
	ObjectID            string               `json:"objectId"`
	RewardCoins         []CuratedCoin        `json:"rewardCoins"`
	LockDurationOptions []LockDurationOption `json:"lockDurationOptions,omitempty"`
}

// YieldOpportunity is one curated pool with its APR breakdown.
type YieldOpportunity struct {
	ObjectID           string               `json:"objectId"`
	Name               string               `json:"name"`
	LPCoinType         string               `json:"lpCoinType"`
	Coins              map[string]YieldCoin `json:"coins"`
	TVL                float64              `json:"tvl"`
	Volume24h          float64              `json:"volume24h"`
	APR                APRBreakdown         `json:"apr"`
	UserHoldsAllTokens bool                 `json:"userHoldsAllTokens"`
	Farm               *YieldFarm           `json:"farm,omitempty"`
}

// YieldSummary aggregates the returned opportunity set.
type YieldSummary struct {
	TotalOpportunities int     `json:"totalOpportunities"`
	UserEligiblePools  int     `json:"userEligiblePools"`
	AverageTotalAPR    float64 `json:"averageTotalApr"`
	TotalTVL           float64 `json:"totalTvl"`
}

// YieldResult is the getYieldOpportunities tool output.
type YieldResult struct {
	Opportunities []YieldOpportunity `json:"opportunities"`
	Summary       YieldSummary       `json:"summary"`
}

// NewYieldTool builds the getYieldOpportunities tool over the curated pool
// and farm list.
func NewYieldTool(chain ChainReader, oracle Oracle) core.Tool {
	return New("getYieldOpportunities").
		Description("Get curated liquidity pool and farming yield opportunities with a detailed APR breakdown.").
		Schema(ObjectSchema(map[string]interface{}{
			"address":        StringProperty("The Sui address to get recommendations for. Defaults to the connected wallet."),
			"sortBy":         StringEnumProperty("Criteria to sort opportunities by", "totalApr", "poolFeeApr", "farmingApr", "tvl", "volume24h"),
			"minTvl":         NumberProperty("Minimum TVL filter in USD"),
			"onlyUserTokens": BooleanProperty("Only show pools whose tokens the user already holds"),
			"limit":          IntegerProperty("Number of opportunities to return (default 5)"),
		})).
		Handler(func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Address        string  `json:"address"`
				SortBy         string  `json:"sortBy"`
				MinTVL         float64 `json:"minTvl"`
				OnlyUserTokens bool    `json:"onlyUserTokens"`
				Limit          int     `json:"limit"`
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

			userBalances := map[string]float64{}
			if address != "" {
				balances, err := chain.AllBalances(ctx, address)
				if err != nil {
					log.Printf("[YIELD] balance lookup failed: %v", err)
				}
				for _, b := range balances {
					raw, err := sui.ParseBaseUnits(b.TotalBalance)
					if err != nil {
						continue
					}
					value, _ := new(big.Float).SetInt(raw).Float64()
					userBalances[sui.NormalizeCoinType(b.CoinType)] = value
				}
			}

			poolIDs := make([]string, len(CuratedPairs))
			for i, pair := range CuratedPairs {
				poolIDs[i] = pair.Pool.ObjectID
			}
			stats, err := oracle.PoolStats(ctx, poolIDs)
			if err != nil {
				return nil, err
			}

			farms, err := oracle.Farms(ctx)
			if err != nil {
				return nil, err
			}
			farmByID := make(map[string]aftermath.Farm, len(farms))
			for _, farm := range farms {
				farmByID[farm.ObjectID] = farm
			}

			coinTypeSet := map[string]struct{}{}
			for _, pair := range CuratedPairs {
				for _, coin := range pair.Pool.Coins {
					coinTypeSet[coin.CoinType] = struct{}{}
				}
				coinTypeSet[pair.Pool.LPCoinType] = struct{}{}
				if pair.Farm != nil {
					for _, reward := range pair.Farm.RewardCoins {
						coinTypeSet[reward.CoinType] = struct{}{}
					}
				}
			}
			coinTypes := make([]string, 0, len(coinTypeSet))
			for ct := range coinTypeSet {
				coinTypes = append(coinTypes, ct)
			}

			prices, err := oracle.Prices(ctx, coinTypes)
			if err != nil {
				log.Printf("[YIELD] price lookup failed: %v", err)
				prices = map[string]float64{}
			}
			decimals, err := oracle.Decimals(ctx, coinTypes)
			if err != nil {
				return nil, err
			}

			var opportunities []YieldOpportunity
			for i, pair := range CuratedPairs {
				if i >= len(stats) {
					break
				}
				stat := stats[i]

				coins := make(map[string]YieldCoin, len(pair.Pool.Coins))
				holdsAll := true
				for _, coin := range pair.Pool.Coins {
					userBalance := userBalances[sui.NormalizeCoinType(coin.CoinType)]
					if userBalance <= 0 {
						holdsAll = false
					}
					yc := YieldCoin{
						CoinType:    coin.CoinType,
						Weight:      float64(coin.Weight) / 100,
						Symbol:      coin.Symbol,
						UserBalance: userBalance,
					}
					if meta, err := chain.CoinMetadata(ctx, coin.CoinType); err == nil && meta != nil {
						if meta.Symbol != "" {
							yc.Symbol = meta.Symbol
						}
						yc.Name = meta.Name
						yc.IconURL = meta.IconURL
					}
					coins[coin.CoinType] = yc
				}

				if args.OnlyUserTokens && !holdsAll {
					continue
				}
				if args.MinTVL > 0 && stat.TVL < args.MinTVL {
					continue
				}

				opp := YieldOpportunity{
					ObjectID:           pair.Pool.ObjectID,
					Name:               pair.Pool.Name,
					LPCoinType:         pair.Pool.LPCoinType,
					Coins:              coins,
					TVL:                stat.TVL,
					Volume24h:          stat.Volume24h,
					UserHoldsAllTokens: holdsAll,
					APR:                APRBreakdown{PoolFeeAPR: stat.APR},
				}

				if pair.Farm != nil {
					if farm, ok := farmByID[pair.Farm.ObjectID]; ok {
						farmingAPR := farmingAPR(farm, pair.Pool.LPCoinType, prices, decimals)
						opp.APR.FarmingAPR = farmingAPR

						yf := &YieldFarm{
							ObjectID:    pair.Farm.ObjectID,
							RewardCoins: pair.Farm.RewardCoins,
						}
						if farm.MaxLockDurationMs > 0 {
							for _, opt := range LockOptions {
								if int64(opt.Days)*86_400_000 > farm.MaxLockDurationMs {
									continue
								}
								yf.LockDurationOptions = append(yf.LockDurationOptions, LockDurationOption{
									DurationDays: opt.Days,
									Multiplier:   opt.Multiplier,
									BoostedAPR:   farmingAPR * opt.Multiplier,
								})
							}
							if n := len(yf.LockDurationOptions); n > 0 {
								opp.APR.FarmingAPRRange = &APRRange{
									Min: farmingAPR,
									Max: yf.LockDurationOptions[n-1].BoostedAPR,
								}
							}
						}
						opp.Farm = yf
					}
				}
				opp.APR.TotalAPR = opp.APR.PoolFeeAPR + opp.APR.FarmingAPR

				opportunities = append(opportunities, opp)
			}

			sort.SliceStable(opportunities, func(a, b int) bool {
				x, y := opportunities[a], opportunities[b]
				switch args.SortBy {
				case "poolFeeApr":
					return x.APR.PoolFeeAPR > y.APR.PoolFeeAPR
				case "farmingApr":
					return x.APR.FarmingAPR > y.APR.FarmingAPR
				case "tvl":
					return x.TVL > y.TVL
				case "volume24h":
					return x.Volume24h > y.Volume24h
				default:
					return x.APR.TotalAPR > y.APR.TotalAPR
				}
			})

			summary := YieldSummary{TotalOpportunities: len(opportunities)}
			for _, opp := range opportunities {
				if opp.UserHoldsAllTokens {
					summary.UserEligiblePools++
				}
				summary.AverageTotalAPR += opp.APR.TotalAPR
				summary.TotalTVL += opp.TVL
			}
			if len(opportunities) > 0 {
				summary.AverageTotalAPR /= float64(len(opportunities))
			}

			limit := args.Limit
			if limit <= 0 {
				limit = defaultYieldLimit
			}
			if len(opportunities) > limit {
				opportunities = opportunities[:limit]
			}

			return core.Ok(YieldResult{
				Opportunities: opportunities,
				Summary:       summary,
			}), nil
		}).
		Build()
}

// farmingAPR estimates the unboosted farming APR: annual reward emissions in
// USD divided by the USD value staked in the farm.
func farmingAPR(farm aftermath.Farm, lpCoinType string, prices map[string]float64, decimals map[string]int) float64 {
	lpPrice, ok := prices[lpCoinType]
	if !ok || lpPrice <= 0 {
		return 0
	}
	staked, err := sui.ParseBaseUnits(farm.StakedAmount)
	if err != nil {
		return 0
	}
	lpDecimals, ok := decimals[lpCoinType]
	if !ok {
		lpDecimals = sui.SUIDecimals
	}
	farmTVL := sui.Normalize(staked, lpDecimals) * lpPrice
	if farmTVL <= 0 || math.IsNaN(farmTVL) {
		return 0
	}

	var annualRewardsUSD float64
	for _, reward := range farm.RewardCoins {
		price, ok := prices[reward.CoinType]
		if !ok {
			continue
		}
		emission, err := sui.ParseBaseUnits(reward.AnnualEmission)
		if err != nil {
			continue
		}
		dec, ok := decimals[reward.CoinType]
		if !ok {
			dec = sui.SUIDecimals
		}
		annualRewardsUSD += sui.Normalize(emission, dec) * price
	}
	return annualRewardsUSD / farmTVL
}
