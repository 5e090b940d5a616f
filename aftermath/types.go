package aftermath

// CoinInfo is a supported coin with its display metadata.
type CoinInfo struct {
	CoinType string `json:"coinType"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Decimals int    `json:"decimals"`
	IconURL  string `json:"iconUrl,omitempty"`
}

// RouteLeg is one side of a priced trade route. Amount is a decimal integer
// string in base units.
type RouteLeg struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	TradeFee string `json:"tradeFee,omitempty"`
}

// Route is a priced path for converting one token into another.
type Route struct {
	CoinIn    RouteLeg `json:"coinIn"`
	CoinOut   RouteLeg `json:"coinOut"`
	SpotPrice float64  `json:"spotPrice"`
}

// PoolCoin is one asset of a liquidity pool.
type PoolCoin struct {
	Weight  float64 `json:"weight"`
	Balance string  `json:"balance"`
}

// Pool describes a liquidity pool. Coins is keyed by the pool-internal coin
// type, which may use a different address padding than wallet balances.
type Pool struct {
	ObjectID   string              `json:"objectId"`
	Name       string              `json:"name"`
	LPCoinType string              `json:"lpCoinType"`
	Coins      map[string]PoolCoin `json:"coins"`
}

// PoolStats are the display statistics of one pool.
type PoolStats struct {
	PoolID    string  `json:"poolId"`
	TVL       float64 `json:"tvl"`
	Volume24h float64 `json:"volume24h"`
	APR       float64 `json:"apr"`
}

// FarmReward is one reward emission of a staking pool. AnnualEmission is a
// base-unit integer string.
type FarmReward struct {
	CoinType       string `json:"coinType"`
	AnnualEmission string `json:"annualEmission"`
}

// Farm is a staking pool that locks LP tokens for reward emissions.
type Farm struct {
	ObjectID          string       `json:"objectId"`
	StakeCoinType     string       `json:"stakeCoinType"`
	StakedAmount      string       `json:"stakedAmount"`
	MaxLockDurationMs int64        `json:"maxLockDurationMs"`
	RewardCoins       []FarmReward `json:"rewardCoins"`
}

// StakedPosition is a user position inside a farm or the liquid staking
// pool, reported so the balances tool can fold it into the portfolio total.
type StakedPosition struct {
	Source   string `json:"source"` // "farm" or "liquid-staking"
	CoinType string `json:"coinType"`
	Amount   string `json:"amount"` // base units
}
