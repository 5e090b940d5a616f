package tools

// CuratedCoin is one side of a curated pool.
type CuratedCoin struct {
	CoinType string `json:"coinType"`
	Weight   int    `json:"weight"`
	Symbol   string `json:"symbol"`
}

// CuratedPool identifies a vetted liquidity pool.
type CuratedPool struct {
	ObjectID   string        `json:"objectId"`
	Name       string        `json:"name"`
	LPCoinType string        `json:"lpCoinType"`
	Coins      []CuratedCoin `json:"coins"`
}

// CuratedFarm identifies the staking pool paired with a curated pool.
type CuratedFarm struct {
	ObjectID      string        `json:"objectId"`
	StakeCoinType string        `json:"stakeCoinType"`
	RewardCoins   []CuratedCoin `json:"rewardCoins"`
}

// CuratedPair is a vetted pool with its optional farm.
type CuratedPair struct {
	Pool CuratedPool  `json:"pool"`
	Farm *CuratedFarm `json:"farm,omitempty"`
}

// LockOption is a farm lock duration with its reward multiplier.
type LockOption struct {
	Days       int
	Multiplier float64
}

// LockOptions are the standard farm lock tiers. Longer locks boost the base
// farming APR by the multiplier.
var LockOptions = []LockOption{
	{Days: 7, Multiplier: 1.25},
	{Days: 30, Multiplier: 1.5},
	{Days: 90, Multiplier: 2},
	{Days: 180, Multiplier: 2.5},
}

const (
	suiLong   = "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"
	afSUI     = "0xf325ce1300e8dac124071d3152c5c5ee6174914f8bc2161e88329cf579246efc::afsui::AFSUI"
	nsCoin    = "0x5145494a5f5100e645e4b0aa950fa6b68f614e8c59e17bc5ded3495123a79178::ns::NS"
	mUSD      = "0xe44df51c0b21a27ab915fa1fe2ca610cd3eaa6d9666fe5e62b988bf7f0bd8722::musd::MUSD"
	mPoints   = "0x7bae0b3b7b6c3da899fe3f4af95b7110633499c02b8c6945110d799d99deaa68::mpoints::MPOINTS"
	usdcCoin  = "0xdba34672e30cb065b1f93e3ab55318768fd6fef66c15942c9f7cb846e2f900e7::usdc::USDC"
	deepCoin  = "0xdeeb7a4662eec9f2f3def03fb937a663dddaa2e215b8078a284d026b7946c270::deep::DEEP"
	superSUI  = "0x790f258062909e3a0ffc78b3c53ac2f62d7084c3bab95644bdeb05add7250001::super_sui::SUPER_SUI"
	lbtcCoin  = "0x3e8e9423d80e1774a7ca128fccd8bf5f1f7753be658c5e645929037f7c819040::lbtc::LBTC"
	suiWBTC   = "0xaafb102dd0902f5055cadecd687fb5b71ca82ef0e0285d90afde828ec58ca96b::btc::BTC"
	mETHCoin  = "0xccd628c2334c5ed33e6c47d6c21bb664f8b6307b2ac32c2462a61f69a31ebcee::meth::METH"
	mBTCCoin  = "0x0042c1db2eecdd8472aa2464cc3b25b39408ab6d3863bc0e574c7c7910daab09::mbtc::MBTC"
)

// CuratedPairs is the vetted pool and farm list surfaced by the yield tool.
// Hand-picked rather than discovered: the full on-chain pool set is mostly
// dust pools and honeypots.
var CuratedPairs = []CuratedPair{
	{
		Pool: CuratedPool{
			ObjectID:   "0x97aae7a80abb29c9feabbe7075028550230401ffe7fb745757d3c28a30437408",
			Name:       "afSUI/SUI",
			LPCoinType: "0x42d0b3476bc10d18732141a471d7ad3aa588a6fb4ba8e1a6608a4a7b78e171bf::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: afSUI, Weight: 50, Symbol: "afSUI"},
				{CoinType: suiLong, Weight: 50, Symbol: "SUI"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0xa983514eece6ae7a0de118e0acbc16b32e8954aa15095288db3019c5c637d13d",
			StakeCoinType: "0x42d0b3476bc10d18732141a471d7ad3aa588a6fb4ba8e1a6608a4a7b78e171bf::af_lp::AF_LP",
			RewardCoins:   []CuratedCoin{{CoinType: afSUI, Symbol: "afSUI"}},
		},
	},
	{
		Pool: CuratedPool{
			ObjectID:   "0xee7a281296e0a316eff84e7ea0d5f3eb19d1860c2d4ed598c086ceaa9bf78c75",
			Name:       "SUI/NS",
			LPCoinType: "0xf847c541b3076eea83cbaddcc244d25415b7c6828c1542cae4ab152d809896b6::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: suiLong, Weight: 50, Symbol: "SUI"},
				{CoinType: nsCoin, Weight: 50, Symbol: "NS"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0x20672ed3b848ad0e8613d027ee579cfad9db4a551b82115dc0a8d1f8dcd78c65",
			StakeCoinType: "0xf847c541b3076eea83cbaddcc244d25415b7c6828c1542cae4ab152d809896b6::af_lp::AF_LP",
			RewardCoins: []CuratedCoin{
				{CoinType: suiLong, Symbol: "SUI"},
				{CoinType: nsCoin, Symbol: "NS"},
			},
		},
	},
	{
		Pool: CuratedPool{
			ObjectID:   "0x98327d7d07581bf78dfe277d8a88de39b4766962e8859b2050a1ca03e9fa2a16",
			Name:       "SUI/mUSD",
			LPCoinType: "0x84c853d28dac001038015d8580bf6b078c670817434f06c5ecad44fd181d7252::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: suiLong, Weight: 20, Symbol: "SUI"},
				{CoinType: mUSD, Weight: 80, Symbol: "mUSD"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0xea5c68f2aa0d52b30b99042ceb018fdffda064fb228437804468ec5856c67ffd",
			StakeCoinType: "0x84c853d28dac001038015d8580bf6b078c670817434f06c5ecad44fd181d7252::af_lp::AF_LP",
			RewardCoins: []CuratedCoin{
				{CoinType: afSUI, Symbol: "afSUI"},
				{CoinType: mPoints, Symbol: "MPOINTS"},
			},
		},
	},
	{
		Pool: CuratedPool{
			ObjectID:   "0x0878a407034629dd96b71b8eb73216b78501aea2c5d4b062fceb92a4b1a2ecb9",
			Name:       "LBTC/suiWBTC",
			LPCoinType: "0x604f2e82f5923c22373d048149c4b7861585cebe231b4e9e93ed8fb9c3c33bb5::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: lbtcCoin, Weight: 40, Symbol: "LBTC"},
				{CoinType: suiWBTC, Weight: 60, Symbol: "suiWBTC"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0x05a662d9e9673d2407f8b996fa581b8194ac44b632b7c5785694030346e5e214",
			StakeCoinType: "0x604f2e82f5923c22373d048149c4b7861585cebe231b4e9e93ed8fb9c3c33bb5::af_lp::AF_LP",
			RewardCoins:   []CuratedCoin{{CoinType: deepCoin, Symbol: "DEEP"}},
		},
	},
	{
		Pool: CuratedPool{
			ObjectID:   "0x24e36f68a85fb0ed114879fc683fcf8e108ce11c31db9a2ba3ae200bbb29be26",
			Name:       "superSUI/mUSD",
			LPCoinType: "0x797abd920c222fef740fddf865e94c1f8198d67e18d395ee4445a7f263677e62::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: superSUI, Weight: 80, Symbol: "superSUI"},
				{CoinType: mUSD, Weight: 20, Symbol: "mUSD"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0xb77727f33bd35b8d842fa85be20cdff02a5e9faaddb5b80c72ae71d49117aa39",
			StakeCoinType: "0x797abd920c222fef740fddf865e94c1f8198d67e18d395ee4445a7f263677e62::af_lp::AF_LP",
			RewardCoins: []CuratedCoin{
				{CoinType: afSUI, Symbol: "afSUI"},
				{CoinType: mPoints, Symbol: "MPOINTS"},
				{CoinType: superSUI, Symbol: "SUPER_SUI"},
			},
		},
	},
	{
		Pool: CuratedPool{
			ObjectID:   "0xb0cc4ce941a6c6ac0ca6d8e6875ae5d86edbec392c3333d008ca88f377e5e181",
			Name:       "SUI/USDC",
			LPCoinType: "0xd1a3eab6e9659407cb2a5a529d13b4102e498619466fc2d01cb0a6547bbdb376::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: suiLong, Weight: 20, Symbol: "SUI"},
				{CoinType: usdcCoin, Weight: 80, Symbol: "USDC"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0x0819f52c064eef993370aea4658affd3d73d5bad03b6a44c7bf8ab47eb537d06",
			StakeCoinType: "0xd1a3eab6e9659407cb2a5a529d13b4102e498619466fc2d01cb0a6547bbdb376::af_lp::AF_LP",
			RewardCoins:   []CuratedCoin{{CoinType: afSUI, Symbol: "afSUI"}},
		},
	},
	{
		Pool: CuratedPool{
			ObjectID:   "0x08d746631e6e2aaa8d88b087be11245106497fbbaf4d7f0f2facd0acc645abf9",
			Name:       "mETH/mUSD",
			LPCoinType: "0x94b092e200b1a700fb3ebc1bd0f1eee4d06fd2edfd626ae6efebb2da78ce125b::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: mETHCoin, Weight: 80, Symbol: "mETH"},
				{CoinType: mUSD, Weight: 20, Symbol: "mUSD"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0xb0c0edebd12b77ab34091300030d9ffb47cfce052312dfd5a15982571ff399f2",
			StakeCoinType: "0x94b092e200b1a700fb3ebc1bd0f1eee4d06fd2edfd626ae6efebb2da78ce125b::af_lp::AF_LP",
			RewardCoins: []CuratedCoin{
				{CoinType: afSUI, Symbol: "afSUI"},
				{CoinType: mPoints, Symbol: "MPOINTS"},
			},
		},
	},
	{
		Pool: CuratedPool{
			ObjectID:   "0x3d5e6a3a72ea3deb2f4f5011d8f404003e145e290e7ffc209254aabba488c220",
			Name:       "mBTC/mUSD",
			LPCoinType: "0xc9ecb0b9d62dac89607dbe368de67a022bf07dd37273b298d7074d7cff42e39b::af_lp::AF_LP",
			Coins: []CuratedCoin{
				{CoinType: mBTCCoin, Weight: 80, Symbol: "mBTC"},
				{CoinType: mUSD, Weight: 20, Symbol: "mUSD"},
			},
		},
		Farm: &CuratedFarm{
			ObjectID:      "0xd6f425e2e02fd6f8f71581587f31bf32c9e8c4aa9372b9b6e09d399d88d615dc",
			StakeCoinType: "0xc9ecb0b9d62dac89607dbe368de67a022bf07dd37273b298d7074d7cff42e39b::af_lp::AF_LP",
			RewardCoins: []CuratedCoin{
				{CoinType: afSUI, Symbol: "afSUI"},
				{CoinType: mPoints, Symbol: "MPOINTS"},
			},
		},
	},
}
