package sui

// SUIType is the canonical coin type of the native gas token.
const SUIType = "0x2::sui::SUI"

// SUILongType is the fully padded form some RPC responses use for the same
// token. The two must be treated as the same coin everywhere.
const SUILongType = "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"

// SUIDecimals is the decimal count of SUI (1 SUI = 1e9 MIST).
const SUIDecimals = 9

// MainnetRPC is the public mainnet fullnode endpoint.
const MainnetRPC = "https://fullnode.mainnet.sui.io:443"

// CoinBalance is one entry of a suix_getAllBalances response. TotalBalance
// is a decimal integer string in base units and must never be parsed as a
// float.
type CoinBalance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}

// CoinMetadata describes a coin type for display.
type CoinMetadata struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Decimals int    `json:"decimals"`
	IconURL  string `json:"iconUrl,omitempty"`
}

// Coin is one owned coin object of a given type.
type Coin struct {
	CoinObjectID string `json:"coinObjectId"`
	CoinType     string `json:"coinType"`
	Balance      string `json:"balance"`
}
