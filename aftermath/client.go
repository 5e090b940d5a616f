package aftermath

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
)

// MainnetAPI is the public mainnet API endpoint.
const MainnetAPI = "https://aftermath.finance/api"

// priceTTL bounds how stale a cached price may be.
const priceTTL = 30 * time.Second

// Client talks to the Aftermath HTTP API: route quoting, transaction
// building, pool and farm statistics, liquid staking. The client is a thin
// oracle; it never signs or submits anything.
type Client struct {
	baseURL    string
	httpClient *http.Client
	priceCache *ristretto.Cache
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) (*Client, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 50_000,
		MaxCost:     5_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("init price cache: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		priceCache: cache,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(respBody, 200))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// txResponse wraps a built transaction. Bytes are base64 on the wire.
type txResponse struct {
	TxBytes string `json:"txBytes"`
}

func (r *txResponse) decode() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(r.TxBytes)
	if err != nil {
		return nil, fmt.Errorf("decode transaction bytes: %w", err)
	}
	return raw, nil
}

// SupportedCoins lists the coins tradable through the DEX.
func (c *Client) SupportedCoins(ctx context.Context) ([]CoinInfo, error) {
	var coins []CoinInfo
	if err := c.doJSON(ctx, "GET", "/coins/supported", nil, &coins); err != nil {
		return nil, fmt.Errorf("supported coins: %w", err)
	}
	return coins, nil
}

// Prices resolves USD unit prices for the given coin types. Coins without a
// resolvable price are simply absent from the result; absence is the
// signal, never a zero. Results are cached briefly per coin type.
func (c *Client) Prices(ctx context.Context, coinTypes []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(coinTypes))
	var missing []string
	for _, ct := range coinTypes {
		if cached, ok := c.priceCache.Get("price:" + ct); ok {
			prices[ct] = cached.(float64)
			continue
		}
		missing = append(missing, ct)
	}
	if len(missing) == 0 {
		return prices, nil
	}

	var fetched map[string]float64
	req := map[string]interface{}{"coins": missing}
	if err := c.doJSON(ctx, "POST", "/prices/coins", req, &fetched); err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	for ct, price := range fetched {
		if price <= 0 {
			continue // upstream reports unknown prices as -1 or 0
		}
		prices[ct] = price
		c.priceCache.SetWithTTL("price:"+ct, price, 1, priceTTL)
	}
	return prices, nil
}

// Decimals resolves decimal counts for the given coin types.
func (c *Client) Decimals(ctx context.Context, coinTypes []string) (map[string]int, error) {
	var decimals map[string]int
	req := map[string]interface{}{"coins": coinTypes}
	if err := c.doJSON(ctx, "POST", "/coins/decimals", req, &decimals); err != nil {
		return nil, fmt.Errorf("decimals: %w", err)
	}
	return decimals, nil
}

// TradeRoute quotes a best-effort route for swapping amountIn of coinIn into
// coinOut.
func (c *Client) TradeRoute(ctx context.Context, coinIn, coinOut string, amountIn *big.Int) (*Route, error) {
	req := map[string]interface{}{
		"coinInType":   coinIn,
		"coinOutType":  coinOut,
		"coinInAmount": amountIn.String(),
	}
	var route Route
	if err := c.doJSON(ctx, "POST", "/router/trade-route", req, &route); err != nil {
		return nil, fmt.Errorf("trade route: %w", err)
	}
	return &route, nil
}

// RouteTransaction builds the unsigned swap transaction for a quoted route.
func (c *Client) RouteTransaction(ctx context.Context, route *Route, walletAddress string, slippage float64) ([]byte, error) {
	req := map[string]interface{}{
		"walletAddress": walletAddress,
		"route":         route,
		"slippage":      slippage,
	}
	var resp txResponse
	if err := c.doJSON(ctx, "POST", "/router/transactions/trade", req, &resp); err != nil {
		return nil, fmt.Errorf("route transaction: %w", err)
	}
	return resp.decode()
}

// Pool fetches one liquidity pool by object id.
func (c *Client) Pool(ctx context.Context, poolID string) (*Pool, error) {
	var pool Pool
	if err := c.doJSON(ctx, "GET", "/pools/"+poolID, nil, &pool); err != nil {
		return nil, fmt.Errorf("pool %s: %w", poolID, err)
	}
	return &pool, nil
}

// PoolStats fetches display statistics for the given pools, in order.
func (c *Client) PoolStats(ctx context.Context, poolIDs []string) ([]PoolStats, error) {
	req := map[string]interface{}{"poolIds": poolIDs}
	var stats []PoolStats
	if err := c.doJSON(ctx, "POST", "/pools/stats", req, &stats); err != nil {
		return nil, fmt.Errorf("pool stats: %w", err)
	}
	return stats, nil
}

// DepositEstimate returns the estimated LP token output for a deposit. The
// estimate, not the input sum, is what a chained stake must use.
func (c *Client) DepositEstimate(ctx context.Context, poolID string, amountsIn map[string]*big.Int) (*big.Int, error) {
	var resp struct {
		LPAmountOut string `json:"lpAmountOut"`
	}
	req := map[string]interface{}{"amountsIn": stringAmounts(amountsIn)}
	if err := c.doJSON(ctx, "POST", "/pools/"+poolID+"/deposit-estimate", req, &resp); err != nil {
		return nil, fmt.Errorf("deposit estimate: %w", err)
	}
	lp, ok := new(big.Int).SetString(resp.LPAmountOut, 10)
	if !ok {
		return nil, fmt.Errorf("invalid lp estimate: %q", resp.LPAmountOut)
	}
	return lp, nil
}

// DepositTransaction builds the unsigned pool deposit transaction.
func (c *Client) DepositTransaction(ctx context.Context, poolID, walletAddress string, amountsIn map[string]*big.Int, slippage float64) ([]byte, error) {
	req := map[string]interface{}{
		"walletAddress": walletAddress,
		"amountsIn":     stringAmounts(amountsIn),
		"slippage":      slippage,
	}
	var resp txResponse
	if err := c.doJSON(ctx, "POST", "/pools/"+poolID+"/transactions/deposit", req, &resp); err != nil {
		return nil, fmt.Errorf("deposit transaction: %w", err)
	}
	return resp.decode()
}

// Farms lists all staking pools.
func (c *Client) Farms(ctx context.Context) ([]Farm, error) {
	var farms []Farm
	if err := c.doJSON(ctx, "GET", "/farms", nil, &farms); err != nil {
		return nil, fmt.Errorf("farms: %w", err)
	}
	return farms, nil
}

// Farm fetches one staking pool by object id.
func (c *Client) Farm(ctx context.Context, farmID string) (*Farm, error) {
	var farm Farm
	if err := c.doJSON(ctx, "GET", "/farms/"+farmID, nil, &farm); err != nil {
		return nil, fmt.Errorf("farm %s: %w", farmID, err)
	}
	return &farm, nil
}

// StakeTransaction builds the unsigned farm stake transaction.
func (c *Client) StakeTransaction(ctx context.Context, farmID, walletAddress string, amount *big.Int, lockDurationMs int64) ([]byte, error) {
	req := map[string]interface{}{
		"walletAddress":  walletAddress,
		"stakeAmount":    amount.String(),
		"lockDurationMs": lockDurationMs,
	}
	var resp txResponse
	if err := c.doJSON(ctx, "POST", "/farms/"+farmID+"/transactions/stake", req, &resp); err != nil {
		return nil, fmt.Errorf("stake transaction: %w", err)
	}
	return resp.decode()
}

// StakedPositions lists the address's farm and liquid-staking positions.
func (c *Client) StakedPositions(ctx context.Context, address string) ([]StakedPosition, error) {
	var positions []StakedPosition
	if err := c.doJSON(ctx, "GET", "/staking/positions/"+address, nil, &positions); err != nil {
		return nil, fmt.Errorf("staked positions: %w", err)
	}
	return positions, nil
}

func stringAmounts(amounts map[string]*big.Int) map[string]string {
	out := make(map[string]string, len(amounts))
	for ct, amt := range amounts {
		out[ct] = amt.String()
	}
	return out
}
