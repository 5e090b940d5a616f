package sui

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Client is a minimal Sui fullnode JSON-RPC client covering the read calls
// the agent needs. The first URL is primary; others are fallbacks.
type Client struct {
	urls       []string
	httpClient *http.Client
	requestID  atomic.Int64
	metaCache  *ristretto.Cache
}

// NewClient creates a client for the given fullnode endpoints.
func NewClient(urls ...string) (*Client, error) {
	if len(urls) == 0 {
		urls = []string{MainnetRPC}
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("init metadata cache: %w", err)
	}
	return &Client{
		urls: urls,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		metaCache: cache,
	}, nil
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.requestID.Add(1),
	}

	var lastErr error
	for _, url := range c.urls {
		result, err := c.doRequest(ctx, url, req)
		if err != nil {
			lastErr = err
			continue
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(result, out); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
		return nil
	}
	return fmt.Errorf("all RPC endpoints failed: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, url string, req rpcRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

// AllBalances returns every coin balance held by the address.
func (c *Client) AllBalances(ctx context.Context, address string) ([]CoinBalance, error) {
	var balances []CoinBalance
	if err := c.call(ctx, "suix_getAllBalances", []interface{}{address}, &balances); err != nil {
		return nil, fmt.Errorf("suix_getAllBalances: %w", err)
	}
	return balances, nil
}

// Balance returns the address's total balance of one coin type in base units.
func (c *Client) Balance(ctx context.Context, address, coinType string) (*big.Int, error) {
	var result struct {
		TotalBalance string `json:"totalBalance"`
	}
	if err := c.call(ctx, "suix_getBalance", []interface{}{address, coinType}, &result); err != nil {
		return nil, fmt.Errorf("suix_getBalance: %w", err)
	}
	return ParseBaseUnits(result.TotalBalance)
}

// CoinMetadata resolves symbol/decimals/icon for a coin type. On-chain
// metadata rarely changes, so results are cached for an hour.
func (c *Client) CoinMetadata(ctx context.Context, coinType string) (*CoinMetadata, error) {
	if cached, ok := c.metaCache.Get(coinType); ok {
		return cached.(*CoinMetadata), nil
	}

	var meta CoinMetadata
	if err := c.call(ctx, "suix_getCoinMetadata", []interface{}{coinType}, &meta); err != nil {
		return nil, fmt.Errorf("suix_getCoinMetadata %s: %w", coinType, err)
	}
	if meta.Symbol == "" {
		meta.Symbol = Symbol(coinType)
	}
	c.metaCache.SetWithTTL(coinType, &meta, 1, time.Hour)
	return &meta, nil
}

// Coins lists the address's individual coin objects of one type, following
// pagination up to limit objects.
func (c *Client) Coins(ctx context.Context, address, coinType string, limit int) ([]Coin, error) {
	var coins []Coin
	var cursor interface{}
	for len(coins) < limit {
		var page struct {
			Data        []Coin `json:"data"`
			NextCursor  string `json:"nextCursor"`
			HasNextPage bool   `json:"hasNextPage"`
		}
		params := []interface{}{address, coinType, cursor, limit - len(coins)}
		if err := c.call(ctx, "suix_getCoins", params, &page); err != nil {
			return nil, fmt.Errorf("suix_getCoins: %w", err)
		}
		coins = append(coins, page.Data...)
		if !page.HasNextPage {
			break
		}
		cursor = page.NextCursor
	}
	return coins, nil
}

// transferGasBudget is the gas budget attached to SUI transfer transactions,
// in MIST.
const transferGasBudget = 10_000_000

// TransferSUITransaction builds an unsigned transaction sending amount of
// SUI from signer to recipient. Enough of the signer's SUI coin objects are
// selected to cover the amount plus gas; the node merges them as needed.
func (c *Client) TransferSUITransaction(ctx context.Context, signer, recipient string, amount *big.Int) ([]byte, error) {
	coins, err := c.Coins(ctx, signer, SUIType, 100)
	if err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("no SUI coins owned by %s", signer)
	}

	needed := new(big.Int).Add(amount, big.NewInt(transferGasBudget))
	total := new(big.Int)
	var objectIDs []string
	for _, coin := range coins {
		balance, err := ParseBaseUnits(coin.Balance)
		if err != nil {
			return nil, fmt.Errorf("coin %s: %w", coin.CoinObjectID, err)
		}
		objectIDs = append(objectIDs, coin.CoinObjectID)
		total.Add(total, balance)
		if total.Cmp(needed) >= 0 {
			break
		}
	}
	if total.Cmp(needed) < 0 {
		return nil, fmt.Errorf("balance %s below transfer amount plus gas", total)
	}

	var result struct {
		TxBytes string `json:"txBytes"`
	}
	params := []interface{}{
		signer,
		objectIDs,
		[]string{recipient},
		[]string{amount.String()},
		fmt.Sprintf("%d", transferGasBudget),
	}
	if err := c.call(ctx, "unsafe_paySui", params, &result); err != nil {
		return nil, fmt.Errorf("unsafe_paySui: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(result.TxBytes)
	if err != nil {
		return nil, fmt.Errorf("decode transaction bytes: %w", err)
	}
	return raw, nil
}
