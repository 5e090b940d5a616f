package aftermath

import (
	"context"
	"fmt"
	"math/big"
)

// AfSUIType is the liquid staking token minted when staking SUI.
const AfSUIType = "0xf325ce1300e8dac124071d3152c5c5ee6174914f8bc2161e88329cf579246efc::afsui::AFSUI"

// MintEstimateFactor approximates the afSUI minted per SUI staked. The true
// exchange rate drifts upward as staking rewards accrue; this factor is a
// display estimate only, never used to build transactions.
const MintEstimateFactor = 0.988

// MintTransaction builds the unsigned transaction staking amount of SUI for
// afSUI.
func (c *Client) MintTransaction(ctx context.Context, walletAddress string, amount *big.Int) ([]byte, error) {
	req := map[string]interface{}{
		"walletAddress": walletAddress,
		"suiAmount":     amount.String(),
	}
	var resp txResponse
	if err := c.doJSON(ctx, "POST", "/staking/transactions/mint", req, &resp); err != nil {
		return nil, fmt.Errorf("mint transaction: %w", err)
	}
	return resp.decode()
}

// RedeemTransaction builds the unsigned transaction redeeming amount of
// afSUI back to SUI. All of the caller's afSUI coin objects are passed so
// the builder can merge them before splitting off the redeem amount; no
// single object needs to cover the amount on its own.
func (c *Client) RedeemTransaction(ctx context.Context, walletAddress string, coinObjectIDs []string, amount *big.Int) ([]byte, error) {
	req := map[string]interface{}{
		"walletAddress": walletAddress,
		"coinObjectIds": coinObjectIDs,
		"afSuiAmount":   amount.String(),
	}
	var resp txResponse
	if err := c.doJSON(ctx, "POST", "/staking/transactions/redeem", req, &resp); err != nil {
		return nil, fmt.Errorf("redeem transaction: %w", err)
	}
	return resp.decode()
}
