package tools_test

import (
	"testing"

	"github.com/defipilot/sui-agent/sui"
	"github.com/defipilot/sui-agent/tools"
)

func TestPricesOmitsUnpricedCoins(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]float64{sui.SUIType: 3.4}}

	result := execute(t, tools.NewPricesTool(oracle), testAddress,
		`{"coins":["`+sui.SUIType+`","0xdead::meme::MEME"]}`)
	if !result.Success {
		t.Fatalf("prices failed: %s", result.Error)
	}
	data := result.Data.(tools.PricesResult)
	if len(data.Prices) != 1 {
		t.Fatalf("got %d prices, want 1", len(data.Prices))
	}
	if data.Prices[0].CoinType != sui.SUIType || data.Prices[0].Price != 3.4 {
		t.Errorf("price entry = %+v", data.Prices[0])
	}
}

func TestPricesSUIVariantFallsBack(t *testing.T) {
	longSUI := "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"
	oracle := &fakeOracle{prices: map[string]float64{sui.SUIType: 2.0}}

	result := execute(t, tools.NewPricesTool(oracle), testAddress, `{"coins":["`+longSUI+`"]}`)
	data := result.Data.(tools.PricesResult)
	if len(data.Prices) != 1 || data.Prices[0].Price != 2.0 {
		t.Errorf("variant SUI should price against canonical type: %+v", data.Prices)
	}
}
