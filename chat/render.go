package chat

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/sui"
	"github.com/defipilot/sui-agent/tools"
)

// dustThreshold hides effectively-zero balances from the balance view.
// Totals are computed upstream over everything, dust included; only the
// display rows are filtered.
const dustThreshold = 1e-6

// View is a renderable representation of a tool invocation for the client.
type View struct {
	// Component identifies which UI component renders this view.
	Component string `json:"component"`

	// Title is a short heading.
	Title string `json:"title"`

	// Lines are preformatted display rows.
	Lines []string `json:"lines,omitempty"`

	// Loading marks an in-flight invocation placeholder.
	Loading bool `json:"loading,omitempty"`

	// Err carries the failure message of an unsuccessful result.
	Err string `json:"error,omitempty"`

	// Raw is the pretty-printed result payload, set on the JSON fallback
	// for tools without a registered renderer.
	Raw string `json:"raw,omitempty"`
}

// Renderer turns one tool's result payload into a View.
type Renderer func(result *core.ToolResult) View

// Registry maps tool names to renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates a registry with renderers for the built-in tool set.
func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[string]Renderer)}
	r.Register("getAllBalances", renderBalances)
	r.Register("listCoins", renderListCoins)
	r.Register("getPrices", renderPrices)
	r.Register("sendSui", renderSendSUI)
	r.Register("swap", renderSwap)
	r.Register("liquidStaking", renderLiquidStaking)
	r.Register("addLiquidity", renderAddLiquidity)
	r.Register("getYieldOpportunities", renderYield)
	return r
}

// Register adds or replaces a renderer.
func (r *Registry) Register(toolName string, renderer Renderer) {
	r.renderers[toolName] = renderer
}

// Has reports whether a renderer is registered for the tool.
func (r *Registry) Has(toolName string) bool {
	_, ok := r.renderers[toolName]
	return ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ViewFor resolves an invocation to its view. In-flight calls get a loading
// placeholder; finished invocations go through the registered renderer;
// tools without one fall back to pretty-printed JSON.
func (r *Registry) ViewFor(inv *core.ToolInvocation) (View, error) {
	if inv == nil || !inv.Renderable() {
		return View{}, fmt.Errorf("invocation is not renderable")
	}

	if inv.State == core.InvocationCall {
		return View{
			Component: inv.ToolName,
			Title:     "Working...",
			Loading:   true,
		}, nil
	}

	var result core.ToolResult
	if err := json.Unmarshal(inv.Result, &result); err != nil {
		return View{}, fmt.Errorf("decode result for %s: %w", inv.ToolName, err)
	}

	renderer, ok := r.renderers[inv.ToolName]
	if !ok {
		pretty, err := json.MarshalIndent(json.RawMessage(inv.Result), "", "  ")
		if err != nil {
			return View{}, err
		}
		return View{
			Component: "json",
			Title:     inv.ToolName,
			Raw:       string(pretty),
		}, nil
	}
	return renderer(&result), nil
}

// reparse round-trips the interface{} payload of a decoded ToolResult into a
// typed struct.
func reparse(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func errorView(component string, result *core.ToolResult) View {
	return View{Component: component, Title: "Error", Err: result.Error}
}

func renderBalances(result *core.ToolResult) View {
	if !result.Success {
		return errorView("balances", result)
	}
	var data tools.BalancesResult
	if err := reparse(result.Data, &data); err != nil {
		return View{Component: "balances", Err: err.Error()}
	}

	view := View{Component: "balances", Title: "Portfolio"}
	for _, b := range data.Balances {
		if b.NormalizedBalance < dustThreshold {
			continue
		}
		line := fmt.Sprintf("%s  %s", sui.Symbol(b.CoinType), trimFloat(b.NormalizedBalance, 4))
		if b.USDValue != nil {
			line += fmt.Sprintf("  ($%s)", trimFloat(*b.USDValue, 2))
		}
		view.Lines = append(view.Lines, line)
	}
	for _, p := range data.StakedPositions {
		line := fmt.Sprintf("%s (staked)  %s", sui.Symbol(p.CoinType), trimFloat(p.NormalizedBalance, 4))
		if p.USDValue != nil {
			line += fmt.Sprintf("  ($%s)", trimFloat(*p.USDValue, 2))
		}
		view.Lines = append(view.Lines, line)
	}
	view.Lines = append(view.Lines, fmt.Sprintf("Total: $%s", trimFloat(data.TotalUSDValue, 2)))
	return view
}

func renderListCoins(result *core.ToolResult) View {
	if !result.Success {
		return errorView("coins", result)
	}
	var data struct {
		Coins []struct {
			Symbol string `json:"symbol"`
			Name   string `json:"name"`
		} `json:"coins"`
	}
	if err := reparse(result.Data, &data); err != nil {
		return View{Component: "coins", Err: err.Error()}
	}
	view := View{Component: "coins", Title: "Supported Coins"}
	for _, c := range data.Coins {
		if c.Name != "" {
			view.Lines = append(view.Lines, fmt.Sprintf("%s (%s)", c.Symbol, c.Name))
		} else {
			view.Lines = append(view.Lines, c.Symbol)
		}
	}
	return view
}

func renderPrices(result *core.ToolResult) View {
	if !result.Success {
		return errorView("prices", result)
	}
	var data tools.PricesResult
	if err := reparse(result.Data, &data); err != nil {
		return View{Component: "prices", Err: err.Error()}
	}
	view := View{Component: "prices", Title: "Prices"}
	for _, p := range data.Prices {
		view.Lines = append(view.Lines, fmt.Sprintf("%s  $%s", sui.Symbol(p.CoinType), trimFloat(p.Price, 4)))
	}
	return view
}

func renderSendSUI(result *core.ToolResult) View {
	if !result.Success {
		return errorView("send", result)
	}
	var data tools.SendSUIResult
	if err := reparse(result.Data, &data); err != nil {
		return View{Component: "send", Err: err.Error()}
	}
	return View{
		Component: "send",
		Title:     "Send SUI",
		Lines: []string{
			fmt.Sprintf("Send %s SUI to %s", trimFloat(data.SUIAmount, 4), data.Recipient),
			"Approve in your wallet to execute.",
		},
	}
}

func renderSwap(result *core.ToolResult) View {
	var data tools.SwapResult
	if err := reparse(result.Data, &data); err != nil {
		return View{Component: "swap", Err: err.Error()}
	}

	view := View{Component: "swap", Title: "Swap"}
	if !result.Success {
		view.Err = result.Error
		if data.Route == nil {
			return view
		}
		// A failed build still shows the quote.
	}

	inDecimals, outDecimals := sui.SUIDecimals, sui.SUIDecimals
	inSymbol, outSymbol := "", ""
	if data.CoinMetadata != nil {
		if m := data.CoinMetadata.CoinIn; m != nil {
			if m.Decimals > 0 {
				inDecimals = m.Decimals
			}
			inSymbol = m.Symbol
		}
		if m := data.CoinMetadata.CoinOut; m != nil {
			if m.Decimals > 0 {
				outDecimals = m.Decimals
			}
			outSymbol = m.Symbol
		}
	}
	if inSymbol == "" {
		inSymbol = sui.Symbol(data.Route.CoinIn.Type)
	}
	if outSymbol == "" {
		outSymbol = sui.Symbol(data.Route.CoinOut.Type)
	}

	fromAmount, fromOK := baseToFloat(data.Route.CoinIn.Amount, inDecimals)
	toAmount, toOK := baseToFloat(data.Route.CoinOut.Amount, outDecimals)

	view.Lines = append(view.Lines,
		fmt.Sprintf("From: %s %s", formatFixed(fromAmount, 4), inSymbol),
		fmt.Sprintf("To: %s %s", formatFixed(toAmount, 4), outSymbol),
	)
	if fromOK && toOK && fromAmount > 0 {
		rate := toAmount / fromAmount
		view.Lines = append(view.Lines, fmt.Sprintf("Rate: 1 %s = %s %s", inSymbol, formatFixed(rate, 6), outSymbol))
	} else {
		view.Lines = append(view.Lines, "Rate: N/A")
	}
	if result.Success {
		view.Lines = append(view.Lines, "Approve in your wallet to execute.")
	}
	return view
}

func renderLiquidStaking(result *core.ToolResult) View {
	if !result.Success {
		return errorView("liquid-staking", result)
	}
	var data tools.LiquidStakingResult
	if err := reparse(result.Data, &data); err != nil {
		return View{Component: "liquid-staking", Err: err.Error()}
	}

	title := "Stake SUI"
	if data.Action == "redeem" {
		title = "Redeem afSUI"
	}
	return View{
		Component: "liquid-staking",
		Title:     title,
		Lines: []string{
			fmt.Sprintf("In: %s %s", formatFixed(data.TokenIn.Amount, 4), symbolOf(data.TokenIn)),
			fmt.Sprintf("Out: ~%s %s", formatFixed(data.TokenOut.Amount, 4), symbolOf(data.TokenOut)),
			"Approve in your wallet to execute.",
		},
	}
}

func symbolOf(side tools.TokenSide) string {
	if side.Metadata != nil && side.Metadata.Symbol != "" {
		return side.Metadata.Symbol
	}
	return sui.Symbol(side.Type)
}

func renderAddLiquidity(result *core.ToolResult) View {
	view := View{Component: "add-liquidity", Title: "Add Liquidity"}
	if !result.Success {
		view.Err = result.Error
		if result.Error == core.ErrInsufficientBalance {
			var detail tools.InsufficientBalanceData
			if err := reparse(result.Data, &detail); err == nil && detail.Message != "" {
				view.Lines = append(view.Lines, detail.Message)
			}
		}
		return view
	}

	var data tools.AddLiquidityResult
	if err := reparse(result.Data, &data); err != nil {
		view.Err = err.Error()
		return view
	}
	if data.PoolInfo != nil {
		view.Lines = append(view.Lines, fmt.Sprintf("Pool: %s", data.PoolInfo.PoolName))
	}
	for _, dep := range data.DepositsInfo {
		amount, _ := baseToFloat(dep.Amount, dep.Decimals)
		view.Lines = append(view.Lines, fmt.Sprintf("Deposit: %s %s", trimFloat(amount, 4), dep.Symbol))
	}
	if data.Transactions.Deposit != nil {
		view.Lines = append(view.Lines, "Approve the pool deposit in your wallet.")
	}
	if data.Transactions.Stake != nil && data.FarmInfo != nil {
		view.Lines = append(view.Lines, fmt.Sprintf("Approve staking LP tokens (%d day lock).", data.FarmInfo.LockDurationDays))
	}
	return view
}

func renderYield(result *core.ToolResult) View {
	if !result.Success {
		return errorView("yield", result)
	}
	var data tools.YieldResult
	if err := reparse(result.Data, &data); err != nil {
		return View{Component: "yield", Err: err.Error()}
	}
	view := View{Component: "yield", Title: "Yield Opportunities"}
	for _, opp := range data.Opportunities {
		line := fmt.Sprintf("%s  APR %s%%  TVL $%s",
			opp.Name,
			trimFloat(opp.APR.TotalAPR*100, 2),
			trimFloat(opp.TVL, 0),
		)
		if opp.APR.FarmingAPRRange != nil {
			line += fmt.Sprintf("  (up to %s%% locked)", trimFloat(opp.APR.FarmingAPRRange.Max*100, 2))
		}
		view.Lines = append(view.Lines, line)
	}
	return view
}

// baseToFloat converts a base-unit integer string to a display float.
func baseToFloat(amount string, decimals int) (float64, bool) {
	raw, err := sui.ParseBaseUnits(amount)
	if err != nil {
		return 0, false
	}
	return sui.Normalize(raw, decimals), true
}

// formatFixed renders a float with exactly n decimal places.
func formatFixed(v float64, n int) string {
	return strconv.FormatFloat(v, 'f', n, 64)
}

// trimFloat renders a float with at most n decimal places.
func trimFloat(v float64, n int) string {
	s := strconv.FormatFloat(v, 'f', n, 64)
	if n == 0 {
		return s
	}
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
