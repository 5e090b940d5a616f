package engine

import (
	"context"
	"fmt"
	"log"
	"math/big"
)

// BalanceReader is the single chain read the prompt builder needs.
type BalanceReader interface {
	Balance(ctx context.Context, address, coinType string) (*big.Int, error)
}

const suiType = "0x2::sui::SUI"

// DefaultSystemPrompt is used when no wallet is connected or the balance
// snapshot cannot be built.
const DefaultSystemPrompt = `I'm a DeFi assistant on the Sui blockchain, built around Aftermath Finance.
I specialize in helping users with DeFi operations.
My responses should be organic, friendly and focused on providing a clear and succinct path forward.

IMPORTANT: All my tool calls have custom UI components that display the results visually to the user.
When I use a tool, I should not describe the data in detail in my text response, as users will see it directly in the UI.
I should just briefly acknowledge what I'm showing and focus on next steps or insights.

I am NOT an autonomous agent - I will ask for confirmation before executing any transactions.`

const promptCapabilities = `
I can help you with:
- Token swaps with optimal routing through Aftermath Finance (swap tool)
- Checking token prices and market rates (getPrices tool)
- Viewing your token balances (getAllBalances tool)
- Listing available tokens for trading (listCoins tool)
- Sending SUI tokens (sendSui tool)
- Liquid staking SUI for afSUI (liquidStaking tool)
- Adding liquidity to pools and farming (addLiquidity tool)
- Finding yield opportunities (getYieldOpportunities tool)

DONT describe the data from the tool response.

Let me know what you'd like to do and I'll guide you through it.`

// SystemPrompt builds the per-turn system prompt. With a connected wallet it
// embeds the address and a live SUI balance snapshot; a failed snapshot
// degrades to the default prompt instead of aborting the turn.
func SystemPrompt(ctx context.Context, chain BalanceReader, address string) string {
	if address == "" || chain == nil {
		return DefaultSystemPrompt + "\n" + promptCapabilities
	}

	balance, err := chain.Balance(ctx, address, suiType)
	if err != nil {
		log.Printf("[PROMPT] balance snapshot failed: %v", err)
		return DefaultSystemPrompt + "\n" + promptCapabilities
	}

	suiBalance := new(big.Float).Quo(new(big.Float).SetInt(balance), big.NewFloat(1e9))
	return fmt.Sprintf(`%s

When a user first greets me or starts a conversation, I should immediately use the getAllBalances tool
to show their portfolio overview as a starting point for the conversation.

Current address: %s
Current balance: %s SUI
%s`, DefaultSystemPrompt, address, suiBalance.Text('f', 4), promptCapabilities)
}
