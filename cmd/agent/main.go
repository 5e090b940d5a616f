// Command agent runs the conversational DeFi assistant: a websocket chat
// server backed by Claude, Sui RPC reads, and the Aftermath Finance oracle.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/joho/godotenv"

	"github.com/defipilot/sui-agent/aftermath"
	"github.com/defipilot/sui-agent/engine"
	"github.com/defipilot/sui-agent/invite"
	"github.com/defipilot/sui-agent/server"
	"github.com/defipilot/sui-agent/sui"
	"github.com/defipilot/sui-agent/tools"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		log.Fatal("ANTHROPIC_API_KEY environment variable is required")
	}

	port := envOr("PORT", "8080")
	suiRPCURL := envOr("SUI_RPC_URL", "https://fullnode.mainnet.sui.io")
	aftermathURL := envOr("AFTERMATH_BASE_URL", "https://aftermath.finance/api")
	inviteDBPath := envOr("INVITE_DB_PATH", "invite.db")
	inviteCode := os.Getenv("INVITE_CODE")

	chain, err := sui.NewClient(suiRPCURL)
	if err != nil {
		log.Fatalf("sui client: %v", err)
	}
	log.Printf("[AGENT] sui rpc: %s", suiRPCURL)

	oracle, err := aftermath.NewClient(aftermathURL)
	if err != nil {
		log.Fatalf("aftermath client: %v", err)
	}
	log.Printf("[AGENT] aftermath api: %s", aftermathURL)

	var invites *invite.Store
	if inviteCode != "" {
		invites, err = invite.Open(inviteDBPath, inviteCode)
		if err != nil {
			log.Fatalf("invite store: %v", err)
		}
		defer invites.Close()
		log.Printf("[AGENT] invite gating enabled, db %s", inviteDBPath)
	} else {
		log.Println("[AGENT] INVITE_CODE not set, invite gating disabled")
	}

	registry := engine.NewToolRegistry()
	registry.Register(tools.All(tools.Deps{
		Chain:  chain,
		Oracle: oracle,
		Staker: oracle,
	})...)
	log.Printf("[AGENT] %d tools registered", len(registry.Names()))

	client := anthropic.NewClient(option.WithAPIKey(anthropicKey))
	eng := engine.NewEngine(engine.NewAnthropicClient(&client), registry)

	srv := server.New(eng, chain, invites)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, ":"+port); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Println("[AGENT] shutdown complete")
}
