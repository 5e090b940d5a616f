// Command chatcli is a terminal client for the agent server. It speaks the
// websocket chat protocol, streams assistant text as it arrives, and renders
// tool results through the component registry.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/defipilot/sui-agent/chat"
	"github.com/defipilot/sui-agent/core"
	"github.com/defipilot/sui-agent/server"
)

func main() {
	_ = godotenv.Load()

	serverURL := os.Getenv("AGENT_WS_URL")
	if serverURL == "" {
		serverURL = "ws://localhost:8080/ws"
	}
	address := os.Getenv("WALLET_ADDRESS")

	ws, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		log.Fatalf("connect %s: %v", serverURL, err)
	}
	defer ws.Close()

	if err := ws.WriteJSON(server.Frame{Type: "init", Address: address}); err != nil {
		log.Fatalf("send init: %v", err)
	}
	var ready server.Frame
	if err := ws.ReadJSON(&ready); err != nil {
		log.Fatalf("read ready: %v", err)
	}
	if ready.Verified != nil && !*ready.Verified {
		fmt.Println("note: this address is not invited yet, chat will be rejected")
	}

	registry := chat.NewRegistry()
	state := chat.NewState()
	stdin := bufio.NewScanner(os.Stdin)

	fmt.Println("connected, type a message (ctrl-d to quit)")
	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			return
		}
		text := strings.TrimSpace(stdin.Text())
		if text == "" {
			continue
		}

		state.AppendUserMessage(text)
		state.BeginAssistantMessage()
		if err := ws.WriteJSON(server.Frame{Type: "user_message", Text: text}); err != nil {
			log.Fatalf("send message: %v", err)
		}
		if err := readTurn(ws, state, registry); err != nil {
			log.Fatalf("read turn: %v", err)
		}
	}
}

// readTurn consumes frames until the turn completes, printing text deltas
// inline and tool views as they finish.
func readTurn(ws *websocket.Conn, state *chat.State, registry *chat.Registry) error {
	for {
		var frame server.Frame
		if err := ws.ReadJSON(&frame); err != nil {
			return err
		}

		switch frame.Type {
		case "text_delta":
			state.AppendTextDelta(frame.Delta)
			fmt.Print(frame.Delta)
		case "tool_call":
			if err := state.UpsertInvocation(frame.Invocation); err != nil {
				log.Printf("invocation update: %v", err)
			}
			fmt.Printf("\n[%s...]\n", frame.Invocation.ToolName)
		case "tool_result":
			if err := state.UpsertInvocation(frame.Invocation); err != nil {
				log.Printf("invocation update: %v", err)
			}
			printView(registry, frame.Invocation)
		case "done":
			fmt.Println()
			return nil
		case "error":
			fmt.Printf("\nerror: %s\n", frame.Message)
			return nil
		}
	}
}

func printView(registry *chat.Registry, inv *core.ToolInvocation) {
	view, err := registry.ViewFor(inv)
	if err != nil {
		log.Printf("render %s: %v", inv.ToolName, err)
		return
	}
	fmt.Printf("\n--- %s ---\n", view.Title)
	if view.Err != "" {
		fmt.Printf("error: %s\n", view.Err)
	}
	for _, line := range view.Lines {
		fmt.Println(line)
	}
	if view.Raw != "" {
		fmt.Println(view.Raw)
	}
	fmt.Println("---")
}
