package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Bridge executes tool-produced transactions against a Wallet. It fails
// fast when no wallet is connected and treats a user rejection as terminal.
type Bridge struct {
	wallet Wallet
}

// NewBridge creates a bridge over the given wallet.
func NewBridge(w Wallet) *Bridge {
	return &Bridge{wallet: w}
}

// Execute signs and submits raw transaction bytes, returning the digest.
func (b *Bridge) Execute(ctx context.Context, txBytes []byte) (string, error) {
	if b.wallet == nil || !b.wallet.Connected() {
		return "", ErrNotConnected
	}
	if len(txBytes) == 0 {
		return "", fmt.Errorf("empty transaction")
	}

	digest, err := b.wallet.SignAndExecuteTransaction(ctx, txBytes)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			log.Printf("[WALLET] user rejected transaction for %s", b.wallet.Address())
			return "", err
		}
		return "", fmt.Errorf("execute transaction: %w", err)
	}
	log.Printf("[WALLET] transaction executed, digest %s", digest)
	return digest, nil
}

// ExecuteRaw normalizes a wire-encoded transaction payload and executes it.
func (b *Bridge) ExecuteRaw(ctx context.Context, payload json.RawMessage) (string, error) {
	txBytes, err := NormalizeTxBytes(payload)
	if err != nil {
		return "", err
	}
	return b.Execute(ctx, txBytes)
}
