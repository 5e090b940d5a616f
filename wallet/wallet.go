// Package wallet bridges unsigned transactions produced by the tools to a
// user-controlled signer. Nothing in this package submits a transaction on
// its own; every execution is an explicit, user-approved call.
package wallet

import (
	"context"
	"errors"
)

// ErrNotConnected is returned when an execution is attempted without a
// connected wallet.
var ErrNotConnected = errors.New("wallet not connected")

// ErrRejected is returned when the user declines to sign. A rejection is
// terminal for that transaction; callers must not retry automatically.
var ErrRejected = errors.New("transaction rejected by user")

// Wallet is the signer abstraction. Implementations wrap a browser wallet
// relay, a hardware device, or a test fake.
type Wallet interface {
	// Connected reports whether a signer is attached.
	Connected() bool

	// Address returns the active address, or "" when not connected.
	Address() string

	// SignAndExecuteTransaction presents the transaction for approval,
	// signs it, and submits it. It returns the on-chain digest on success.
	SignAndExecuteTransaction(ctx context.Context, txBytes []byte) (string, error)
}
