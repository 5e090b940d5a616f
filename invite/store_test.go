package invite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/defipilot/sui-agent/invite"
)

func openStore(t *testing.T) *invite.Store {
	t.Helper()
	store, err := invite.Open(filepath.Join(t.TempDir(), "invite.db"), "beta-code")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedeemValidCodeInvitesAddress(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ok, err := store.Redeem(ctx, "beta-code", "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("valid code rejected")
	}

	verified, err := store.IsVerified(ctx, "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if !verified {
		t.Error("address not recorded after redeem")
	}
}

func TestRedeemInvalidCode(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ok, err := store.Redeem(ctx, "wrong-code", "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("invalid code accepted")
	}

	verified, _ := store.IsVerified(ctx, "0xabc")
	if verified {
		t.Error("address recorded despite invalid code")
	}
}

func TestRedeemPassesForAlreadyInvitedAddress(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Redeem(ctx, "beta-code", "0xabc"); err != nil {
		t.Fatal(err)
	}

	// The code no longer matters once the address is in.
	ok, err := store.Redeem(ctx, "anything", "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("already-invited address rejected")
	}
}

func TestRedeemRequiresCode(t *testing.T) {
	store := openStore(t)

	_, err := store.Redeem(context.Background(), "", "0xabc")
	if !errors.Is(err, invite.ErrCodeRequired) {
		t.Fatalf("err = %v, want ErrCodeRequired", err)
	}
}

func TestIsVerifiedUnknownAddress(t *testing.T) {
	store := openStore(t)

	verified, err := store.IsVerified(context.Background(), "0xnobody")
	if err != nil {
		t.Fatal(err)
	}
	if verified {
		t.Error("unknown address reported as verified")
	}
}

func TestOpenRequiresConfiguredCode(t *testing.T) {
	if _, err := invite.Open(filepath.Join(t.TempDir(), "invite.db"), ""); err == nil {
		t.Fatal("expected error for empty invite code")
	}
}
