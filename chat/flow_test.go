package chat_test

import (
	"errors"
	"testing"

	"github.com/defipilot/sui-agent/chat"
	"github.com/defipilot/sui-agent/tools"
)

func TestLiquidityFlowDepositThenStake(t *testing.T) {
	flow, err := chat.NewLiquidityFlow(&tools.AddLiquidityResult{
		Transactions: tools.LiquidityTransactions{
			Deposit: &tools.PendingTransaction{TransactionBytes: []byte{1}, Description: "Add liquidity to pool"},
			Stake:   &tools.PendingTransaction{TransactionBytes: []byte{2}, Description: "Stake LP tokens in farm"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	step, err := flow.Next()
	if err != nil {
		t.Fatal(err)
	}
	if step.Stage != chat.StageDepositReady || step.TxBytes[0] != 1 {
		t.Fatalf("first step = %+v, want deposit", step)
	}

	stage, err := flow.Advance("digest-1")
	if err != nil {
		t.Fatal(err)
	}
	if stage != chat.StageStakeReady {
		t.Fatalf("stage after deposit = %s, want stake_ready", stage)
	}

	step, err = flow.Next()
	if err != nil {
		t.Fatal(err)
	}
	if step.Stage != chat.StageStakeReady || step.TxBytes[0] != 2 {
		t.Fatalf("second step = %+v, want stake", step)
	}

	stage, err = flow.Advance("digest-2")
	if err != nil {
		t.Fatal(err)
	}
	if stage != chat.StageComplete {
		t.Fatalf("final stage = %s, want complete", stage)
	}

	if _, err := flow.Next(); !errors.Is(err, chat.ErrFlowComplete) {
		t.Errorf("Next after completion = %v, want ErrFlowComplete", err)
	}
	digests := flow.Digests()
	if len(digests) != 2 || digests[0] != "digest-1" || digests[1] != "digest-2" {
		t.Errorf("digests = %v", digests)
	}
}

func TestLiquidityFlowDepositOnly(t *testing.T) {
	flow, err := chat.NewLiquidityFlow(&tools.AddLiquidityResult{
		Transactions: tools.LiquidityTransactions{
			Deposit: &tools.PendingTransaction{TransactionBytes: []byte{1}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	stage, err := flow.Advance("digest-1")
	if err != nil {
		t.Fatal(err)
	}
	if stage != chat.StageComplete {
		t.Errorf("stage = %s, want complete after the only step", stage)
	}
}

func TestLiquidityFlowStakeOnlyStartsAtStake(t *testing.T) {
	flow, err := chat.NewLiquidityFlow(&tools.AddLiquidityResult{
		Transactions: tools.LiquidityTransactions{
			Stake: &tools.PendingTransaction{TransactionBytes: []byte{2}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if flow.Stage() != chat.StageStakeReady {
		t.Errorf("stage = %s, want stake_ready", flow.Stage())
	}
}

func TestLiquidityFlowRejectsEmptyDigest(t *testing.T) {
	flow, err := chat.NewLiquidityFlow(&tools.AddLiquidityResult{
		Transactions: tools.LiquidityTransactions{
			Deposit: &tools.PendingTransaction{TransactionBytes: []byte{1}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := flow.Advance(""); err == nil {
		t.Fatal("empty digest must be rejected")
	}
	if flow.Stage() != chat.StageDepositReady {
		t.Errorf("stage moved to %s on rejected advance", flow.Stage())
	}
}

func TestNewLiquidityFlowRequiresTransactions(t *testing.T) {
	if _, err := chat.NewLiquidityFlow(&tools.AddLiquidityResult{}); err == nil {
		t.Fatal("result without transactions must be rejected")
	}
	if _, err := chat.NewLiquidityFlow(nil); err == nil {
		t.Fatal("nil result must be rejected")
	}
}
