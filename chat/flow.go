package chat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/defipilot/sui-agent/tools"
)

// FlowStage is one step of a multi-approval transaction flow.
type FlowStage string

const (
	// StageDepositReady means the pool deposit is waiting for approval.
	StageDepositReady FlowStage = "deposit_ready"

	// StageStakeReady means the deposit is on chain and the farm stake is
	// waiting for approval.
	StageStakeReady FlowStage = "stake_ready"

	// StageComplete means every step has been signed and executed.
	StageComplete FlowStage = "complete"
)

// ErrFlowComplete is returned when a finished flow is asked for more work.
var ErrFlowComplete = errors.New("flow already complete")

// FlowStep is one transaction awaiting wallet approval.
type FlowStep struct {
	Stage       FlowStage
	TxBytes     []byte
	Description string
}

// LiquidityFlow sequences the wallet approvals of an add liquidity result.
// A deposit-then-stake result needs two signatures, and the stake must not
// be offered before the deposit has executed.
type LiquidityFlow struct {
	mu      sync.Mutex
	deposit *tools.PendingTransaction
	stake   *tools.PendingTransaction
	stage   FlowStage

	// Digests of the executed steps, in signing order.
	digests []string
}

// NewLiquidityFlow builds a flow from a successful addLiquidity result.
func NewLiquidityFlow(result *tools.AddLiquidityResult) (*LiquidityFlow, error) {
	if result == nil {
		return nil, errors.New("nil add liquidity result")
	}
	deposit := result.Transactions.Deposit
	stake := result.Transactions.Stake
	if deposit == nil && stake == nil {
		return nil, errors.New("add liquidity result carries no transactions")
	}

	stage := StageDepositReady
	if deposit == nil {
		stage = StageStakeReady
	}
	return &LiquidityFlow{deposit: deposit, stake: stake, stage: stage}, nil
}

// Stage returns the current stage.
func (f *LiquidityFlow) Stage() FlowStage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Next returns the transaction the wallet should sign now.
func (f *LiquidityFlow) Next() (*FlowStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.stage {
	case StageDepositReady:
		return &FlowStep{
			Stage:       StageDepositReady,
			TxBytes:     f.deposit.TransactionBytes,
			Description: f.deposit.Description,
		}, nil
	case StageStakeReady:
		return &FlowStep{
			Stage:       StageStakeReady,
			TxBytes:     f.stake.TransactionBytes,
			Description: f.stake.Description,
		}, nil
	case StageComplete:
		return nil, ErrFlowComplete
	}
	return nil, fmt.Errorf("unknown flow stage %q", f.stage)
}

// Advance records the digest of the step just executed and moves the flow
// forward. It returns the new stage.
func (f *LiquidityFlow) Advance(digest string) (FlowStage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if digest == "" {
		return f.stage, errors.New("empty transaction digest")
	}

	switch f.stage {
	case StageDepositReady:
		f.digests = append(f.digests, digest)
		if f.stake != nil {
			f.stage = StageStakeReady
		} else {
			f.stage = StageComplete
		}
	case StageStakeReady:
		f.digests = append(f.digests, digest)
		f.stage = StageComplete
	case StageComplete:
		return f.stage, ErrFlowComplete
	default:
		return f.stage, fmt.Errorf("unknown flow stage %q", f.stage)
	}
	return f.stage, nil
}

// Digests returns the digests of the executed steps in signing order.
func (f *LiquidityFlow) Digests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.digests))
	copy(out, f.digests)
	return out
}
