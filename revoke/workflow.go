package revoke

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/revoker/approvals"
	"github.com/tranvictor/revoker/common"
	"github.com/tranvictor/revoker/networks"
	"github.com/tranvictor/revoker/wallet"
)

// DefaultSubmitTimeout bounds one revocation attempt end to end (crafting,
// signing, broadcast). A stalled wallet or node resolves the task to Failed
// and the key stays retryable instead of hanging.
const DefaultSubmitTimeout = 2 * time.Minute

// TransactionFailure wraps whatever went wrong between building and
// broadcasting the revocation tx. The approval collection is untouched when
// it occurs.
type TransactionFailure struct {
	Stage string
	Err   error
}

func (e *TransactionFailure) Error() string {
	return fmt.Sprintf("revocation %s failed: %s", e.Stage, e.Err)
}

func (e *TransactionFailure) Unwrap() error {
	return e.Err
}

// TxCrafter assembles the unsigned zero-allowance approve transaction:
// calldata, nonce, gas. Implemented against a node for real runs and faked
// in tests.
type TxCrafter interface {
	Craft(ctx context.Context, from, token, spender ethcommon.Address) (*types.Transaction, error)
}

// Submitter pushes a signed transaction out and reports its hash once at
// least one node accepted it.
type Submitter interface {
	Submit(ctx context.Context, tx *types.Transaction) (string, error)
}

// Workflow owns all revocation tasks of the session. It enforces the
// single-flight rule: at most one active task per approval key, while
// distinct keys proceed independently.
type Workflow struct {
	controller *wallet.Controller
	collection *approvals.Collection
	crafter    TxCrafter
	submitter  Submitter
	network    networks.Network
	timeout    time.Duration

	mu       sync.Mutex
	inflight map[approvals.Key]*Task
}

func NewWorkflow(
	controller *wallet.Controller,
	collection *approvals.Collection,
	crafter TxCrafter,
	submitter Submitter,
	network networks.Network,
) *Workflow {
	return &Workflow{
		controller: controller,
		collection: collection,
		crafter:    crafter,
		submitter:  submitter,
		network:    network,
		timeout:    DefaultSubmitTimeout,
		inflight:   map[approvals.Key]*Task{},
	}
}

// SetTimeout overrides the per-attempt deadline.
func (w *Workflow) SetTimeout(d time.Duration) {
	w.timeout = d
}

// Revoke runs one revocation for key and returns its task in a terminal
// state — except when a task for the same key is already in flight, in which
// case that running task is returned untouched and nothing new is submitted.
//
// On Confirmed the approval collection reports zero allowance for key and
// the headline stats shift accordingly. On Failed the collection is
// untouched and the key remains actionable.
func (w *Workflow) Revoke(ctx context.Context, key approvals.Key) *Task {
	w.mu.Lock()
	if running, ok := w.inflight[key]; ok {
		w.mu.Unlock()
		return running
	}
	task := newTask(key)
	w.inflight[key] = task
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.inflight, key)
		w.mu.Unlock()
	}()

	w.run(ctx, task)
	return task
}

// InFlight reports whether a task for key is currently running.
func (w *Workflow) InFlight(key approvals.Key) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.inflight[key]
	return ok
}

func (w *Workflow) run(ctx context.Context, task *Task) {
	// Wallet connection always settles before any submission is attempted.
	task.setState(AwaitingWallet)
	session, err := w.controller.Connect(ctx)
	if err != nil {
		task.fail(err)
		return
	}

	approval, found := w.collection.Get(task.Key)
	if !found {
		task.fail(fmt.Errorf("no approval found for %s", task.Key))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	token := common.HexToAddress(approval.TokenAddress)
	spender := common.HexToAddress(approval.SpenderAddress)

	tx, err := w.crafter.Craft(ctx, session.Address(), token, spender)
	if err != nil {
		task.fail(&TransactionFailure{Stage: "build", Err: err})
		return
	}

	signed, err := session.SignTx(tx, big.NewInt(w.network.GetChainID()))
	if err != nil {
		task.fail(&TransactionFailure{Stage: "signing", Err: err})
		return
	}

	task.setState(Submitted)
	hash, err := w.submitter.Submit(ctx, signed)
	if err != nil {
		task.fail(&TransactionFailure{Stage: "broadcast", Err: err})
		return
	}

	task.confirm(hash)
	w.collection.ZeroOut(task.Key)
}
