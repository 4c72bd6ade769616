// Package revoke drives the revocation workflow: one ephemeral task per
// in-flight revoke action, walking a fixed state machine from user trigger
// to an on-chain zero-allowance transaction and back into the approval
// collection.
package revoke

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tranvictor/revoker/approvals"
)

// TaskState is the revocation task lifecycle position.
type TaskState int

const (
	Idle TaskState = iota
	AwaitingWallet
	Submitted
	Confirmed
	Failed
)

func (s TaskState) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingWallet:
		return "awaiting wallet"
	case Submitted:
		return "submitted"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the task has resolved one way or the other.
func (s TaskState) Terminal() bool {
	return s == Confirmed || s == Failed
}

// Task tracks one revoke action against one approval key. It is created on
// user trigger and discarded once its terminal state has been surfaced; a
// failed key stays actionable, retry is a fresh task.
type Task struct {
	ID  uuid.UUID
	Key approvals.Key

	mu          sync.Mutex
	state       TaskState
	txHash      string
	errorDetail error
}

func newTask(key approvals.Key) *Task {
	return &Task{ID: uuid.New(), Key: key, state: Idle}
}

func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// TxHash is the submitted transaction hash, set from Submitted onward.
func (t *Task) TxHash() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.txHash
}

// ErrorDetail is only non-nil in Failed.
func (t *Task) ErrorDetail() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errorDetail
}

func (t *Task) setState(s TaskState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
}

func (t *Task) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Failed
	t.errorDetail = err
}

func (t *Task) confirm(txHash string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Confirmed
	t.txHash = txHash
}
