// Package actor hosts a raffle engine behind a single processing
// goroutine. The engine itself is not safe for concurrent use; the host
// serializes every call through a mailbox so any number of goroutines
// can share one engine without external locking.
package actor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/raffleledger/go-raffleledger/ledger"
	"github.com/raffleledger/go-raffleledger/raffle"
)

// ErrStopped is returned when a command is submitted to a host that is
// not running.
var ErrStopped = errors.New("actor: host not running")

// defaultMailboxSize bounds how many commands may queue before callers
// block.
const defaultMailboxSize = 100

// command is one unit of work for the processing loop. The loop runs fn
// against the engine and delivers the outcome on reply.
type command struct {
	fn    func(*raffle.Engine) (any, error)
	reply chan outcome
}

type outcome struct {
	value any
	err   error
}

// Host owns a raffle engine and processes commands against it one at a
// time, in submission order.
type Host struct {
	engine *raffle.Engine
	inbox  chan *command
	stopCh chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	running bool
}

// NewHost wraps engine. The host takes ownership: callers must not use
// the engine directly afterwards.
func NewHost(engine *raffle.Engine) *Host {
	return &Host{
		engine: engine,
		inbox:  make(chan *command, defaultMailboxSize),
	}
}

// Start begins the processing loop.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return fmt.Errorf("actor: host already running")
	}
	h.running = true
	h.stopCh = make(chan struct{})
	h.done = make(chan struct{})
	go h.processLoop(h.stopCh, h.done)
	return nil
}

// Stop halts the processing loop and waits for it to drain the command
// in flight. Queued commands that were not yet picked up fail with
// ErrStopped.
func (h *Host) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.stopCh)
	done := h.done
	h.mu.Unlock()
	<-done
}

// IsRunning reports whether the processing loop is active.
func (h *Host) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

func (h *Host) processLoop(stopCh, done chan struct{}) {
	defer close(done)
	for {
		select {
		case cmd := <-h.inbox:
			value, err := cmd.fn(h.engine)
			cmd.reply <- outcome{value: value, err: err}
		case <-stopCh:
			// Fail whatever is still queued instead of leaving callers
			// blocked on their reply channels.
			for {
				select {
				case cmd := <-h.inbox:
					cmd.reply <- outcome{err: ErrStopped}
				default:
					return
				}
			}
		}
	}
}

// do submits fn to the mailbox and waits for its outcome.
func (h *Host) do(ctx context.Context, fn func(*raffle.Engine) (any, error)) (any, error) {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil, ErrStopped
	}
	stopCh := h.stopCh
	h.mu.Unlock()

	cmd := &command{fn: fn, reply: make(chan outcome, 1)}
	select {
	case h.inbox <- cmd:
	case <-stopCh:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case out := <-cmd.reply:
		return out.value, out.err
	case <-ctx.Done():
		// The command may still execute; only the wait is abandoned.
		return nil, ctx.Err()
	}
}

// run is do for commands with no return value.
func (h *Host) run(ctx context.Context, fn func(*raffle.Engine) error) error {
	_, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return nil, fn(e)
	})
	return err
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

// State returns a deep copy of the engine's persistable state.
func (h *Host) State(ctx context.Context) (*raffle.State, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.State(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*raffle.State), nil
}

// Owner returns the current owner address.
func (h *Host) Owner(ctx context.Context) (ledger.Address, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.Owner(), nil
	})
	if err != nil {
		return ledger.NullAddress, err
	}
	return v.(ledger.Address), nil
}

// TotalSupply returns the total units in existence.
func (h *Host) TotalSupply(ctx context.Context) (*uint256.Int, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.TotalSupply(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*uint256.Int), nil
}

// BalanceOf returns the balance of addr.
func (h *Host) BalanceOf(ctx context.Context, addr ledger.Address) (*uint256.Int, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.BalanceOf(addr), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*uint256.Int), nil
}

// Allowance returns the delegated-spend allowance from owner to spender.
func (h *Host) Allowance(ctx context.Context, owner, spender ledger.Address) (*uint256.Int, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.Allowance(owner, spender), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*uint256.Int), nil
}

// EventStatus reports whether a raffle event is currently open.
func (h *Host) EventStatus(ctx context.Context) (bool, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.EventStatus(), nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Participants returns the entrants of the current event.
func (h *Host) Participants(ctx context.Context) ([]ledger.Address, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.Participants(), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ledger.Address), nil
}

// ----------------------------------------------------------------------------
// Mutations
// ----------------------------------------------------------------------------

// Transfer moves amount from caller to to.
func (h *Host) Transfer(ctx context.Context, caller, to ledger.Address, amount *uint256.Int) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.Transfer(caller, to, amount)
	})
}

// TransferFrom moves amount from from to to using caller's allowance.
func (h *Host) TransferFrom(ctx context.Context, caller, from, to ledger.Address, amount *uint256.Int) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.TransferFrom(caller, from, to, amount)
	})
}

// Approve sets caller's allowance for spender to exactly amount.
func (h *Host) Approve(ctx context.Context, caller, spender ledger.Address, amount *uint256.Int) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.Approve(caller, spender, amount)
	})
}

// IncreaseApproval raises caller's allowance for spender by added.
func (h *Host) IncreaseApproval(ctx context.Context, caller, spender ledger.Address, added *uint256.Int) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.IncreaseApproval(caller, spender, added)
	})
}

// DecreaseApproval lowers caller's allowance for spender by subtracted.
func (h *Host) DecreaseApproval(ctx context.Context, caller, spender ledger.Address, subtracted *uint256.Int) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.DecreaseApproval(caller, spender, subtracted)
	})
}

// Burn destroys amount units from caller's balance.
func (h *Host) Burn(ctx context.Context, caller ledger.Address, amount *uint256.Int) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.Burn(caller, amount)
	})
}

// TransferOwnership replaces the owner.
func (h *Host) TransferOwnership(ctx context.Context, caller, newOwner ledger.Address) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.TransferOwnership(caller, newOwner)
	})
}

// Pause engages the circuit breaker.
func (h *Host) Pause(ctx context.Context, caller ledger.Address) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.Pause(caller)
	})
}

// Unpause releases the circuit breaker.
func (h *Host) Unpause(ctx context.Context, caller ledger.Address) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.Unpause(caller)
	})
}

// OpenEvent opens a new raffle event.
func (h *Host) OpenEvent(ctx context.Context, caller ledger.Address) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.OpenEvent(caller)
	})
}

// Enter admits caller into the open event.
func (h *Host) Enter(ctx context.Context, caller ledger.Address) error {
	return h.run(ctx, func(e *raffle.Engine) error {
		return e.Enter(caller)
	})
}

// PickWinner closes the open event and returns the winner.
func (h *Host) PickWinner(ctx context.Context, caller ledger.Address) (ledger.Address, error) {
	v, err := h.do(ctx, func(e *raffle.Engine) (any, error) {
		return e.PickWinner(caller)
	})
	if err != nil {
		return ledger.NullAddress, err
	}
	return v.(ledger.Address), nil
}
