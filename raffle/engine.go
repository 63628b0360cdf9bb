// Package raffle implements an accretive token ledger with a gated
// lottery-style issuance event.
//
// Total supply starts at zero and grows only through awards: when the
// owner closes an open event, the engine mints one whole token per
// entrant and splits the minted amount 7/8 to the selected winner and
// 1/8 to the owner. The engine composes the generic ledger with
// access-control and circuit-breaker guards and an injected entropy
// provider. It owns no goroutines and is not safe for concurrent use;
// the actor package serializes calls for concurrent hosts.
package raffle

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/raffleledger/go-raffleledger/access"
	"github.com/raffleledger/go-raffleledger/entropy"
	"github.com/raffleledger/go-raffleledger/eventlog"
	"github.com/raffleledger/go-raffleledger/ledger"
	"github.com/raffleledger/go-raffleledger/safemath"
)

// Engine is the single composition point for ledger, guards, raffle
// state, and notifications. Every public operation either fully commits
// or fails with no state change.
type Engine struct {
	book    *ledger.Ledger
	auth    *access.Authority
	breaker *access.Breaker
	guard   *access.Guard
	seeds   entropy.Provider
	log     *eventlog.Log
	event   Event
}

// New creates an engine owned by owner, with zero supply, unpaused, and
// the event closed. A nil provider defaults to the CSPRNG source.
func New(owner ledger.Address, provider entropy.Provider) (*Engine, error) {
	if owner.IsNull() {
		return nil, ledger.ErrInvalidAddress
	}
	if provider == nil {
		provider = entropy.NewCryptoSource()
	}
	auth := access.NewAuthority(owner)
	breaker := access.NewBreaker()
	return &Engine{
		book:    ledger.New(),
		auth:    auth,
		breaker: breaker,
		guard:   access.NewGuard(auth, breaker),
		seeds:   provider,
		log:     eventlog.NewLog(),
	}, nil
}

// FromState reconstitutes an engine from persisted state. The provider
// and log are supplied fresh; a nil log starts empty.
func FromState(state *State, provider entropy.Provider, log *eventlog.Log) *Engine {
	if provider == nil {
		provider = entropy.NewCryptoSource()
	}
	if log == nil {
		log = eventlog.NewLog()
	}
	auth := access.NewAuthority(state.Owner)
	breaker := access.NewBreaker()
	if state.Paused {
		// Direct restore; Pause() would emit a notification.
		_ = breaker.Pause()
	}
	return &Engine{
		book:    ledger.FromSnapshot(state.Ledger),
		auth:    auth,
		breaker: breaker,
		guard:   access.NewGuard(auth, breaker),
		seeds:   provider,
		log:     log,
		event:   state.Event.clone(),
	}
}

// State returns a deep copy of everything the engine persists.
func (e *Engine) State() *State {
	return &State{
		Owner:  e.auth.Owner(),
		Paused: e.breaker.Paused(),
		Ledger: e.book.Snapshot(),
		Event:  e.event.clone(),
	}
}

// Log returns the engine's notification log.
func (e *Engine) Log() *eventlog.Log {
	return e.log
}

// ----------------------------------------------------------------------------
// Read-only queries. Never gated by the breaker.
// ----------------------------------------------------------------------------

// Owner returns the current owner address.
func (e *Engine) Owner() ledger.Address {
	return e.auth.Owner()
}

// Paused reports whether the circuit breaker is engaged.
func (e *Engine) Paused() bool {
	return e.breaker.Paused()
}

// TotalSupply returns the total units in existence.
func (e *Engine) TotalSupply() *uint256.Int {
	return e.book.TotalSupply()
}

// BalanceOf returns the balance of addr, defaulting to 0.
func (e *Engine) BalanceOf(addr ledger.Address) *uint256.Int {
	return e.book.BalanceOf(addr)
}

// Allowance returns the delegated-spend allowance from owner to spender.
func (e *Engine) Allowance(owner, spender ledger.Address) *uint256.Int {
	return e.book.Allowance(owner, spender)
}

// EventStatus reports whether a raffle event is currently open.
func (e *Engine) EventStatus() bool {
	return e.event.IsOpen
}

// Participants returns the entrants of the current event in insertion
// order.
func (e *Engine) Participants() []ledger.Address {
	return append([]ledger.Address(nil), e.event.Participants...)
}

// EventCount returns how many events have ever been opened.
func (e *Engine) EventCount() uint64 {
	return e.event.EventCount
}

// ----------------------------------------------------------------------------
// Ledger operations
// ----------------------------------------------------------------------------

// Transfer moves amount from caller to to.
func (e *Engine) Transfer(caller, to ledger.Address, amount *uint256.Int) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if err := e.book.Transfer(caller, to, amount); err != nil {
		return err
	}
	e.log.Append(eventlog.Transfer(caller, to, amount))
	return nil
}

// TransferFrom moves amount from from to to using caller's allowance.
func (e *Engine) TransferFrom(caller, from, to ledger.Address, amount *uint256.Int) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if err := e.book.TransferFrom(caller, from, to, amount); err != nil {
		return err
	}
	e.log.Append(eventlog.Transfer(from, to, amount))
	return nil
}

// Approve sets caller's allowance for spender to exactly amount. See
// ledger.Approve for the reordering race this carries.
func (e *Engine) Approve(caller, spender ledger.Address, amount *uint256.Int) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if err := e.book.Approve(caller, spender, amount); err != nil {
		return err
	}
	e.log.Append(eventlog.Approval(caller, spender, amount))
	return nil
}

// IncreaseApproval raises caller's allowance for spender by added.
func (e *Engine) IncreaseApproval(caller, spender ledger.Address, added *uint256.Int) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if err := e.book.IncreaseApproval(caller, spender, added); err != nil {
		return err
	}
	e.log.Append(eventlog.Approval(caller, spender, e.book.Allowance(caller, spender)))
	return nil
}

// DecreaseApproval lowers caller's allowance for spender by subtracted,
// flooring at zero.
func (e *Engine) DecreaseApproval(caller, spender ledger.Address, subtracted *uint256.Int) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if err := e.book.DecreaseApproval(caller, spender, subtracted); err != nil {
		return err
	}
	e.log.Append(eventlog.Approval(caller, spender, e.book.Allowance(caller, spender)))
	return nil
}

// Burn destroys amount units from caller's balance.
func (e *Engine) Burn(caller ledger.Address, amount *uint256.Int) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if err := e.book.Burn(caller, amount); err != nil {
		return err
	}
	e.log.Append(eventlog.Transfer(caller, ledger.NullAddress, amount))
	return nil
}

// BurnFrom destroys amount units from from's balance using caller's
// allowance.
func (e *Engine) BurnFrom(caller, from ledger.Address, amount *uint256.Int) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if err := e.book.BurnFrom(caller, from, amount); err != nil {
		return err
	}
	e.log.Append(eventlog.Transfer(from, ledger.NullAddress, amount))
	return nil
}

// ----------------------------------------------------------------------------
// Access control
// ----------------------------------------------------------------------------

// TransferOwnership replaces the owner. Not gated by the breaker, so a
// paused system can still change hands.
func (e *Engine) TransferOwnership(caller, newOwner ledger.Address) error {
	previous := e.auth.Owner()
	if err := e.auth.TransferOwnership(caller, newOwner); err != nil {
		return err
	}
	e.log.Append(eventlog.OwnershipTransferred(previous, newOwner))
	return nil
}

// RenounceOwnership sets the owner to the null address, permanently
// disabling every owner-gated operation. See access.RenounceOwnership
// for why this is a foot-gun.
func (e *Engine) RenounceOwnership(caller ledger.Address) error {
	previous := e.auth.Owner()
	if err := e.auth.RenounceOwnership(caller); err != nil {
		return err
	}
	e.log.Append(eventlog.OwnershipRenounced(previous))
	return nil
}

// Pause engages the circuit breaker, blocking all mutating operations.
func (e *Engine) Pause(caller ledger.Address) error {
	if err := e.guard.RequireOwner(caller); err != nil {
		return err
	}
	if err := e.breaker.Pause(); err != nil {
		return err
	}
	e.log.Append(eventlog.Pause(caller))
	return nil
}

// Unpause releases the circuit breaker.
func (e *Engine) Unpause(caller ledger.Address) error {
	if err := e.guard.RequireOwner(caller); err != nil {
		return err
	}
	if err := e.breaker.Unpause(); err != nil {
		return err
	}
	e.log.Append(eventlog.Unpause(caller))
	return nil
}

// ----------------------------------------------------------------------------
// Raffle state machine: Closed --OpenEvent--> Open --PickWinner--> Closed
// ----------------------------------------------------------------------------

// OpenEvent opens a new raffle event for entrants.
func (e *Engine) OpenEvent(caller ledger.Address) error {
	if err := e.guard.RequireActiveOwner(caller); err != nil {
		return err
	}
	if e.event.IsOpen {
		return ErrAlreadyOpen
	}
	e.event.EventCount++
	e.event.IsOpen = true
	e.log.Append(eventlog.EventOpened(caller, e.event.EventCount))
	return nil
}

// Enter admits caller into the open event. The owner may not
// participate, and duplicate entries are rejected, not silently dropped.
func (e *Engine) Enter(caller ledger.Address) error {
	if err := e.guard.RequireActive(); err != nil {
		return err
	}
	if !e.event.IsOpen {
		return ErrEventNotOpen
	}
	if caller.IsNull() {
		return ledger.ErrInvalidAddress
	}
	if e.auth.IsOwner(caller) {
		return access.ErrUnauthorized
	}
	// Linear scan; fine at expected entrant counts. Pair the slice with
	// a set index if events ever grow large.
	for _, entrant := range e.event.Participants {
		if entrant == caller {
			return ErrAlreadyEntered
		}
	}
	e.event.Participants = append(e.event.Participants, caller)
	e.log.Append(eventlog.Entered(caller))
	return nil
}

// PickWinner closes the open event: selects one entrant with a seed from
// the entropy provider, mints one whole token per entrant, splits the
// minted amount 7/8 to the winner and 1/8 to the owner, and clears the
// participant list. Returns the winner.
//
// Integer division by 8 truncates, so up to 7 base units of each award
// (mintedTokens mod 8) are never minted.
func (e *Engine) PickWinner(caller ledger.Address) (ledger.Address, error) {
	if err := e.guard.RequireActiveOwner(caller); err != nil {
		return ledger.NullAddress, err
	}
	if !e.event.IsOpen {
		return ledger.NullAddress, ErrEventNotOpen
	}
	count := uint64(len(e.event.Participants))
	if count < 2 {
		return ledger.NullAddress, ErrInsufficientParticipants
	}

	seed, err := e.seeds.Seed()
	if err != nil {
		return ledger.NullAddress, fmt.Errorf("picking winner: %w", err)
	}
	index, err := safemath.Mod(seed, uint256.NewInt(count))
	if err != nil {
		return ledger.NullAddress, err
	}
	minted, err := safemath.Mul(uint256.NewInt(count), UnitScale())
	if err != nil {
		return ledger.NullAddress, err
	}
	winner := e.event.Participants[index.Uint64()]
	beneficiary := e.auth.Owner()

	winnerShare, devShare, err := split(minted)
	if err != nil {
		return ledger.NullAddress, err
	}
	// Prove the mints cannot overflow before touching any state, so the
	// close-and-clear below is all-or-nothing.
	total, err := safemath.Add(winnerShare, devShare)
	if err != nil {
		return ledger.NullAddress, err
	}
	if _, err := safemath.Add(e.book.TotalSupply(), total); err != nil {
		return ledger.NullAddress, err
	}

	e.event.IsOpen = false
	e.event.WinnerIndex = index.Uint64()
	e.event.MintedTokens = minted

	if err := e.book.Mint(winner, winnerShare); err != nil {
		return ledger.NullAddress, err
	}
	e.log.Append(eventlog.Transfer(ledger.NullAddress, winner, winnerShare))
	if err := e.book.Mint(beneficiary, devShare); err != nil {
		return ledger.NullAddress, err
	}
	e.log.Append(eventlog.Transfer(ledger.NullAddress, beneficiary, devShare))
	e.log.Append(eventlog.Award(winner, beneficiary, minted))

	e.event.Participants = nil
	return winner, nil
}

// split divides a minted amount into the 7/8 winner share and 1/8
// beneficiary share, truncating toward zero.
func split(amount *uint256.Int) (winnerShare, devShare *uint256.Int, err error) {
	eighth, err := safemath.Div(amount, uint256.NewInt(8))
	if err != nil {
		return nil, nil, err
	}
	winnerShare, err = safemath.Mul(eighth, uint256.NewInt(7))
	if err != nil {
		return nil, nil, err
	}
	devShare, err = safemath.Mul(eighth, uint256.NewInt(1))
	if err != nil {
		return nil, nil, err
	}
	return winnerShare, devShare, nil
}
