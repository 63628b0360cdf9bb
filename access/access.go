// Package access provides single-owner authorization and a circuit
// breaker that gates all mutating ledger and raffle operations.
//
// Rather than sprinkling owner checks through every operation, callers
// compose an Authority and a Breaker into a Guard and apply it at each
// mutating entry point. Read-only queries are never gated.
package access

import (
	"errors"

	"github.com/raffleledger/go-raffleledger/ledger"
)

var (
	ErrUnauthorized  = errors.New("access: unauthorized")
	ErrPaused        = errors.New("access: system paused")
	ErrAlreadyPaused = errors.New("access: already paused")
	ErrNotPaused     = errors.New("access: not paused")
)

// Authority tracks the single privileged owner address.
type Authority struct {
	owner ledger.Address
}

// NewAuthority creates an authority owned by the given address.
func NewAuthority(owner ledger.Address) *Authority {
	return &Authority{owner: owner}
}

// Owner returns the current owner address.
func (a *Authority) Owner() ledger.Address {
	return a.owner
}

// IsOwner reports whether addr is the current owner.
func (a *Authority) IsOwner(addr ledger.Address) bool {
	return !a.owner.IsNull() && addr == a.owner
}

// TransferOwnership replaces the owner with newOwner. Only the current
// owner may call this, and the new owner must not be the null address.
func (a *Authority) TransferOwnership(caller, newOwner ledger.Address) error {
	if !a.IsOwner(caller) {
		return ErrUnauthorized
	}
	if newOwner.IsNull() {
		return ledger.ErrInvalidAddress
	}
	a.owner = newOwner
	return nil
}

// RenounceOwnership sets the owner to the null address.
//
// WARNING: this is irreversible. With no owner, every owner-gated
// operation is permanently disabled: the breaker can never be toggled
// again and no further raffle event can be opened or drawn.
func (a *Authority) RenounceOwnership(caller ledger.Address) error {
	if !a.IsOwner(caller) {
		return ErrUnauthorized
	}
	a.owner = ledger.NullAddress
	return nil
}

// Breaker is a process-wide paused/unpaused flag.
type Breaker struct {
	paused bool
}

// NewBreaker creates a breaker in the unpaused state.
func NewBreaker() *Breaker {
	return &Breaker{}
}

// Paused reports whether the breaker is engaged.
func (b *Breaker) Paused() bool {
	return b.paused
}

// Pause engages the breaker.
func (b *Breaker) Pause() error {
	if b.paused {
		return ErrAlreadyPaused
	}
	b.paused = true
	return nil
}

// Unpause releases the breaker.
func (b *Breaker) Unpause() error {
	if !b.paused {
		return ErrNotPaused
	}
	b.paused = false
	return nil
}

// Guard composes an Authority and a Breaker into the precondition checks
// applied to mutating entry points.
type Guard struct {
	Auth    *Authority
	Breaker *Breaker
}

// NewGuard creates a guard over the given authority and breaker.
func NewGuard(auth *Authority, breaker *Breaker) *Guard {
	return &Guard{Auth: auth, Breaker: breaker}
}

// RequireOwner fails with ErrUnauthorized unless caller is the owner.
func (g *Guard) RequireOwner(caller ledger.Address) error {
	if !g.Auth.IsOwner(caller) {
		return ErrUnauthorized
	}
	return nil
}

// RequireActive fails with ErrPaused while the breaker is engaged.
func (g *Guard) RequireActive() error {
	if g.Breaker.Paused() {
		return ErrPaused
	}
	return nil
}

// RequireActiveOwner combines RequireActive and RequireOwner.
func (g *Guard) RequireActiveOwner(caller ledger.Address) error {
	if err := g.RequireActive(); err != nil {
		return err
	}
	return g.RequireOwner(caller)
}
