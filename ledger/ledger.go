// Package ledger implements a fungible-unit accounting ledger with
// delegated-spend allowances.
//
// The ledger maintains the conservation invariant: total supply equals
// the sum of all balances after every operation. Supply changes only
// through Mint and Burn; transfers conserve it. All arithmetic routes
// through the safemath package, so no balance or allowance can ever go
// negative or wrap around.
//
// The ledger carries no authorization or pause state of its own; callers
// compose it with whatever issuance policy and guards they need.
package ledger

import (
	"github.com/holiman/uint256"

	"github.com/raffleledger/go-raffleledger/safemath"
)

// Ledger holds balances, the total supply, and allowance entries.
// It is not safe for concurrent use; callers serialize access.
type Ledger struct {
	supply     *uint256.Int
	balances   map[Address]*uint256.Int
	allowances map[Address]map[Address]*uint256.Int
}

// New creates an empty ledger with total supply zero.
func New() *Ledger {
	return &Ledger{
		supply:     new(uint256.Int),
		balances:   make(map[Address]*uint256.Int),
		allowances: make(map[Address]map[Address]*uint256.Int),
	}
}

// TotalSupply returns the total number of units in existence.
func (l *Ledger) TotalSupply() *uint256.Int {
	return l.supply.Clone()
}

// BalanceOf returns the balance of an address, defaulting to 0.
func (l *Ledger) BalanceOf(addr Address) *uint256.Int {
	if bal, ok := l.balances[addr]; ok {
		return bal.Clone()
	}
	return new(uint256.Int)
}

// Allowance returns how many units spender may move out of owner's
// balance, defaulting to 0.
func (l *Ledger) Allowance(owner, spender Address) *uint256.Int {
	if entry, ok := l.allowances[owner]; ok {
		if amount, ok := entry[spender]; ok {
			return amount.Clone()
		}
	}
	return new(uint256.Int)
}

// Holders returns every address with a non-zero balance recorded.
func (l *Ledger) Holders() []Address {
	holders := make([]Address, 0, len(l.balances))
	for addr, bal := range l.balances {
		if !bal.IsZero() {
			holders = append(holders, addr)
		}
	}
	return holders
}

// Transfer moves amount from caller to to. Supply is unchanged.
func (l *Ledger) Transfer(caller, to Address, amount *uint256.Int) error {
	if amount.Gt(l.BalanceOf(caller)) {
		return ErrInsufficientBalance
	}
	if to.IsNull() {
		return ErrInvalidAddress
	}
	return l.move(caller, to, amount)
}

// TransferFrom moves amount from from to to, consuming caller's
// allowance granted by from.
func (l *Ledger) TransferFrom(caller, from, to Address, amount *uint256.Int) error {
	if amount.Gt(l.BalanceOf(from)) {
		return ErrInsufficientBalance
	}
	if amount.Gt(l.Allowance(from, caller)) {
		return ErrInsufficientAllowance
	}
	if to.IsNull() {
		return ErrInvalidAddress
	}

	remaining, err := safemath.Sub(l.Allowance(from, caller), amount)
	if err != nil {
		return ErrInsufficientAllowance
	}
	if err := l.move(from, to, amount); err != nil {
		return err
	}
	l.setAllowance(from, caller, remaining)
	return nil
}

// Approve sets caller's allowance for spender to exactly amount.
//
// This is an unconditional overwrite. A spender observing a pending
// approval can combine the stale allowance with the new one if calls are
// reordered; callers needing safety against that race must use
// IncreaseApproval/DecreaseApproval instead.
func (l *Ledger) Approve(caller, spender Address, amount *uint256.Int) error {
	l.setAllowance(caller, spender, amount.Clone())
	return nil
}

// IncreaseApproval raises caller's allowance for spender by added.
func (l *Ledger) IncreaseApproval(caller, spender Address, added *uint256.Int) error {
	raised, err := safemath.Add(l.Allowance(caller, spender), added)
	if err != nil {
		return err
	}
	l.setAllowance(caller, spender, raised)
	return nil
}

// DecreaseApproval lowers caller's allowance for spender by subtracted,
// flooring at zero rather than failing when subtracted exceeds the
// current allowance.
func (l *Ledger) DecreaseApproval(caller, spender Address, subtracted *uint256.Int) error {
	lowered, err := safemath.Sub(l.Allowance(caller, spender), subtracted)
	if err != nil {
		lowered = new(uint256.Int)
	}
	l.setAllowance(caller, spender, lowered)
	return nil
}

// Mint creates amount new units credited to account, growing supply.
// Privileged: the ledger exposes no caller check of its own; issuance
// policy belongs to the component composing the ledger.
func (l *Ledger) Mint(account Address, amount *uint256.Int) error {
	if account.IsNull() {
		return ErrInvalidAddress
	}
	newSupply, err := safemath.Add(l.supply, amount)
	if err != nil {
		return err
	}
	newBalance, err := safemath.Add(l.BalanceOf(account), amount)
	if err != nil {
		return err
	}
	l.supply = newSupply
	l.setBalance(account, newBalance)
	return nil
}

// Burn destroys amount units from caller's balance, shrinking supply.
func (l *Ledger) Burn(caller Address, amount *uint256.Int) error {
	newBalance, err := safemath.Sub(l.BalanceOf(caller), amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	newSupply, err := safemath.Sub(l.supply, amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	l.setBalance(caller, newBalance)
	l.supply = newSupply
	return nil
}

// BurnFrom destroys amount units from from's balance, consuming caller's
// allowance, with guarantees symmetric to Mint.
func (l *Ledger) BurnFrom(caller, from Address, amount *uint256.Int) error {
	if amount.Gt(l.Allowance(from, caller)) {
		return ErrInsufficientAllowance
	}
	remaining, err := safemath.Sub(l.Allowance(from, caller), amount)
	if err != nil {
		return ErrInsufficientAllowance
	}
	if err := l.Burn(from, amount); err != nil {
		return err
	}
	l.setAllowance(from, caller, remaining)
	return nil
}

// move debits from and credits to. Both new balances are computed before
// either is written, so a failure leaves the ledger untouched.
func (l *Ledger) move(from, to Address, amount *uint256.Int) error {
	newFrom, err := safemath.Sub(l.BalanceOf(from), amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	current := l.BalanceOf(to)
	if from == to {
		current = newFrom
	}
	newTo, err := safemath.Add(current, amount)
	if err != nil {
		return err
	}
	l.setBalance(from, newFrom)
	l.setBalance(to, newTo)
	return nil
}

func (l *Ledger) setBalance(addr Address, amount *uint256.Int) {
	l.balances[addr] = amount
}

func (l *Ledger) setAllowance(owner, spender Address, amount *uint256.Int) {
	entry, ok := l.allowances[owner]
	if !ok {
		entry = make(map[Address]*uint256.Int)
		l.allowances[owner] = entry
	}
	entry[spender] = amount
}
