package ledger

import "github.com/holiman/uint256"

// Snapshot is a deep copy of ledger state, suitable for persistence or
// consistent reads while a writer goroutine keeps mutating the original.
type Snapshot struct {
	Supply     *uint256.Int
	Balances   map[Address]*uint256.Int
	Allowances map[Address]map[Address]*uint256.Int
}

// Snapshot returns a deep copy of the current ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	snap := &Snapshot{
		Supply:     l.supply.Clone(),
		Balances:   make(map[Address]*uint256.Int, len(l.balances)),
		Allowances: make(map[Address]map[Address]*uint256.Int, len(l.allowances)),
	}
	for addr, bal := range l.balances {
		snap.Balances[addr] = bal.Clone()
	}
	for owner, entry := range l.allowances {
		spenders := make(map[Address]*uint256.Int, len(entry))
		for spender, amount := range entry {
			spenders[spender] = amount.Clone()
		}
		snap.Allowances[owner] = spenders
	}
	return snap
}

// FromSnapshot reconstitutes a ledger from a snapshot.
func FromSnapshot(snap *Snapshot) *Ledger {
	l := New()
	if snap == nil {
		return l
	}
	if snap.Supply != nil {
		l.supply = snap.Supply.Clone()
	}
	for addr, bal := range snap.Balances {
		l.balances[addr] = bal.Clone()
	}
	for owner, entry := range snap.Allowances {
		for spender, amount := range entry {
			l.setAllowance(owner, spender, amount.Clone())
		}
	}
	return l
}
