package raffle

import (
	"github.com/holiman/uint256"

	"github.com/raffleledger/go-raffleledger/ledger"
)

// Decimals is the number of decimal places in one whole token.
const Decimals = 6

// UnitScale returns the number of base units per whole token (10^Decimals).
// Each award mints one whole token per entrant.
func UnitScale() *uint256.Int {
	return uint256.NewInt(1_000_000)
}

// Event is the singleton raffle event record. It is overwritten in place
// on each open/close cycle rather than recreated; history lives only in
// the notification log.
type Event struct {
	// EventCount increments every time an event opens.
	EventCount uint64

	// Participants holds entrants in insertion order, no duplicates.
	// Cleared (the slice, not the struct) after each award.
	Participants []ledger.Address

	// MintedTokens is the total minted at the most recent close.
	MintedTokens *uint256.Int

	// WinnerIndex is the selected index at the most recent close.
	WinnerIndex uint64

	// IsOpen reports whether the event is currently accepting entrants.
	IsOpen bool
}

// clone deep-copies the event record.
func (e Event) clone() Event {
	out := e
	out.Participants = append([]ledger.Address(nil), e.Participants...)
	if e.MintedTokens != nil {
		out.MintedTokens = e.MintedTokens.Clone()
	}
	return out
}

// State is everything the engine persists between runs.
type State struct {
	Owner  ledger.Address
	Paused bool
	Ledger *ledger.Snapshot
	Event  Event
}
