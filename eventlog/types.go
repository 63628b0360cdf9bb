// Package eventlog records the append-only notification stream emitted
// by the ledger and raffle engine.
//
// Entries are consumed by external observers and never re-read by the
// core. Amounts are carried as decimal strings so entries survive JSON
// round-trips without precision loss.
package eventlog

import (
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/raffleledger/go-raffleledger/ledger"
)

// Kind identifies the notification type.
type Kind string

const (
	KindTransfer             Kind = "Transfer"
	KindApproval             Kind = "Approval"
	KindOwnershipTransferred Kind = "OwnershipTransferred"
	KindOwnershipRenounced   Kind = "OwnershipRenounced"
	KindPause                Kind = "Pause"
	KindUnpause              Kind = "Unpause"
	KindEventOpened          Kind = "OpenEvent"
	KindEntered              Kind = "Entered"
	KindAward                Kind = "Award"
)

// Entry is a single notification. Seq is assigned on append and is
// strictly increasing within one log.
type Entry struct {
	ID        string            `json:"id"`
	Seq       uint64            `json:"seq"`
	Kind      Kind              `json:"kind"`
	Timestamp time.Time         `json:"timestamp"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// Log is an append-only sequence of entries.
type Log struct {
	entries []Entry
	nextSeq uint64
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append assigns an ID, sequence number, and timestamp to the entry and
// stores it.
func (l *Log) Append(kind Kind, attrs map[string]string) Entry {
	entry := Entry{
		ID:        uuid.New().String(),
		Seq:       l.nextSeq,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Attrs:     attrs,
	}
	l.nextSeq++
	l.entries = append(l.entries, entry)
	return entry
}

// Restore re-adds a previously persisted entry, keeping nextSeq ahead of
// everything restored.
func (l *Log) Restore(entry Entry) {
	l.entries = append(l.entries, entry)
	if entry.Seq >= l.nextSeq {
		l.nextSeq = entry.Seq + 1
	}
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// OfKind returns all entries of one kind, in append order.
func (l *Log) OfKind(kind Kind) []Entry {
	var out []Entry
	for _, entry := range l.entries {
		if entry.Kind == kind {
			out = append(out, entry)
		}
	}
	return out
}

// Notification constructors. Each returns the attribute map for one
// entry kind; the log assigns identity on append.

// Transfer describes a balance movement. Mints use the null address as
// from.
func Transfer(from, to ledger.Address, amount *uint256.Int) (Kind, map[string]string) {
	return KindTransfer, map[string]string{
		"from":   from.String(),
		"to":     to.String(),
		"amount": amount.Dec(),
	}
}

// Approval describes an allowance being set.
func Approval(owner, spender ledger.Address, amount *uint256.Int) (Kind, map[string]string) {
	return KindApproval, map[string]string{
		"owner":   owner.String(),
		"spender": spender.String(),
		"amount":  amount.Dec(),
	}
}

// OwnershipTransferred describes an owner change.
func OwnershipTransferred(previous, next ledger.Address) (Kind, map[string]string) {
	return KindOwnershipTransferred, map[string]string{
		"previousOwner": previous.String(),
		"newOwner":      next.String(),
	}
}

// OwnershipRenounced describes ownership being permanently given up.
func OwnershipRenounced(previous ledger.Address) (Kind, map[string]string) {
	return KindOwnershipRenounced, map[string]string{
		"previousOwner": previous.String(),
	}
}

// Pause describes the breaker engaging.
func Pause(by ledger.Address) (Kind, map[string]string) {
	return KindPause, map[string]string{"by": by.String()}
}

// Unpause describes the breaker releasing.
func Unpause(by ledger.Address) (Kind, map[string]string) {
	return KindUnpause, map[string]string{"by": by.String()}
}

// EventOpened describes a raffle event opening.
func EventOpened(initiator ledger.Address, eventCount uint64) (Kind, map[string]string) {
	return KindEventOpened, map[string]string{
		"initiator":  initiator.String(),
		"eventCount": uint256.NewInt(eventCount).Dec(),
	}
}

// Entered describes an entrant joining the open event.
func Entered(entrant ledger.Address) (Kind, map[string]string) {
	return KindEntered, map[string]string{"entrant": entrant.String()}
}

// Award describes the mint-and-split at event close. Amount is the full
// minted total before the 7/8-1/8 split.
func Award(winner, beneficiary ledger.Address, amount *uint256.Int) (Kind, map[string]string) {
	return KindAward, map[string]string{
		"winner":      winner.String(),
		"beneficiary": beneficiary.String(),
		"amount":      amount.Dec(),
	}
}
