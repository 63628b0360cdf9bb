package raffle

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/raffleledger/go-raffleledger/access"
	"github.com/raffleledger/go-raffleledger/entropy"
	"github.com/raffleledger/go-raffleledger/eventlog"
	"github.com/raffleledger/go-raffleledger/ledger"
	"github.com/raffleledger/go-raffleledger/safemath"
)

const (
	owner = ledger.Address("0xdeb10y")
	addrA = ledger.Address("0xaaaa")
	addrB = ledger.Address("0xbbbb")
	addrC = ledger.Address("0xcccc")
)

func newEngine(t *testing.T, provider entropy.Provider) *Engine {
	t.Helper()
	e, err := New(owner, provider)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

// checkConservation verifies totalSupply equals the sum of all balances.
func checkConservation(t *testing.T, e *Engine) {
	t.Helper()
	sum := new(uint256.Int)
	for addr, bal := range e.State().Ledger.Balances {
		var err error
		sum, err = safemath.Add(sum, bal)
		if err != nil {
			t.Fatalf("summing balance of %s: %v", addr, err)
		}
	}
	if !sum.Eq(e.TotalSupply()) {
		t.Fatalf("conservation violated: supply=%s sum=%s", e.TotalSupply(), sum)
	}
}

func openWithEntrants(t *testing.T, e *Engine, entrants ...ledger.Address) {
	t.Helper()
	if err := e.OpenEvent(owner); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	for _, entrant := range entrants {
		if err := e.Enter(entrant); err != nil {
			t.Fatalf("enter %s failed: %v", entrant, err)
		}
	}
}

func TestNew(t *testing.T) {
	e := newEngine(t, nil)

	if !e.TotalSupply().IsZero() {
		t.Errorf("expected zero supply, got %s", e.TotalSupply())
	}
	if e.Paused() {
		t.Error("expected unpaused start")
	}
	if e.EventStatus() {
		t.Error("expected closed event at start")
	}
	if e.Owner() != owner {
		t.Errorf("expected owner %s, got %s", owner, e.Owner())
	}

	t.Run("NullOwner", func(t *testing.T) {
		_, err := New(ledger.NullAddress, nil)
		if !errors.Is(err, ledger.ErrInvalidAddress) {
			t.Errorf("expected ErrInvalidAddress, got %v", err)
		}
	})
}

// TestAwardScenario is the full walkthrough: open, three entrants, pick.
// With unitScale 10^6, three entrants mint 3_000_000; the winner takes
// 2_625_000 and the owner 375_000.
func TestAwardScenario(t *testing.T) {
	// Seed 1 selects participants[1 mod 3] = addrB.
	e := newEngine(t, entropy.NewFixed(1))

	openWithEntrants(t, e, addrA, addrB, addrC)

	if !e.EventStatus() {
		t.Fatal("event should be open")
	}
	got := e.Participants()
	want := []ledger.Address{addrA, addrB, addrC}
	if len(got) != len(want) {
		t.Fatalf("expected %d participants, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("participant %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	winner, err := e.PickWinner(owner)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if winner != addrB {
		t.Errorf("expected winner %s, got %s", addrB, winner)
	}

	if got := e.TotalSupply().Uint64(); got != 3_000_000 {
		t.Errorf("expected supply 3000000, got %d", got)
	}
	if got := e.BalanceOf(addrB).Uint64(); got != 2_625_000 {
		t.Errorf("expected winner balance 2625000, got %d", got)
	}
	if got := e.BalanceOf(owner).Uint64(); got != 375_000 {
		t.Errorf("expected owner balance 375000, got %d", got)
	}
	checkConservation(t, e)

	// Idempotent clearing: closed and empty regardless of entrant count.
	if e.EventStatus() {
		t.Error("event should be closed after pick")
	}
	if len(e.Participants()) != 0 {
		t.Errorf("participants not cleared: %v", e.Participants())
	}
	if e.EventCount() != 1 {
		t.Errorf("expected eventCount 1, got %d", e.EventCount())
	}

	// The log carries two mints and the award.
	awards := e.Log().OfKind(eventlog.KindAward)
	if len(awards) != 1 {
		t.Fatalf("expected 1 award entry, got %d", len(awards))
	}
	if awards[0].Attrs["winner"] != addrB.String() {
		t.Errorf("award names wrong winner: %s", awards[0].Attrs["winner"])
	}
	if awards[0].Attrs["amount"] != "3000000" {
		t.Errorf("award names wrong amount: %s", awards[0].Attrs["amount"])
	}
	mints := e.Log().OfKind(eventlog.KindTransfer)
	if len(mints) != 2 {
		t.Fatalf("expected 2 mint transfers, got %d", len(mints))
	}
	if mints[0].Attrs["from"] != ledger.NullAddress.String() {
		t.Error("mint transfer should come from the null address")
	}
}

func TestStateMachineLegality(t *testing.T) {
	e := newEngine(t, entropy.NewFixed(0))

	t.Run("EnterWhileClosed", func(t *testing.T) {
		if err := e.Enter(addrA); !errors.Is(err, ErrEventNotOpen) {
			t.Errorf("expected ErrEventNotOpen, got %v", err)
		}
	})

	t.Run("PickWhileClosed", func(t *testing.T) {
		if _, err := e.PickWinner(owner); !errors.Is(err, ErrEventNotOpen) {
			t.Errorf("expected ErrEventNotOpen, got %v", err)
		}
	})

	t.Run("OpenByOutsider", func(t *testing.T) {
		if err := e.OpenEvent(addrA); !errors.Is(err, access.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	if err := e.OpenEvent(owner); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	t.Run("DoubleOpen", func(t *testing.T) {
		if err := e.OpenEvent(owner); !errors.Is(err, ErrAlreadyOpen) {
			t.Errorf("expected ErrAlreadyOpen, got %v", err)
		}
	})

	t.Run("OwnerMayNotEnter", func(t *testing.T) {
		if err := e.Enter(owner); !errors.Is(err, access.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("DuplicateEntrant", func(t *testing.T) {
		if err := e.Enter(addrA); err != nil {
			t.Fatalf("enter failed: %v", err)
		}
		if err := e.Enter(addrA); !errors.Is(err, ErrAlreadyEntered) {
			t.Errorf("expected ErrAlreadyEntered, got %v", err)
		}
	})

	t.Run("NullEntrant", func(t *testing.T) {
		if err := e.Enter(ledger.NullAddress); !errors.Is(err, ledger.ErrInvalidAddress) {
			t.Errorf("expected ErrInvalidAddress, got %v", err)
		}
	})

	t.Run("TooFewParticipants", func(t *testing.T) {
		if _, err := e.PickWinner(owner); !errors.Is(err, ErrInsufficientParticipants) {
			t.Errorf("expected ErrInsufficientParticipants, got %v", err)
		}
		if !e.EventStatus() {
			t.Error("failed pick must leave the event open")
		}
	})

	t.Run("PickByOutsider", func(t *testing.T) {
		if err := e.Enter(addrB); err != nil {
			t.Fatalf("enter failed: %v", err)
		}
		if _, err := e.PickWinner(addrA); !errors.Is(err, access.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestEngineCycles(t *testing.T) {
	e := newEngine(t, entropy.NewFixed(0))

	for cycle := 1; cycle <= 3; cycle++ {
		openWithEntrants(t, e, addrA, addrB)
		if e.EventCount() != uint64(cycle) {
			t.Fatalf("cycle %d: expected eventCount %d, got %d", cycle, cycle, e.EventCount())
		}
		winner, err := e.PickWinner(owner)
		if err != nil {
			t.Fatalf("cycle %d: pick failed: %v", cycle, err)
		}
		if winner != addrA {
			t.Errorf("cycle %d: seed 0 should pick addrA, got %s", cycle, winner)
		}
		checkConservation(t, e)
	}

	// Each cycle mints 2_000_000.
	if got := e.TotalSupply().Uint64(); got != 6_000_000 {
		t.Errorf("expected supply 6000000 after 3 cycles, got %d", got)
	}
}

func TestPauseGating(t *testing.T) {
	e := newEngine(t, entropy.NewFixed(0))
	openWithEntrants(t, e, addrA, addrB)
	if err := e.Transfer(owner, addrA, new(uint256.Int)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if err := e.Pause(owner); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	mutations := map[string]func() error{
		"Transfer":         func() error { return e.Transfer(addrA, addrB, uint256.NewInt(1)) },
		"TransferFrom":     func() error { return e.TransferFrom(addrA, addrB, addrC, uint256.NewInt(1)) },
		"Approve":          func() error { return e.Approve(addrA, addrB, uint256.NewInt(1)) },
		"IncreaseApproval": func() error { return e.IncreaseApproval(addrA, addrB, uint256.NewInt(1)) },
		"DecreaseApproval": func() error { return e.DecreaseApproval(addrA, addrB, uint256.NewInt(1)) },
		"Burn":             func() error { return e.Burn(addrA, uint256.NewInt(1)) },
		"BurnFrom":         func() error { return e.BurnFrom(addrA, addrB, uint256.NewInt(1)) },
		"OpenEvent":        func() error { return e.OpenEvent(owner) },
		"Enter":            func() error { return e.Enter(addrC) },
		"PickWinner":       func() error { _, err := e.PickWinner(owner); return err },
	}
	for name, op := range mutations {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, access.ErrPaused) {
				t.Errorf("expected ErrPaused, got %v", err)
			}
		})
	}

	// Reads stay available while paused.
	if !e.EventStatus() {
		t.Error("event status should still read open")
	}
	if len(e.Participants()) != 2 {
		t.Error("participants should still be readable")
	}
	if e.BalanceOf(addrA) == nil {
		t.Error("balance should still be readable")
	}

	// Unpause restores the full surface.
	if err := e.Unpause(owner); err != nil {
		t.Fatalf("unpause failed: %v", err)
	}
	if _, err := e.PickWinner(owner); err != nil {
		t.Errorf("pick after unpause failed: %v", err)
	}
}

func TestOwnershipLifecycle(t *testing.T) {
	e := newEngine(t, entropy.NewFixed(0))

	if err := e.TransferOwnership(addrA, addrB); !errors.Is(err, access.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := e.TransferOwnership(owner, addrA); err != nil {
		t.Fatalf("transfer ownership failed: %v", err)
	}
	if e.Owner() != addrA {
		t.Errorf("expected owner %s, got %s", addrA, e.Owner())
	}

	// New owner runs the raffle; the old owner may now enter.
	if err := e.OpenEvent(addrA); err != nil {
		t.Fatalf("open by new owner failed: %v", err)
	}
	if err := e.Enter(owner); err != nil {
		t.Fatalf("former owner should be able to enter: %v", err)
	}
	if err := e.Enter(addrB); err != nil {
		t.Fatalf("enter failed: %v", err)
	}

	// The award beneficiary is the owner at award time.
	if _, err := e.PickWinner(addrA); err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if got := e.BalanceOf(addrA).Uint64(); got != 250_000 {
		t.Errorf("expected beneficiary share 250000, got %d", got)
	}

	t.Run("Renounce", func(t *testing.T) {
		if err := e.RenounceOwnership(addrA); err != nil {
			t.Fatalf("renounce failed: %v", err)
		}
		if !e.Owner().IsNull() {
			t.Errorf("expected null owner, got %s", e.Owner())
		}
		// Every owner-gated operation is now permanently disabled.
		if err := e.OpenEvent(addrA); !errors.Is(err, access.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
		if err := e.Pause(addrA); !errors.Is(err, access.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestEntropyFailureAborts(t *testing.T) {
	e := newEngine(t, entropy.NewMiMCSource()) // no commitments absorbed

	openWithEntrants(t, e, addrA, addrB)

	_, err := e.PickWinner(owner)
	if !errors.Is(err, entropy.ErrNoCommitments) {
		t.Fatalf("expected ErrNoCommitments, got %v", err)
	}
	// The failed call leaves every invariant intact.
	if !e.EventStatus() {
		t.Error("event should remain open")
	}
	if len(e.Participants()) != 2 {
		t.Error("participants should survive a failed pick")
	}
	if !e.TotalSupply().IsZero() {
		t.Error("nothing should have been minted")
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		amount     uint64
		winner     uint64
		dev        uint64
		exactSplit bool
	}{
		{8, 7, 1, true},
		{16, 14, 2, true},
		{3_000_000, 2_625_000, 375_000, true},
		// Truncation: the remainder mod 8 is never minted.
		{10, 7, 1, false},
		{15, 7, 1, false},
		{7, 0, 0, false},
	}
	for _, tt := range tests {
		winnerShare, devShare, err := split(uint256.NewInt(tt.amount))
		if err != nil {
			t.Fatalf("split(%d) failed: %v", tt.amount, err)
		}
		if winnerShare.Uint64() != tt.winner {
			t.Errorf("split(%d): expected winner %d, got %d", tt.amount, tt.winner, winnerShare.Uint64())
		}
		if devShare.Uint64() != tt.dev {
			t.Errorf("split(%d): expected dev %d, got %d", tt.amount, tt.dev, devShare.Uint64())
		}
		sum := winnerShare.Uint64() + devShare.Uint64()
		if sum > tt.amount {
			t.Errorf("split(%d): shares exceed amount", tt.amount)
		}
		if tt.exactSplit != (sum == tt.amount) {
			t.Errorf("split(%d): exactness mismatch, sum=%d", tt.amount, sum)
		}
	}
}

func TestLedgerSurfaceThroughEngine(t *testing.T) {
	e := newEngine(t, entropy.NewFixed(0))
	openWithEntrants(t, e, addrA, addrB)
	if _, err := e.PickWinner(owner); err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	// addrA holds 1_750_000 from the award.

	if err := e.Transfer(addrA, addrC, uint256.NewInt(500_000)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if err := e.Approve(addrC, addrB, uint256.NewInt(100_000)); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := e.TransferFrom(addrB, addrC, addrA, uint256.NewInt(60_000)); err != nil {
		t.Fatalf("transferFrom failed: %v", err)
	}
	if got := e.Allowance(addrC, addrB).Uint64(); got != 40_000 {
		t.Errorf("expected allowance 40000, got %d", got)
	}
	if err := e.Burn(addrC, uint256.NewInt(40_000)); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if got := e.TotalSupply().Uint64(); got != 1_960_000 {
		t.Errorf("expected supply 1960000, got %d", got)
	}
	checkConservation(t, e)
}

func TestStateRoundTrip(t *testing.T) {
	e := newEngine(t, entropy.NewFixed(1))
	openWithEntrants(t, e, addrA, addrB, addrC)
	if err := e.Pause(owner); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	restored := FromState(e.State(), entropy.NewFixed(1), nil)

	if restored.Owner() != owner {
		t.Errorf("owner not restored")
	}
	if !restored.Paused() {
		t.Errorf("pause flag not restored")
	}
	if !restored.EventStatus() {
		t.Errorf("open event not restored")
	}
	if len(restored.Participants()) != 3 {
		t.Errorf("participants not restored")
	}
	if restored.EventCount() != 1 {
		t.Errorf("event count not restored")
	}

	// The restored engine continues exactly where the original stopped.
	if err := restored.Unpause(owner); err != nil {
		t.Fatalf("unpause failed: %v", err)
	}
	winner, err := restored.PickWinner(owner)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if winner != addrB {
		t.Errorf("expected winner %s, got %s", addrB, winner)
	}
	checkConservation(t, restored)
}
