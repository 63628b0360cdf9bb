package actor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/raffleledger/go-raffleledger/entropy"
	"github.com/raffleledger/go-raffleledger/ledger"
	"github.com/raffleledger/go-raffleledger/raffle"
)

const hostOwner = ledger.Address("0xdeb10y")

func newHost(t *testing.T) *Host {
	t.Helper()
	engine, err := raffle.New(hostOwner, entropy.NewFixed(0))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	h := NewHost(engine)
	if err := h.Start(); err != nil {
		t.Fatalf("start host: %v", err)
	}
	t.Cleanup(h.Stop)
	return h
}

func TestHostLifecycle(t *testing.T) {
	engine, err := raffle.New(hostOwner, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	h := NewHost(engine)

	if h.IsRunning() {
		t.Error("host should not run before Start")
	}
	if _, err := h.Owner(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped before Start, got %v", err)
	}

	if err := h.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := h.Start(); err == nil {
		t.Error("double start should fail")
	}
	if !h.IsRunning() {
		t.Error("host should run after Start")
	}

	h.Stop()
	h.Stop() // idempotent
	if h.IsRunning() {
		t.Error("host should not run after Stop")
	}
	if _, err := h.Owner(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped after Stop, got %v", err)
	}
}

func TestHostRaffleFlow(t *testing.T) {
	h := newHost(t)
	ctx := context.Background()

	if err := h.OpenEvent(ctx, hostOwner); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	for _, entrant := range []ledger.Address{"0xaaaa", "0xbbbb", "0xcccc"} {
		if err := h.Enter(ctx, entrant); err != nil {
			t.Fatalf("enter %s failed: %v", entrant, err)
		}
	}

	winner, err := h.PickWinner(ctx, hostOwner)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if winner != "0xaaaa" {
		t.Errorf("seed 0 should pick the first entrant, got %s", winner)
	}

	supply, err := h.TotalSupply(ctx)
	if err != nil {
		t.Fatalf("supply query failed: %v", err)
	}
	if supply.Uint64() != 3_000_000 {
		t.Errorf("expected supply 3000000, got %d", supply.Uint64())
	}

	// Engine errors pass through the mailbox untouched.
	if _, err := h.PickWinner(ctx, hostOwner); !errors.Is(err, raffle.ErrEventNotOpen) {
		t.Errorf("expected ErrEventNotOpen, got %v", err)
	}
}

// TestHostConcurrentEntrants races many entrants against the shared
// engine; the mailbox must admit each address exactly once.
func TestHostConcurrentEntrants(t *testing.T) {
	h := newHost(t)
	ctx := context.Background()

	if err := h.OpenEvent(ctx, hostOwner); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	entrants := []ledger.Address{"0x01", "0x02", "0x03", "0x04", "0x05", "0x06", "0x07", "0x08"}
	var wg sync.WaitGroup
	dup := make(chan error, len(entrants)*2)
	for _, entrant := range entrants {
		// Each entrant tries twice; exactly one attempt must succeed.
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dup <- h.Enter(ctx, entrant)
			}()
		}
	}
	wg.Wait()
	close(dup)

	var rejected int
	for err := range dup {
		if errors.Is(err, raffle.ErrAlreadyEntered) {
			rejected++
		} else if err != nil {
			t.Errorf("unexpected enter error: %v", err)
		}
	}
	if rejected != len(entrants) {
		t.Errorf("expected %d duplicate rejections, got %d", len(entrants), rejected)
	}

	got, err := h.Participants(ctx)
	if err != nil {
		t.Fatalf("participants query failed: %v", err)
	}
	if len(got) != len(entrants) {
		t.Errorf("expected %d participants, got %d", len(entrants), len(got))
	}
}

func TestHostContextCancellation(t *testing.T) {
	h := newHost(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Owner(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHostStateSnapshot(t *testing.T) {
	h := newHost(t)
	ctx := context.Background()

	if err := h.OpenEvent(ctx, hostOwner); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	state, err := h.State(ctx)
	if err != nil {
		t.Fatalf("state query failed: %v", err)
	}
	if !state.Event.IsOpen {
		t.Error("snapshot should show the open event")
	}

	// The snapshot is detached from the live engine.
	state.Event.IsOpen = false
	open, err := h.EventStatus(ctx)
	if err != nil {
		t.Fatalf("status query failed: %v", err)
	}
	if !open {
		t.Error("mutating the snapshot must not touch the engine")
	}
}
