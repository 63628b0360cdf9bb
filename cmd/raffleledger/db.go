package main

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/raffleledger/go-raffleledger/entropy"
	"github.com/raffleledger/go-raffleledger/raffle"
	"github.com/raffleledger/go-raffleledger/store"
)

const defaultDB = "raffle.db"

// loadEngine reconstitutes the engine and its log from the database.
func loadEngine(dbPath string, provider entropy.Provider) (*raffle.Engine, *store.Store, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	state, err := s.LoadState()
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("load state (did you run init?): %w", err)
	}
	log, err := s.LoadLog()
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("load log: %w", err)
	}
	return raffle.FromState(state, provider, log), s, nil
}

// saveEngine persists the engine state and any new log entries.
func saveEngine(s *store.Store, engine *raffle.Engine) error {
	if err := s.SaveState(engine.State()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := s.AppendLog(engine.Log()); err != nil {
		return fmt.Errorf("save log: %w", err)
	}
	return nil
}

// parseAmount decodes a decimal token amount from the command line.
func parseAmount(s string) (*uint256.Int, error) {
	amount := new(uint256.Int)
	if err := amount.SetFromDecimal(s); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}
