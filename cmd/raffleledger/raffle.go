package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/raffleledger/go-raffleledger/entropy"
	"github.com/raffleledger/go-raffleledger/ledger"
)

func openEvent(args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger open [options] <owner-address>

Open a raffle event. Only the owner may open, and only one event can be
open at a time.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("owner address required")
	}

	engine, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := engine.OpenEvent(ledger.Address(fs.Arg(0))); err != nil {
		return err
	}
	if err := saveEngine(s, engine); err != nil {
		return err
	}
	fmt.Printf("Opened event #%d\n", engine.EventCount())
	return nil
}

func enter(args []string) error {
	fs := flag.NewFlagSet("enter", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger enter [options] <address>

Join the open raffle event. Each address may enter once; the owner may
not participate.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("entrant address required")
	}

	engine, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := engine.Enter(ledger.Address(fs.Arg(0))); err != nil {
		return err
	}
	if err := saveEngine(s, engine); err != nil {
		return err
	}
	fmt.Printf("Entered %s (%d entrants)\n", fs.Arg(0), len(engine.Participants()))
	return nil
}

func pick(args []string) error {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")
	commitments := fs.String("commitments", "", "Comma-separated commitments to derive the seed from")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger pick [options] <owner-address>

Close the open event: mint one token per entrant and split the minted
amount 7/8 to a randomly selected winner and 1/8 to the owner.

The seed comes from the operating system CSPRNG by default. With
--commitments, it is derived by MiMC-hashing the given values instead,
so a draw can be audited against previously published commitments.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Draw with a random seed
  raffleledger pick --db raffle.db 0xdeb10y

  # Draw with an auditable committed seed
  raffleledger pick --db raffle.db --commitments c1,c2,c3 0xdeb10y
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("owner address required")
	}

	var provider entropy.Provider
	if *commitments != "" {
		mimc := entropy.NewMiMCSource()
		for _, c := range strings.Split(*commitments, ",") {
			if err := mimc.Commit([]byte(c)); err != nil {
				return err
			}
		}
		provider = mimc
	}

	engine, s, err := loadEngine(*dbPath, provider)
	if err != nil {
		return err
	}
	defer s.Close()

	winner, err := engine.PickWinner(ledger.Address(fs.Arg(0)))
	if err != nil {
		return err
	}
	if err := saveEngine(s, engine); err != nil {
		return err
	}

	fmt.Printf("Winner: %s\n", winner)
	fmt.Printf("Winner balance: %s\n", engine.BalanceOf(winner).Dec())
	fmt.Printf("Total supply:   %s\n", engine.TotalSupply().Dec())
	return nil
}
