package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/raffleledger/go-raffleledger/ledger"
	"github.com/raffleledger/go-raffleledger/raffle"
	"github.com/raffleledger/go-raffleledger/store"
)

func initLedger(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger init [options] <owner-address>

Create a new ledger database with zero supply, owned by the given
address.

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

	engine, err := raffle.New(ledger.Address(fs.Arg(0)), nil)
	if err != nil {
		return err
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := saveEngine(s, engine); err != nil {
		return err
	}

	fmt.Printf("Created %s owned by %s\n", *dbPath, fs.Arg(0))
	return nil
}

func status(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger status [options]

Show owner, pause state, total supply, and the raffle event state.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Owner:        %s\n", displayAddress(engine.Owner()))
	fmt.Printf("Paused:       %v\n", engine.Paused())
	fmt.Printf("Total supply: %s\n", engine.TotalSupply().Dec())
	fmt.Printf("Events held:  %d\n", engine.EventCount())
	if engine.EventStatus() {
		participants := engine.Participants()
		fmt.Printf("Event:        open (%d entrants)\n", len(participants))
		for _, p := range participants {
			fmt.Printf("  %s\n", p)
		}
	} else {
		fmt.Println("Event:        closed")
	}
	return nil
}

func pause(args []string) error {
	return breakerCommand("pause", args)
}

func unpause(args []string) error {
	return breakerCommand("unpause", args)
}

func breakerCommand(name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger %s [options] <owner-address>

Options:
`, name)
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

	caller := ledger.Address(fs.Arg(0))
	if name == "pause" {
		err = engine.Pause(caller)
	} else {
		err = engine.Unpause(caller)
	}
	if err != nil {
		return err
	}
	if err := saveEngine(s, engine); err != nil {
		return err
	}
	fmt.Printf("Ledger %sd\n", name)
	return nil
}

func displayAddress(addr ledger.Address) string {
	if addr.IsNull() {
		return "(none)"
	}
	return addr.String()
}
