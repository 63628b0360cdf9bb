package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/raffleledger/go-raffleledger/ledger"
)

func balance(args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger balance [options] <address>

Show the token balance of one address.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("address required")
	}

	engine, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println(engine.BalanceOf(ledger.Address(fs.Arg(0))).Dec())
	return nil
}

func transfer(args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")
	from := fs.String("from", "", "Spend a delegated allowance from this address")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger transfer [options] <caller> <to> <amount>

Move tokens from the caller to another address. With --from, the caller
spends their allowance on the named address instead of their own
balance.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		fs.Usage()
		return fmt.Errorf("caller, recipient, and amount required")
	}

	caller := ledger.Address(fs.Arg(0))
	to := ledger.Address(fs.Arg(1))
	amount, err := parseAmount(fs.Arg(2))
	if err != nil {
		return err
	}

	engine, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if *from != "" {
		err = engine.TransferFrom(caller, ledger.Address(*from), to, amount)
	} else {
		err = engine.Transfer(caller, to, amount)
	}
	if err != nil {
		return err
	}
	if err := saveEngine(s, engine); err != nil {
		return err
	}
	fmt.Printf("Transferred %s to %s\n", amount.Dec(), to)
	return nil
}

func approve(args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger approve [options] <owner> <spender> <amount>

Set the spender's allowance on the owner's balance to exactly amount.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		fs.Usage()
		return fmt.Errorf("owner, spender, and amount required")
	}

	owner := ledger.Address(fs.Arg(0))
	spender := ledger.Address(fs.Arg(1))
	amount, err := parseAmount(fs.Arg(2))
	if err != nil {
		return err
	}

	engine, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := engine.Approve(owner, spender, amount); err != nil {
		return err
	}
	if err := saveEngine(s, engine); err != nil {
		return err
	}
	fmt.Printf("Approved %s for %s\n", amount.Dec(), spender)
	return nil
}

func burn(args []string) error {
	fs := flag.NewFlagSet("burn", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")
	from := fs.String("from", "", "Burn from this address using the caller's allowance")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger burn [options] <caller> <amount>

Destroy tokens from the caller's balance, shrinking total supply.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("caller and amount required")
	}

	caller := ledger.Address(fs.Arg(0))
	amount, err := parseAmount(fs.Arg(1))
	if err != nil {
		return err
	}

	engine, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if *from != "" {
		err = engine.BurnFrom(caller, ledger.Address(*from), amount)
	} else {
		err = engine.Burn(caller, amount)
	}
	if err != nil {
		return err
	}
	if err := saveEngine(s, engine); err != nil {
		return err
	}
	fmt.Printf("Burned %s (supply now %s)\n", amount.Dec(), engine.TotalSupply().Dec())
	return nil
}
