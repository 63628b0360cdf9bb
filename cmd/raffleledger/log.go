package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/raffleledger/go-raffleledger/eventlog"
)

func showLog(args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	dbPath := fs.String("db", defaultDB, "Database file")
	kindFilter := fs.String("kind", "", "Filter by notification kind")
	export := fs.String("export", "", "Write entries to a JSONL file instead of printing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: raffleledger log [options]

Show the notification log in append order.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Show every award ever made
  raffleledger log --kind Award

  # Archive the full log
  raffleledger log --export ledger.jsonl
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	_, s, err := loadEngine(*dbPath, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	log, err := s.LoadLog()
	if err != nil {
		return err
	}

	if *export != "" {
		if err := log.ExportJSONL(*export); err != nil {
			return err
		}
		fmt.Printf("Wrote %d entries to %s\n", log.Len(), *export)
		return nil
	}

	entries := log.Entries()
	if *kindFilter != "" {
		entries = log.OfKind(eventlog.Kind(*kindFilter))
	}
	if len(entries) == 0 {
		fmt.Println("No entries recorded")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%-6d %-22s %s\n", entry.Seq, entry.Kind, entry.Timestamp.Format("2006-01-02 15:04:05"))
		for key, value := range entry.Attrs {
			fmt.Printf("       %s: %s\n", key, value)
		}
	}
	return nil
}
