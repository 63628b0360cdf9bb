package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	commands := map[string]func([]string) error{
		"init":     initLedger,
		"status":   status,
		"balance":  balance,
		"transfer": transfer,
		"approve":  approve,
		"burn":     burn,
		"pause":    pause,
		"unpause":  unpause,
		"open":     openEvent,
		"enter":    enter,
		"pick":     pick,
		"log":      showLog,
	}

	switch command {
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("raffleledger version 1.0.0")
	default:
		run, ok := commands[command]
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
			printUsage()
			os.Exit(1)
		}
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println(`raffleledger - accretive token ledger with lottery issuance

Usage:
  raffleledger <command> [options]

Commands:
  init       Create a new ledger database
  status     Show owner, supply, and event state
  balance    Show the balance of one address
  transfer   Move tokens between addresses
  approve    Set a delegated-spend allowance
  burn       Destroy tokens from a balance
  pause      Engage the circuit breaker
  unpause    Release the circuit breaker
  open       Open a raffle event for entrants
  enter      Join the open raffle event
  pick       Close the event and award the winner
  log        Show or export the notification log
  help       Show this help message
  version    Show version information

Examples:
  # Create a ledger owned by 0xdeb10y
  raffleledger init --db raffle.db 0xdeb10y

  # Run one raffle cycle
  raffleledger open --db raffle.db 0xdeb10y
  raffleledger enter --db raffle.db 0xa11ce
  raffleledger enter --db raffle.db 0xb0b
  raffleledger pick --db raffle.db 0xdeb10y

  # Inspect the outcome
  raffleledger status --db raffle.db
  raffleledger log --db raffle.db --kind Award

For command-specific help, run:
  raffleledger <command> --help`)
}
