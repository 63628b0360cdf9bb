// Package store persists raffle engine state and its notification log
// in SQLite.
//
// Balances, allowances, and token amounts are 256-bit, so every amount
// column holds the canonical decimal string rather than an integer.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/holiman/uint256"
	_ "modernc.org/sqlite"

	"github.com/raffleledger/go-raffleledger/eventlog"
	"github.com/raffleledger/go-raffleledger/ledger"
	"github.com/raffleledger/go-raffleledger/raffle"
)

// Store handles SQLite persistence for one raffle engine.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store: database path is required")
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS control (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		owner TEXT NOT NULL,
		paused INTEGER NOT NULL DEFAULT 0,
		supply TEXT NOT NULL DEFAULT '0'
	);

	CREATE TABLE IF NOT EXISTS balances (
		address TEXT PRIMARY KEY,
		amount TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS allowances (
		owner TEXT NOT NULL,
		spender TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (owner, spender)
	);

	CREATE TABLE IF NOT EXISTS raffle_event (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		event_count INTEGER NOT NULL DEFAULT 0,
		is_open INTEGER NOT NULL DEFAULT 0,
		winner_index INTEGER NOT NULL DEFAULT 0,
		minted_tokens TEXT
	);

	CREATE TABLE IF NOT EXISTS participants (
		position INTEGER PRIMARY KEY,
		address TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS log_entries (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		attrs TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_log_entries_kind ON log_entries(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveState writes the full engine state in one transaction, replacing
// whatever was stored before.
func (s *Store) SaveState(state *raffle.State) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"control", "balances", "allowances", "raffle_event", "participants"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("store: clearing %s: %w", table, err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO control (id, owner, paused, supply) VALUES (1, ?, ?, ?)`,
		string(state.Owner), state.Paused, state.Ledger.Supply.Dec(),
	)
	if err != nil {
		return fmt.Errorf("store: writing control row: %w", err)
	}

	for addr, amount := range state.Ledger.Balances {
		_, err := tx.Exec(
			`INSERT INTO balances (address, amount) VALUES (?, ?)`,
			string(addr), amount.Dec(),
		)
		if err != nil {
			return fmt.Errorf("store: writing balance of %s: %w", addr, err)
		}
	}

	for owner, spenders := range state.Ledger.Allowances {
		for spender, amount := range spenders {
			_, err := tx.Exec(
				`INSERT INTO allowances (owner, spender, amount) VALUES (?, ?, ?)`,
				string(owner), string(spender), amount.Dec(),
			)
			if err != nil {
				return fmt.Errorf("store: writing allowance %s->%s: %w", owner, spender, err)
			}
		}
	}

	var minted any
	if state.Event.MintedTokens != nil {
		minted = state.Event.MintedTokens.Dec()
	}
	_, err = tx.Exec(
		`INSERT INTO raffle_event (id, event_count, is_open, winner_index, minted_tokens)
		 VALUES (1, ?, ?, ?, ?)`,
		state.Event.EventCount, state.Event.IsOpen, state.Event.WinnerIndex, minted,
	)
	if err != nil {
		return fmt.Errorf("store: writing raffle row: %w", err)
	}

	for i, addr := range state.Event.Participants {
		_, err := tx.Exec(
			`INSERT INTO participants (position, address) VALUES (?, ?)`,
			i, string(addr),
		)
		if err != nil {
			return fmt.Errorf("store: writing participant %s: %w", addr, err)
		}
	}

	return tx.Commit()
}

// LoadState reads the engine state back. It returns sql.ErrNoRows if
// nothing was ever saved.
func (s *Store) LoadState() (*raffle.State, error) {
	state := &raffle.State{
		Ledger: &ledger.Snapshot{
			Balances:   make(map[ledger.Address]*uint256.Int),
			Allowances: make(map[ledger.Address]map[ledger.Address]*uint256.Int),
		},
	}

	var owner, supply string
	row := s.db.QueryRow(`SELECT owner, paused, supply FROM control WHERE id = 1`)
	if err := row.Scan(&owner, &state.Paused, &supply); err != nil {
		return nil, fmt.Errorf("store: reading control row: %w", err)
	}
	state.Owner = ledger.Address(owner)
	var err error
	state.Ledger.Supply, err = parseAmount(supply)
	if err != nil {
		return nil, fmt.Errorf("store: supply: %w", err)
	}

	rows, err := s.db.Query(`SELECT address, amount FROM balances`)
	if err != nil {
		return nil, fmt.Errorf("store: reading balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var addr, amount string
		if err := rows.Scan(&addr, &amount); err != nil {
			return nil, err
		}
		value, err := parseAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("store: balance of %s: %w", addr, err)
		}
		state.Ledger.Balances[ledger.Address(addr)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	allowRows, err := s.db.Query(`SELECT owner, spender, amount FROM allowances`)
	if err != nil {
		return nil, fmt.Errorf("store: reading allowances: %w", err)
	}
	defer allowRows.Close()
	for allowRows.Next() {
		var allowOwner, spender, amount string
		if err := allowRows.Scan(&allowOwner, &spender, &amount); err != nil {
			return nil, err
		}
		value, err := parseAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("store: allowance %s->%s: %w", allowOwner, spender, err)
		}
		ownerAddr := ledger.Address(allowOwner)
		if state.Ledger.Allowances[ownerAddr] == nil {
			state.Ledger.Allowances[ownerAddr] = make(map[ledger.Address]*uint256.Int)
		}
		state.Ledger.Allowances[ownerAddr][ledger.Address(spender)] = value
	}
	if err := allowRows.Err(); err != nil {
		return nil, err
	}

	var minted sql.NullString
	row = s.db.QueryRow(
		`SELECT event_count, is_open, winner_index, minted_tokens FROM raffle_event WHERE id = 1`,
	)
	if err := row.Scan(&state.Event.EventCount, &state.Event.IsOpen, &state.Event.WinnerIndex, &minted); err != nil {
		return nil, fmt.Errorf("store: reading raffle row: %w", err)
	}
	if minted.Valid {
		state.Event.MintedTokens, err = parseAmount(minted.String)
		if err != nil {
			return nil, fmt.Errorf("store: minted tokens: %w", err)
		}
	}

	partRows, err := s.db.Query(`SELECT address FROM participants ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("store: reading participants: %w", err)
	}
	defer partRows.Close()
	for partRows.Next() {
		var addr string
		if err := partRows.Scan(&addr); err != nil {
			return nil, err
		}
		state.Event.Participants = append(state.Event.Participants, ledger.Address(addr))
	}
	if err := partRows.Err(); err != nil {
		return nil, err
	}

	return state, nil
}

// AppendLog writes every log entry with a sequence number above the
// stored high-water mark. Entries already stored are left untouched, so
// repeated calls with a growing log are cheap.
func (s *Store) AppendLog(log *eventlog.Log) error {
	var last sql.NullInt64
	row := s.db.QueryRow(`SELECT MAX(seq) FROM log_entries`)
	if err := row.Scan(&last); err != nil {
		return fmt.Errorf("store: reading log high-water mark: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range log.Entries() {
		if last.Valid && int64(entry.Seq) <= last.Int64 {
			continue
		}
		attrs, err := json.Marshal(entry.Attrs)
		if err != nil {
			return fmt.Errorf("store: encoding attrs of entry %d: %w", entry.Seq, err)
		}
		_, err = tx.Exec(
			`INSERT INTO log_entries (seq, id, kind, timestamp, attrs) VALUES (?, ?, ?, ?, ?)`,
			entry.Seq, entry.ID, string(entry.Kind), entry.Timestamp.UTC(), string(attrs),
		)
		if err != nil {
			return fmt.Errorf("store: writing entry %d: %w", entry.Seq, err)
		}
	}

	return tx.Commit()
}

// LoadLog reads all stored entries in sequence order.
func (s *Store) LoadLog() (*eventlog.Log, error) {
	rows, err := s.db.Query(
		`SELECT seq, id, kind, timestamp, attrs FROM log_entries ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: reading log: %w", err)
	}
	defer rows.Close()

	log := eventlog.NewLog()
	for rows.Next() {
		var entry eventlog.Entry
		var kind, attrs string
		var ts time.Time
		if err := rows.Scan(&entry.Seq, &entry.ID, &kind, &ts, &attrs); err != nil {
			return nil, err
		}
		entry.Kind = eventlog.Kind(kind)
		entry.Timestamp = ts.UTC()
		if err := json.Unmarshal([]byte(attrs), &entry.Attrs); err != nil {
			return nil, fmt.Errorf("store: entry %d attrs: %w", entry.Seq, err)
		}
		log.Restore(entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return log, nil
}

// parseAmount decodes the canonical decimal amount encoding.
func parseAmount(s string) (*uint256.Int, error) {
	value := new(uint256.Int)
	if err := value.SetFromDecimal(s); err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return value, nil
}
