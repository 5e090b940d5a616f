// Package invite gates chat access behind an invite code. Redeeming a valid
// code marks the wallet address as invited; subsequent checks pass on the
// address alone.
package invite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// ErrCodeRequired is returned when a redeem is attempted without a code.
var ErrCodeRequired = errors.New("invite code is required")

const schema = `
CREATE TABLE IF NOT EXISTS invited (
	address    TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Store persists invited addresses in a local SQLite database.
type Store struct {
	db   *sql.DB
	code string
}

// Open opens or creates the database at path. code is the active invite
// code; redeeming any other code fails.
func Open(path, code string) (*Store, error) {
	if code == "" {
		return nil, errors.New("invite code must be configured")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open invite db: %w", err)
	}
	// The driver serializes access through a single connection; WAL keeps
	// readers from blocking the writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create invite schema: %w", err)
	}
	return &Store{db: db, code: code}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsVerified reports whether the address has already been invited.
func (s *Store) IsVerified(ctx context.Context, address string) (bool, error) {
	if address == "" {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM invited WHERE address = ?", address).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check invited: %w", err)
	}
	return true, nil
}

// Redeem verifies an invite code for an address. An already-invited address
// passes regardless of the code; otherwise the code must match, and the
// address is recorded on success.
func (s *Store) Redeem(ctx context.Context, code, address string) (bool, error) {
	if code == "" {
		return false, ErrCodeRequired
	}

	verified, err := s.IsVerified(ctx, address)
	if err != nil {
		return false, err
	}
	if verified {
		return true, nil
	}

	if code != s.code {
		return false, nil
	}
	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO invited (address) VALUES (?)", address); err != nil {
		return false, fmt.Errorf("record invite: %w", err)
	}
	log.Printf("[INVITE] address %s invited", address)
	return true, nil
}
