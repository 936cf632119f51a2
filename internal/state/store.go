package state

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store persists output panel state in a SQLite database
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the state database at dbPath
func Open(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to state database: %w", err)
	}

	store := &Store{conn: conn}
	if err := store.createTables(); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) createTables() error {
	_, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS locked_channels (
		name TEXT PRIMARY KEY
	)`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// LoadLocked returns the persisted locked-channel name set
func (s *Store) LoadLocked() ([]string, error) {
	rows, err := s.conn.Query(`SELECT name FROM locked_channels`)
	if err != nil {
		return nil, fmt.Errorf("failed to load locked channels: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan locked channel: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveLocked replaces the persisted locked-channel name set
func (s *Store) SaveLocked(names []string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM locked_channels`); err != nil {
		return fmt.Errorf("failed to clear locked channels: %w", err)
	}
	for _, name := range names {
		if _, err := tx.Exec(`INSERT INTO locked_channels (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to save locked channel %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.conn.Close()
}
