// Package vault provides the file-backed credential store: existence probes,
// schema management, inserts and lookups over a single SQLite table.
//
// Every operation opens its own connection and closes it before returning.
// Callers that share a Store across goroutines must serialize calls themselves.
package vault

import (
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/forest6511/credvault/pkg/audit"
	"github.com/forest6511/credvault/pkg/config"

	_ "modernc.org/sqlite"
)

// Constants
const (
	DriverName = "sqlite"
	TableName  = "vault"
	FileMode   = 0600 // Owner read/write only

	// CreateTableSQL is the fixed schema of the vault table. Tools reading the
	// store file directly depend on this exact shape.
	CreateTableSQL = `CREATE TABLE IF NOT EXISTS vault (
	account_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	login TEXT NOT NULL,
	password TEXT NOT NULL,
	note TEXT
)`

	catalogQuery = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`
)

// opener opens a connection to the store at path. Only an open with create set
// may bring the file into existence.
type opener func(path string, create bool) (*sqlx.DB, error)

// Store is the vault table's data-access component
type Store struct {
	path  string         // Path to the SQLite file
	audit *audit.Logger  // Audit sink, may be nil
	diag  zerolog.Logger // Operator diagnostics
	open  opener         // Connection factory
}

// New creates a Store for the SQLite file at path. A nil logger disables auditing.
func New(path string, logger *audit.Logger) *Store {
	return &Store{
		path:  path,
		audit: logger,
		diag:  zerolog.Nop(),
		open:  openSQLite,
	}
}

// Open builds a Store and its audit logger from cfg
func Open(cfg config.Config, diag zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger := audit.NewLogger(cfg.LogPath, loc)
	logger.SetDiagnostics(diag)

	s := New(cfg.StorePath, logger)
	s.SetDiagnostics(diag)
	return s, nil
}

// SetDiagnostics sets the operator-facing logger
func (s *Store) SetDiagnostics(diag zerolog.Logger) {
	s.diag = diag
}

// Path returns the store file path
func (s *Store) Path() string {
	return s.path
}

// Audit returns the audit logger (nil when auditing is disabled)
func (s *Store) Audit() *audit.Logger {
	return s.audit
}

func openSQLite(path string, create bool) (*sqlx.DB, error) {
	dsn := path
	if !create {
		// mode=rw fails with SQLITE_CANTOPEN instead of creating the file
		dsn = "file:" + path + "?mode=rw"
	}
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps each operation on one SQLite handle.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// connect opens the store. A file created by a write-capable open is
// restricted to FileMode before any data reaches it.
func (s *Store) connect(create bool) (*sqlx.DB, error) {
	created := false
	if create {
		_, err := os.Stat(s.path)
		created = errors.Is(err, os.ErrNotExist)
	}

	db, err := s.open(s.path, create)
	if err != nil {
		return nil, err
	}

	if created {
		if err := os.Chmod(s.path, FileMode); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set permissions: %w", err)
		}
	}
	return db, nil
}

// StoreExists reports whether the store file exists. A missing file is a
// normal outcome, recorded as an audit warning.
func (s *Store) StoreExists() bool {
	info, err := os.Stat(s.path)
	if err == nil && info.Mode().IsRegular() {
		return true
	}
	s.audit.Warnf("Database '%s' doesn't exist", s.path)
	return false
}

// TableExists reports whether the store file holds a table named table.
// No connection is opened when the file is absent.
func (s *Store) TableExists(table string) (bool, error) {
	if !s.StoreExists() {
		return false, nil
	}

	db, err := s.connect(false)
	if err != nil {
		return false, backingErr("table_exists", s.path, err)
	}
	defer db.Close()

	rows, err := db.Query(catalogQuery, table)
	if err != nil {
		return false, backingErr("table_exists", s.path, err)
	}
	defer rows.Close()

	matches := 0
	for rows.Next() {
		var name string
		// A row of unexpected shape counts as no match
		if err := rows.Scan(&name); err != nil {
			continue
		}
		if name == table {
			matches++
		}
	}
	if err := rows.Err(); err != nil {
		return false, backingErr("table_exists", s.path, err)
	}

	if matches != 1 {
		s.audit.Warnf("Table '%s' doesn't exist", table)
		return false, nil
	}
	return true, nil
}

// EnsureTable creates the vault table if it is absent. Existing rows are kept.
// The creation event is audited on every call, including when the table
// already existed.
func (s *Store) EnsureTable() error {
	if err := s.checkDiskSpaceForWrite(0); err != nil {
		return backingErr("ensure_table", s.path, err)
	}

	db, err := s.connect(true)
	if err != nil {
		return backingErr("ensure_table", s.path, err)
	}
	defer db.Close()

	if _, err := db.Exec(CreateTableSQL); err != nil {
		return backingErr("ensure_table", s.path, err)
	}

	s.audit.Infof("Create table '%s'", TableName)
	s.diag.Debug().Str("store", s.path).Msg("vault table ensured")
	return nil
}

// Count returns the number of rows in the vault table
func (s *Store) Count() (int, error) {
	db, err := s.connect(false)
	if err != nil {
		return 0, backingErr("count", s.path, err)
	}
	defer db.Close()

	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM vault"); err != nil {
		return 0, backingErr("count", s.path, err)
	}
	return n, nil
}
