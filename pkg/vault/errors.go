package vault

import (
	"errors"
	"fmt"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Errors
var (
	ErrBackingIO        = errors.New("vault: backing store failure")
	ErrMissingField     = errors.New("vault: required field is missing")
	ErrInsufficientDisk = errors.New("vault: insufficient disk space")
)

// BackingError reports a fault in the underlying store (open, read, write, commit).
// It matches ErrBackingIO with errors.Is.
type BackingError struct {
	Op   string // Store operation that failed (e.g. "insert", "select_by_name")
	Path string // Store path
	Err  error  // Underlying cause
}

func (e *BackingError) Error() string {
	return fmt.Sprintf("vault: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *BackingError) Unwrap() error {
	return e.Err
}

// Is makes every BackingError match ErrBackingIO
func (e *BackingError) Is(target error) bool {
	return target == ErrBackingIO
}

// Code returns the SQLite extended result code of the cause, or 0 when the
// failure did not come from the engine.
func (e *BackingError) Code() int {
	var sqliteErr *msqlite.Error
	if errors.As(e.Err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

// CantOpen reports whether the engine could not open the store file
func (e *BackingError) CantOpen() bool {
	return e.Code()&0xff == sqlite3lib.SQLITE_CANTOPEN
}

func backingErr(op, path string, err error) error {
	return &BackingError{Op: op, Path: path, Err: err}
}
