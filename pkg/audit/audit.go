// Package audit provides the append-only audit log for vault store operations.
// Each event is one line: "[<timestamp>] <Level>: <message>".
package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// File permission constants
const (
	FileMode = 0600 // Owner read/write only
	DirMode  = 0700 // Owner read/write/execute only
)

// TimestampLayout is the layout of the bracketed timestamp at the start of each line.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Level classifies an audit event
type Level string

// Audit levels, rendered verbatim in the log line
const (
	LevelInfo    Level = "Informing"
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
)

// Errors
var (
	ErrMalformedLine = errors.New("audit: malformed log line")
	ErrUnknownLevel  = errors.New("audit: unknown level")
)

// Valid reports whether l is one of the known levels
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelWarning, LevelError:
		return true
	default:
		return false
	}
}

// Event is a single parsed audit log line
type Event struct {
	Time    time.Time
	Level   Level
	Message string
}

// Logger appends audit events to a single text file
type Logger struct {
	path string           // Audit log file path
	loc  *time.Location   // Zone used to render timestamps
	mu   sync.Mutex       // Serializes appends so lines never interleave
	now  func() time.Time // Wall clock, replaceable in tests
	diag zerolog.Logger   // Receives best-effort write failures
}

// NewLogger creates a new audit logger writing to path.
// A nil loc falls back to DefaultLocation.
func NewLogger(path string, loc *time.Location) *Logger {
	if loc == nil {
		loc = DefaultLocation()
	}
	return &Logger{
		path: path,
		loc:  loc,
		now:  time.Now,
		diag: zerolog.Nop(),
	}
}

// SetDiagnostics sets the logger that receives best-effort write failures
func (l *Logger) SetDiagnostics(diag zerolog.Logger) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.diag = diag
}

// Path returns the audit log file path
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Location returns the zone used for timestamps
func (l *Logger) Location() *time.Location {
	if l == nil {
		return DefaultLocation()
	}
	return l.loc
}

// Log appends one event line. The file is opened in append mode on every call
// and is never truncated.
func (l *Logger) Log(level Level, msg string) error {
	if l == nil {
		return nil
	}
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return fmt.Errorf("audit: failed to create directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, FileMode)
	if err != nil {
		return fmt.Errorf("audit: failed to open log file: %w", err)
	}
	defer f.Close()

	line := FormatLine(l.now().In(l.loc), level, msg)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("audit: failed to write event: %w", err)
	}

	return nil
}

// Infof records an informational event on a best-effort basis
func (l *Logger) Infof(format string, args ...any) {
	l.logBestEffort(LevelInfo, format, args...)
}

// Warnf records a warning event on a best-effort basis
func (l *Logger) Warnf(format string, args ...any) {
	l.logBestEffort(LevelWarning, format, args...)
}

// Errorf records an error event on a best-effort basis
func (l *Logger) Errorf(format string, args ...any) {
	l.logBestEffort(LevelError, format, args...)
}

// logBestEffort writes the event and reports, but never returns, a failure.
// Store operations must not change outcome because the audit sink is broken.
func (l *Logger) logBestEffort(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if err := l.Log(level, msg); err != nil {
		l.mu.Lock()
		diag := l.diag
		l.mu.Unlock()
		diag.Warn().
			Err(err).
			Str("audit_path", l.path).
			Str("level", string(level)).
			Str("event", msg).
			Msg("failed to write audit event")
	}
}

// FormatLine renders an event as a single log line including the trailing newline.
// Newlines inside msg are escaped so one event always occupies one line.
func FormatLine(ts time.Time, level Level, msg string) string {
	msg = strings.ReplaceAll(msg, "\r", `\r`)
	msg = strings.ReplaceAll(msg, "\n", `\n`)
	return fmt.Sprintf("[%s] %s: %s\n", ts.Format(TimestampLayout), level, msg)
}

// ParseLine parses a line produced by FormatLine (with or without the trailing newline)
func ParseLine(line string) (Event, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "[") {
		return Event{}, fmt.Errorf("%w: missing timestamp", ErrMalformedLine)
	}
	end := strings.Index(line, "] ")
	if end < 0 {
		return Event{}, fmt.Errorf("%w: unterminated timestamp", ErrMalformedLine)
	}

	ts, err := time.Parse(TimestampLayout, line[1:end])
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	rest := line[end+2:]
	sep := strings.Index(rest, ": ")
	if sep < 0 {
		return Event{}, fmt.Errorf("%w: missing level", ErrMalformedLine)
	}
	level := Level(rest[:sep])
	if !level.Valid() {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	return Event{Time: ts, Level: level, Message: rest[sep+2:]}, nil
}

// ReadEvents reads and parses every event in the log, oldest first.
// A missing log file yields no events.
func (l *Logger) ReadEvents() ([]Event, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit: failed to open log file: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if scanner.Text() == "" {
			continue
		}
		event, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("audit: line %d: %w", lineNo, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: failed to read log file: %w", err)
	}

	return events, nil
}
