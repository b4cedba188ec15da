// Package importer converts password manager exports into vault entries.
// Supports 1Password CSV, Bitwarden JSON, and LastPass CSV formats.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/forest6511/credvault/pkg/vault"
)

// Source represents the source password manager format.
type Source string

const (
	Source1Password Source = "1password"
	SourceBitwarden Source = "bitwarden"
	SourceLastPass  Source = "lastpass"
)

// Errors
var (
	ErrUnsupportedSource = errors.New("importer: unsupported import source")
	ErrMissingColumn     = errors.New("importer: missing required column")
)

// Result contains the outcome of parsing an export.
type Result struct {
	// Entries are the rows ready to be inserted, in export order.
	Entries []vault.Entry

	// Warnings are non-fatal issues encountered during parsing.
	Warnings []string

	// Skipped are items that cannot become a vault row.
	Skipped []SkippedItem
}

// SkippedItem represents an item that was skipped during import.
type SkippedItem struct {
	OriginalName string
	Reason       string
}

// Parser is the interface for export format parsers.
type Parser interface {
	// Parse parses the export data.
	Parse(data []byte) (*Result, error)

	// Source returns the source type for this parser.
	Source() Source
}

// GetParser returns a parser for the given source.
func GetParser(source Source) (Parser, error) {
	switch source {
	case Source1Password:
		return &OnePasswordParser{}, nil
	case SourceBitwarden:
		return &BitwardenParser{}, nil
	case SourceLastPass:
		return &LastPassParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}
}

// ValidSources returns a list of valid source names.
func ValidSources() []string {
	return []string{
		string(Source1Password),
		string(SourceBitwarden),
		string(SourceLastPass),
	}
}

// Summary reports what Import wrote to the store.
type Summary struct {
	// IDs holds the account ids assigned to inserted rows, in order.
	IDs []int64
}

// Import inserts parsed entries into the store one by one.
// The vault table must already exist. Import stops at the first backing fault
// and returns the summary of rows written so far.
func Import(s *vault.Store, entries []vault.Entry) (Summary, error) {
	var sum Summary
	for i, e := range entries {
		res, err := s.Insert(e)
		if err != nil {
			return sum, fmt.Errorf("importer: entry %d (%s): %w", i+1, e.Name, err)
		}
		sum.IDs = append(sum.IDs, res.ID)
	}
	return sum, nil
}

// entryFrom builds a vault entry, reporting why an item cannot be stored.
// The name is trimmed and NFC-normalized; login and password are passed on
// as the parser decoded them, without trimming.
func entryFrom(name, url, login, password, note string) (vault.Entry, string) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		name = FallbackName(url)
	}
	switch {
	case name == "":
		return vault.Entry{}, "no name or URL"
	case login == "":
		return vault.Entry{}, "no login"
	case password == "":
		return vault.Entry{}, "no password"
	}

	e := vault.Entry{Name: name, Login: login, Password: password}
	if note != "" {
		e.Note = vault.StringPtr(note)
	}
	return e, ""
}

// FallbackName derives a site name from a URL when an item has no name.
func FallbackName(url string) string {
	url = strings.TrimSpace(url)
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")

	if idx := strings.Index(url, "/"); idx != -1 {
		url = url[:idx]
	}
	if idx := strings.Index(url, ":"); idx != -1 {
		url = url[:idx]
	}
	return strings.TrimPrefix(url, "www.")
}

// DecodeHTMLEntities decodes common HTML entities found in LastPass exports.
func DecodeHTMLEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&apos;", "'")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

// csvRow maps header names to the values of one row.
type csvRow func(col string) string

// parseCSV walks a header-based CSV export and hands each row to fn.
// Header names are matched case-insensitively and a leading BOM is ignored.
func parseCSV(data []byte, required string, fn func(rowNum int, get csvRow)) ([]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("importer: failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := colIndex[required]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
	}

	var warnings []string
	rowNum := 1
	for {
		rowNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: failed to parse: %v", rowNum, err))
			continue
		}
		if len(row) != len(header) {
			warnings = append(warnings, fmt.Sprintf("row %d: column count mismatch (expected %d, got %d)",
				rowNum, len(header), len(row)))
			continue
		}

		fn(rowNum, func(col string) string {
			if idx, ok := colIndex[col]; ok {
				return row[idx]
			}
			return ""
		})
	}
	return warnings, nil
}
