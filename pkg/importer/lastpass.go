package importer

import (
	"fmt"
	"strings"
)

// LastPassParser parses LastPass CSV export files:
// url,username,password,totp,extra,name,grouping,fav
type LastPassParser struct{}

const (
	lpColURL      = "url"
	lpColUsername = "username"
	lpColPassword = "password"
	lpColExtra    = "extra"
	lpColName     = "name"

	// LastPass exports secure notes with this URL.
	lpSecureNoteURL = "http://sn"
)

// Source returns the source type for this parser.
func (p *LastPassParser) Source() Source {
	return SourceLastPass
}

// Parse parses LastPass CSV data.
func (p *LastPassParser) Parse(data []byte) (*Result, error) {
	result := &Result{}

	warnings, err := parseCSV(data, lpColName, func(rowNum int, get csvRow) {
		name := DecodeHTMLEntities(get(lpColName))
		url := strings.TrimSpace(get(lpColURL))
		if url == lpSecureNoteURL {
			result.Skipped = append(result.Skipped, SkippedItem{OriginalName: name, Reason: "secure note"})
			return
		}

		entry, reason := entryFrom(name, url,
			DecodeHTMLEntities(get(lpColUsername)),
			DecodeHTMLEntities(get(lpColPassword)),
			DecodeHTMLEntities(get(lpColExtra)))
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedItem{OriginalName: name, Reason: reason})
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: skipped: %s", rowNum, reason))
			return
		}
		result.Entries = append(result.Entries, entry)
	})
	if err != nil {
		return nil, err
	}

	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}
