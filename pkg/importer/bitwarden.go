package importer

import (
	"encoding/json"
	"fmt"
)

// BitwardenParser parses Bitwarden JSON export files.
// Only login items (type 1) map onto vault rows.
type BitwardenParser struct{}

const bitwardenTypeLogin = 1

type bitwardenExport struct {
	Items []bitwardenItem `json:"items"`
}

type bitwardenItem struct {
	Type  int             `json:"type"`
	Name  string          `json:"name"`
	Notes string          `json:"notes"`
	Login *bitwardenLogin `json:"login"`
}

type bitwardenLogin struct {
	URIs     []bitwardenURI `json:"uris"`
	Username string         `json:"username"`
	Password string         `json:"password"`
}

type bitwardenURI struct {
	URI string `json:"uri"`
}

// Source returns the source type for this parser.
func (p *BitwardenParser) Source() Source {
	return SourceBitwarden
}

// Parse parses Bitwarden JSON data.
func (p *BitwardenParser) Parse(data []byte) (*Result, error) {
	var export bitwardenExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("importer: failed to parse Bitwarden JSON: %w", err)
	}

	result := &Result{}
	for i := range export.Items {
		item := &export.Items[i]
		if item.Type != bitwardenTypeLogin || item.Login == nil {
			result.Skipped = append(result.Skipped, SkippedItem{
				OriginalName: item.Name,
				Reason:       fmt.Sprintf("unsupported item type: %d", item.Type),
			})
			continue
		}

		var url string
		for _, u := range item.Login.URIs {
			if u.URI != "" {
				url = u.URI
				break
			}
		}

		entry, reason := entryFrom(item.Name, url, item.Login.Username, item.Login.Password, item.Notes)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedItem{OriginalName: item.Name, Reason: reason})
			result.Warnings = append(result.Warnings, fmt.Sprintf("item %d (%s): skipped: %s", i+1, item.Name, reason))
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}
