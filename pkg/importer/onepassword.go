package importer

import "fmt"

// OnePasswordParser parses 1Password CSV export files:
// Title,Website,Username,Password,OTPAuth,Favorite,Archived,Tags,Notes
type OnePasswordParser struct{}

// Header names are matched lower-cased.
const (
	op1ColTitle    = "title"
	op1ColWebsite  = "website"
	op1ColUsername = "username"
	op1ColPassword = "password"
	op1ColArchived = "archived"
	op1ColNotes    = "notes"
)

// Source returns the source type for this parser.
func (p *OnePasswordParser) Source() Source {
	return Source1Password
}

// Parse parses 1Password CSV data. Archived items are skipped.
func (p *OnePasswordParser) Parse(data []byte) (*Result, error) {
	result := &Result{}

	warnings, err := parseCSV(data, op1ColTitle, func(rowNum int, get csvRow) {
		title := get(op1ColTitle)
		if get(op1ColArchived) == "true" {
			result.Skipped = append(result.Skipped, SkippedItem{OriginalName: title, Reason: "archived"})
			return
		}

		entry, reason := entryFrom(title, get(op1ColWebsite),
			get(op1ColUsername), get(op1ColPassword), get(op1ColNotes))
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedItem{OriginalName: title, Reason: reason})
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
