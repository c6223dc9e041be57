package recipientlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/mailcast/pkg/dispatch"
)

// ErrInvalidCSV is returned when a CSV import cannot be read.
var ErrInvalidCSV = errors.New("recipientlist: invalid csv")

// SplitEntries splits pasted text on newlines, commas and semicolons and
// returns the trimmed, non-empty entries in order.
func SplitEntries(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', ',', ';':
			return true
		}
		return false
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseAddresses keeps the entries of pasted text that contain "@".
// Well-formedness is not checked. The result is normalized.
func ParseAddresses(text string) []string {
	entries := SplitEntries(text)
	out := entries[:0]
	for _, e := range entries {
		if strings.Contains(e, "@") {
			out = append(out, e)
		}
	}
	return Normalize(out)
}

// ParseCSV scans every column of every record for well-formed addresses.
// Rows may have differing column counts. Quotes are stripped.
func ParseCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var found []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}
		for _, col := range rec {
			col = strings.TrimSpace(strings.ReplaceAll(col, `"`, ""))
			if dispatch.IsWellFormed(col) {
				found = append(found, col)
			}
		}
	}
	return Normalize(found), nil
}
