package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/use-agent/newsscrape/models"
)

// cellSep separates cells on every rendered line.
const cellSep = " | "

// FormatTable renders t as a Markdown table: row 0 is the header line,
// followed by a separator line with one run of '-' per header cell (as long
// as that cell in characters), followed by the remaining rows in order.
//
// Rows are not reconciled against the header: a row with more or fewer
// cells simply renders with more or fewer segments. An empty table renders
// as "".
func FormatTable(t models.ExtractedTable) string {
	if len(t) == 0 {
		return ""
	}

	header := t[0]
	dashes := make([]string, len(header))
	for i, cell := range header {
		dashes[i] = strings.Repeat("-", utf8.RuneCountInString(cell))
	}

	lines := make([]string, 0, len(t)+1)
	lines = append(lines, strings.Join(header, cellSep))
	lines = append(lines, strings.Join(dashes, cellSep))
	for _, row := range t[1:] {
		lines = append(lines, strings.Join(row, cellSep))
	}
	return strings.Join(lines, "\n")
}
