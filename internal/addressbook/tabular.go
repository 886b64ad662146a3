package addressbook

import (
	"strings"

	"github.com/contactmerge/contactmerge/internal/contact"
)

// recordsFromRows turns a header row plus data rows into records. Short
// rows get empty values for the missing columns; cells beyond the header are
// ignored. Rows with no content at all are skipped.
func recordsFromRows(header []string, rows [][]string) []*contact.Record {
	var records []*contact.Record
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		fields := make([]field, 0, len(header))
		for col, name := range header {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			fields = append(fields, field{name: name, value: value})
		}
		records = append(records, newImported(len(records), fields))
	}
	return records
}

// rowsFromRecords lays records out as match, certainty, then the field order.
func rowsFromRecords(records []*contact.Record, order []string) ([]string, [][]string) {
	header := []string{contact.FieldMatch, contact.FieldCertainty}
	for _, name := range order {
		if !contact.IsMetadata(name) {
			header = append(header, name)
		}
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(header))
		for i, name := range header {
			row[i] = rec.Get(name)
		}
		rows = append(rows, row)
	}
	return header, rows
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
