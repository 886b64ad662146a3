package addressbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/contactmerge/contactmerge/internal/contact"
)

// ReadCSV parses a CSV file whose first row names the fields.
func ReadCSV(r io.Reader) ([]*contact.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv rows: %w", err)
	}
	return recordsFromRows(header, rows), nil
}

// WriteCSV writes a header of match, certainty and the field order, then one
// row per record.
func WriteCSV(w io.Writer, records []*contact.Record, order []string) error {
	header, rows := rowsFromRecords(records, order)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
