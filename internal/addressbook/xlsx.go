package addressbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/contactmerge/contactmerge/internal/contact"
)

const xlsxSheetName = "Contacts"

// ReadXLSX parses the first worksheet of a workbook; its first row names the
// fields.
func ReadXLSX(r io.Reader) ([]*contact.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return recordsFromRows(rows[0], rows[1:]), nil
}

// WriteXLSX writes records to a single "Contacts" sheet laid out like the CSV
// export. Every cell is stored as text so phone numbers keep their formatting.
func WriteXLSX(w io.Writer, records []*contact.Record, order []string) error {
	header, rows := rowsFromRecords(records, order)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	var last string
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(xlsxSheetName, cell, name); err != nil {
			return err
		}
		last = cell
	}
	if last != "" {
		if err := f.SetCellStyle(xlsxSheetName, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(xlsxSheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
