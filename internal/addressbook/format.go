// Package addressbook reads and writes contact records in vCard, CSV and
// XLSX form.
package addressbook

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/contactmerge/contactmerge/internal/contact"
)

// ErrEmptyInput is returned when an import yields no records.
var ErrEmptyInput = errors.New("no contacts found in input")

// Format identifies an address-book file format.
type Format string

const (
	FormatVCF  Format = "vcf"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatVCF, FormatCSV, FormatXLSX}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatVCF, FormatCSV, FormatXLSX:
		return f, nil
	case "vcard":
		return FormatVCF, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want vcf, csv or xlsx)", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vcf", ".vcard":
		return FormatVCF, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("cannot infer format from %q; specify it explicitly", path)
	}
}

// Options controls how input files are decoded.
type Options struct {
	// Encoding is the character set of text inputs (vcf, csv).
	// Empty means UTF-8. A leading UTF-8 byte order mark is always skipped.
	Encoding string
}

// Import reads every record from path. Records get sequential uids in source
// order and empty match/certainty fields. ErrEmptyInput is returned when the
// file holds no records.
func Import(path string, format Format, opts Options) ([]*contact.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var records []*contact.Record
	switch format {
	case FormatVCF:
		r, derr := decodeText(f, opts.Encoding)
		if derr != nil {
			return nil, derr
		}
		records, err = ReadVCF(r)
	case FormatCSV:
		r, derr := decodeText(f, opts.Encoding)
		if derr != nil {
			return nil, derr
		}
		records, err = ReadCSV(r)
	case FormatXLSX:
		records, err = ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", format, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	return records, nil
}

// Export writes records to path, ordering fields by order. Fields that
// cannot be represented in the target format are skipped with a warning.
func Export(path string, format Format, records []*contact.Record, order []string) error {
	switch format {
	case FormatVCF, FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	var warnings []*FieldWriteError
	switch format {
	case FormatVCF:
		warnings, err = WriteVCF(f, records, order)
	case FormatCSV:
		err = WriteCSV(f, records, order)
	case FormatXLSX:
		err = WriteXLSX(f, records, order)
	}
	for _, w := range warnings {
		log.Printf("Warning: %v", w)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}

// FieldWriteError describes a field that could not be written.
type FieldWriteError struct {
	UID   string
	Field string
	Value string
	Err   error
}

func (e *FieldWriteError) Error() string {
	return fmt.Sprintf("could not add field %s with value %q to contact %s: %v", e.Field, e.Value, e.UID, e.Err)
}

func (e *FieldWriteError) Unwrap() error {
	return e.Err
}

type field struct {
	name  string
	value string
}

// newImported builds a record the way every importer must: uid first, then
// the source fields in order, then empty match/certainty. Source uid, match
// and certainty values are discarded.
func newImported(index int, fields []field) *contact.Record {
	r := contact.NewRecord()
	r.Set(contact.FieldUID, strconv.Itoa(index))
	for _, f := range fields {
		if f.name == contact.FieldUID || contact.IsMetadata(f.name) {
			continue
		}
		r.Set(f.name, f.value)
	}
	r.Set(contact.FieldMatch, "")
	r.Set(contact.FieldCertainty, "")
	return r
}
