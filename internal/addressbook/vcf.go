package addressbook

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/contactmerge/contactmerge/internal/contact"
)

const defaultVCardVersion = "3.0"

var propertyName = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ReadVCF parses every vCard in r. Property names become lower-case field
// names in the order they first appear in the card; repeated properties are
// joined with ';'. Structured values (N, ADR, ORG) are flattened to plain
// text so ';' only ever separates repeated values. VERSION describes the
// card rather than the contact and is not imported.
func ReadVCF(r io.Reader) ([]*contact.Record, error) {
	cards, err := splitCards(r)
	if err != nil {
		return nil, err
	}

	var records []*contact.Record
	for i, raw := range cards {
		card, err := vcard.NewDecoder(bytes.NewReader(raw)).Decode()
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}

		var fields []field
		for _, name := range cardPropertyOrder(raw, card) {
			if name == vcard.FieldVersion {
				continue
			}
			values := make([]string, 0, len(card[name]))
			for _, f := range card[name] {
				values = append(values, flattenValue(name, f.Value))
			}
			fields = append(fields, field{
				name:  strings.ToLower(name),
				value: strings.Join(values, contact.ValueSeparator),
			})
		}
		records = append(records, newImported(i, fields))
	}
	return records, nil
}

// flattenValue renders a property value as a single plain-text value. N is
// written out as a display name, other component lists are joined with
// commas. Empty components are dropped.
func flattenValue(name, value string) string {
	parts := components(value)
	if name == vcard.FieldName {
		for len(parts) < 5 {
			parts = append(parts, "")
		}
		// family;given;additional;prefix;suffix
		return joinNonEmpty(" ", parts[3], parts[1], parts[2], parts[0], parts[4])
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return joinNonEmpty(", ", parts...)
}

// components splits a value on unescaped ';'. An escaped "\;" inside a
// component becomes ','.
func components(value string) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(value); i++ {
		switch {
		case value[i] == '\\' && i+1 < len(value) && value[i+1] == ';':
			cur.WriteByte(',')
			i++
		case value[i] == ';':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(value[i])
		}
	}
	return append(parts, cur.String())
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// splitCards returns the raw text of each BEGIN:VCARD ... END:VCARD block.
func splitCards(r io.Reader) ([][]byte, error) {
	var cards [][]byte
	var current *bytes.Buffer

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		marker := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case marker == "BEGIN:VCARD":
			current = &bytes.Buffer{}
		case current == nil:
			continue
		}
		current.WriteString(strings.TrimRight(line, "\r"))
		current.WriteString("\r\n")
		if marker == "END:VCARD" {
			cards = append(cards, current.Bytes())
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vcard input: %w", err)
	}
	if current != nil {
		return nil, errors.New("unterminated vcard: missing END:VCARD")
	}
	return cards, nil
}

// cardPropertyOrder lists the card's property names in source order.
func cardPropertyOrder(raw []byte, card vcard.Card) []string {
	seen := make(map[string]bool)
	var order []string
	for _, line := range strings.Split(string(raw), "\r\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		name := lineName(line)
		if name == "BEGIN" || name == "END" || seen[name] {
			continue
		}
		if _, ok := card[name]; !ok {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}

	// Anything the decoder produced that the scan missed goes last.
	var rest []string
	for name := range card {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// lineName extracts the upper-case property name of a content line,
// without its group prefix.
func lineName(line string) string {
	end := strings.IndexAny(line, ":;")
	if end < 0 {
		end = len(line)
	}
	name := line[:end]
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[dot+1:]
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// WriteVCF writes one vCard per record with properties in the given field
// order. match and certainty are never written, and every card is written as
// VERSION 3.0 whatever a version field says. A ';'-joined value is written
// as one property line per value. Fields whose names are not
// valid vCard property names are skipped and reported; the rest of the record
// is still written.
func WriteVCF(w io.Writer, records []*contact.Record, order []string) ([]*FieldWriteError, error) {
	var warnings []*FieldWriteError
	for _, rec := range records {
		card := make(vcard.Card)
		var names []string
		for _, key := range order {
			if contact.IsMetadata(key) || strings.EqualFold(key, vcard.FieldVersion) {
				continue
			}
			value, ok := rec.Lookup(key)
			if !ok {
				continue
			}
			name := strings.ToUpper(key)
			if !propertyName.MatchString(key) || name == "BEGIN" || name == "END" {
				warnings = append(warnings, &FieldWriteError{
					UID:   rec.UID(),
					Field: key,
					Value: value,
					Err:   errors.New("not a valid vCard property name"),
				})
				continue
			}
			values := contact.SplitValues(value)
			if len(values) == 0 {
				values = []string{value}
			}
			for _, v := range values {
				card.Add(name, &vcard.Field{Value: v})
			}
			names = append(names, name)
		}
		card.SetValue(vcard.FieldVersion, defaultVCardVersion)

		var buf bytes.Buffer
		if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
			return warnings, fmt.Errorf("encoding contact %s: %w", rec.UID(), err)
		}
		if _, err := w.Write(reorderCard(buf.Bytes(), names)); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

// reorderCard rewrites an encoded card so its properties follow names.
// BEGIN and VERSION stay first, END stays last.
func reorderCard(encoded []byte, names []string) []byte {
	blocks := make(map[string][]string)
	var encounter []string
	var last string
	for _, line := range strings.Split(string(encoded), "\r\n") {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && last != "" {
			n := len(blocks[last])
			blocks[last][n-1] += "\r\n" + line
			continue
		}
		name := lineName(line)
		if _, ok := blocks[name]; !ok {
			encounter = append(encounter, name)
		}
		blocks[name] = append(blocks[name], line)
		last = name
	}

	var out bytes.Buffer
	written := make(map[string]bool)
	emit := func(name string) {
		if written[name] {
			return
		}
		written[name] = true
		for _, line := range blocks[name] {
			out.WriteString(line)
			out.WriteString("\r\n")
		}
	}

	emit("BEGIN")
	emit(vcard.FieldVersion)
	for _, name := range names {
		emit(name)
	}
	for _, name := range encounter {
		if name != "END" {
			emit(name)
		}
	}
	emit("END")
	return out.Bytes()
}
