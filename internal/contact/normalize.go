package contact

import (
	"strings"
	"unicode"
)

// NormalizePhone strips every character that is not a decimal digit.
func NormalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// SplitValues splits a multi-value field on ';', dropping entries that are
// blank after trimming. Returned entries are not trimmed.
func SplitValues(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ValueSeparator) {
		if strings.TrimFunc(part, unicode.IsSpace) == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Phones returns the normalized, non-empty phone numbers of a record.
func (r *Record) Phones() []string {
	return normalizedValues(r.Get(FieldTel), NormalizePhone)
}

// Emails returns the normalized, non-empty email addresses of a record.
func (r *Record) Emails() []string {
	return normalizedValues(r.Get(FieldEmail), NormalizeEmail)
}

func normalizedValues(value string, normalize func(string) string) []string {
	var out []string
	for _, part := range SplitValues(value) {
		// A sub-value with nothing left after normalization counts as empty.
		if n := normalize(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}
