// Package similarity scores how likely two contact records describe the same
// person.
package similarity

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Ratio is the normalized Levenshtein similarity of two strings on a 0-100
// scale: 100 * (1 - distance / max(len(a), len(b))), measured in runes.
// Two empty strings are identical; an empty and a non-empty string share nothing.
func Ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	distance := matchr.Levenshtein(a, b)
	return 100 * (1 - float64(distance)/float64(longest))
}

// TokenSetRatio compares two strings as sets of words. Case, punctuation,
// word order and repeated words are ignored. When every word of one side
// appears in the other the result is 100; otherwise it is the best Ratio among
// the shared words, each side's sorted word list, and the shared words
// extended by each side's remainder.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		// Nothing word-like on either side; fall back to the raw text.
		return Ratio(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for tok := range ta {
		if tb[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	if len(shared) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(shared, " ")
	combinedA := joinNonEmpty(sect, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(sect, strings.Join(onlyB, " "))

	best := Ratio(combinedA, combinedB)
	if sect != "" {
		if r := Ratio(sect, combinedA); r > best {
			best = r
		}
		if r := Ratio(sect, combinedB); r > best {
			best = r
		}
	}
	return best
}

func tokenSet(s string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
