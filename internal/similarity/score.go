package similarity

import (
	"strings"

	"github.com/contactmerge/contactmerge/internal/contact"
)

// Score returns the match confidence (0-100) between two records.
//
// Phones, emails and full names each contribute one sub-score when both
// records carry a usable value for that category; the result is the mean of
// the contributed sub-scores, or 0 if no category could be compared.
// Phones and emails use the best Ratio across every pair of values; names use
// TokenSetRatio on the raw text.
func Score(a, b *contact.Record) float64 {
	var sum float64
	var n int

	if s, ok := bestPair(a.Phones(), b.Phones()); ok {
		sum += s
		n++
	}
	if s, ok := bestPair(a.Emails(), b.Emails()); ok {
		sum += s
		n++
	}
	nameA, nameB := a.Get(contact.FieldName), b.Get(contact.FieldName)
	if strings.TrimSpace(nameA) != "" && strings.TrimSpace(nameB) != "" {
		sum += TokenSetRatio(nameA, nameB)
		n++
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// bestPair returns the highest Ratio across the cross product of xs and ys.
func bestPair(xs, ys []string) (float64, bool) {
	if len(xs) == 0 || len(ys) == 0 {
		return 0, false
	}
	best := 0.0
	for _, x := range xs {
		for _, y := range ys {
			if r := Ratio(x, y); r > best {
				best = r
			}
		}
	}
	return best, true
}
