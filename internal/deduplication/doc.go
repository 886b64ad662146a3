// Package deduplication finds and resolves duplicate contact records.
//
// # Overview
//
// Address-book exports often hold the same person several times, with
// slightly different phone formatting, email casing or name order. The
// engine compares records pairwise with similarity.Score and resolves every
// pair scoring at or above Config.Threshold.
//
// # Modes
//
// The engine works in two mutually exclusive modes:
//
//  1. Link (default): every record is kept. A record matching an earlier one
//     gets its match field set to that record's uid and its certainty field
//     set to the score. The earliest qualifying record wins, not the best.
//  2. Merge: records are collapsed into masters. Each record is compared
//     against the masters created so far; the first qualifying master absorbs
//     its fields via contact.MergeInto. Unmatched records become new masters.
//
// With DryRun set, merge mode only reports what it would merge (see
// Outcome.Notice) and leaves every master untouched. Callers are expected to
// skip exporting in that case.
//
// # Usage
//
//	cfg, err := deduplication.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	cfg.Merge = true
//
//	result := deduplication.NewEngine(cfg).Run(records)
//	for _, notice := range result.Notices() {
//	    fmt.Println(notice)
//	}
//	log.Printf("Dedup stats: %d in, %d out, %d merged",
//	    result.Stats.Input, result.Stats.Output, result.Stats.Merged)
//
// # Ownership
//
// Input records are never modified. The engine clones them and the Result
// owns the records it returns. Every input record has exactly one Outcome:
// it is a master, it was absorbed into a master, or (link mode) it was
// linked or left unmatched.
//
// # Performance Considerations
//
// Both modes are O(n²) comparisons in the worst case and run sequentially.
// Stats.Comparisons reports how many pairs were scored.
package deduplication
