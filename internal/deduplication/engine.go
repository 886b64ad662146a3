package deduplication

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/contactmerge/contactmerge/internal/contact"
	"github.com/contactmerge/contactmerge/internal/similarity"
)

// Disposition records what the engine decided for one input record.
type Disposition int

const (
	// Unmatched: link mode, no earlier record scored at or above the threshold.
	Unmatched Disposition = iota
	// Linked: link mode, match/certainty point at an earlier record.
	Linked
	// Master: merge mode, the record represents its own cluster.
	Master
	// Absorbed: merge mode, the record's fields were merged into a master.
	Absorbed
	// WouldMerge: dry-run merge mode, the record matched a master but nothing changed.
	WouldMerge
)

func (d Disposition) String() string {
	switch d {
	case Unmatched:
		return "unmatched"
	case Linked:
		return "linked"
	case Master:
		return "master"
	case Absorbed:
		return "absorbed"
	case WouldMerge:
		return "would_merge"
	default:
		return fmt.Sprintf("disposition(%d)", int(d))
	}
}

// Outcome is the decision for one input record.
type Outcome struct {
	// UID of the input record.
	UID string
	// Disposition of the record.
	Disposition Disposition
	// Target is the uid of the record it was linked to or merged into.
	// Empty for Unmatched and Master.
	Target string
	// Score against Target. Zero when Target is empty.
	Score float64
}

// Notice returns a human-readable line for dry-run merges, or "" otherwise.
func (o Outcome) Notice() string {
	if o.Disposition != WouldMerge {
		return ""
	}
	return fmt.Sprintf("DRY RUN: Would merge contact UID %s into master UID %s with score %.2f",
		o.UID, o.Target, o.Score)
}

// Stats summarizes a deduplication run.
type Stats struct {
	Input       int
	Output      int
	Linked      int
	Merged      int
	WouldMerge  int
	Comparisons int
}

// Result is the output of a deduplication run.
type Result struct {
	// Records to export: every record in link mode, the masters in merge mode.
	Records []*contact.Record
	// Outcomes holds one entry per input record, in input order.
	Outcomes []Outcome
	Stats    Stats
}

// Notices returns the dry-run notices in input order.
func (r *Result) Notices() []string {
	var out []string
	for _, o := range r.Outcomes {
		if n := o.Notice(); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ScoreFunc computes the match confidence between two records.
type ScoreFunc func(a, b *contact.Record) float64

// Engine deduplicates contact records.
//
// The engine never modifies the records it is given: it works on copies and
// owns the records in the Result.
type Engine struct {
	cfg   Config
	score ScoreFunc
}

// NewEngine creates an engine scoring with similarity.Score.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, score: similarity.Score}
}

// WithScoreFunc replaces the scoring function.
func (e *Engine) WithScoreFunc(fn ScoreFunc) *Engine {
	e.score = fn
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run deduplicates records using the configured mode.
func (e *Engine) Run(records []*contact.Record) *Result {
	if e.cfg.Merge {
		return e.Merge(records)
	}
	return e.Link(records)
}

// Link compares every record against all earlier records in input order and
// annotates it with the first one scoring at or above the threshold. The
// earliest qualifying record wins even if a later one scores higher.
// All records are returned.
func (e *Engine) Link(records []*contact.Record) *Result {
	res := &Result{
		Records:  cloneAll(records),
		Outcomes: make([]Outcome, len(records)),
	}
	res.Stats.Input = len(records)

	for i, current := range res.Records {
		res.Outcomes[i] = Outcome{UID: current.UID(), Disposition: Unmatched}
		for j := 0; j < i; j++ {
			candidate := res.Records[j]
			score := e.score(current, candidate)
			res.Stats.Comparisons++
			if score >= e.cfg.Threshold {
				current.Set(contact.FieldMatch, candidate.UID())
				current.Set(contact.FieldCertainty, FormatScore(score))
				res.Outcomes[i] = Outcome{
					UID:         current.UID(),
					Disposition: Linked,
					Target:      candidate.UID(),
					Score:       score,
				}
				res.Stats.Linked++
				break
			}
		}
	}

	res.Stats.Output = len(res.Records)
	return res
}

// Merge collapses duplicates into master records. Each record is compared
// against the masters in creation order; the first master scoring at or above
// the threshold absorbs it. Records matching no master become masters.
// In dry-run mode matches are only reported and no master is modified.
func (e *Engine) Merge(records []*contact.Record) *Result {
	res := &Result{Outcomes: make([]Outcome, len(records))}
	res.Stats.Input = len(records)

	var masters []*contact.Record
	for i, rec := range records {
		res.Outcomes[i] = Outcome{UID: rec.UID(), Disposition: Master}
		matched := false
		for _, master := range masters {
			score := e.score(rec, master)
			res.Stats.Comparisons++
			if score < e.cfg.Threshold {
				continue
			}
			matched = true
			if e.cfg.DryRun {
				res.Outcomes[i] = Outcome{UID: rec.UID(), Disposition: WouldMerge, Target: master.UID(), Score: score}
				res.Stats.WouldMerge++
			} else {
				contact.MergeInto(master, rec)
				res.Outcomes[i] = Outcome{UID: rec.UID(), Disposition: Absorbed, Target: master.UID(), Score: score}
				res.Stats.Merged++
			}
			break
		}
		if !matched {
			masters = append(masters, rec.Clone())
		}
	}

	res.Records = masters
	res.Stats.Output = len(masters)
	return res
}

// FormatScore renders a score as stored in the certainty field: the shortest
// decimal that round-trips, always with a fractional part ("100.0", "87.5").
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func cloneAll(records []*contact.Record) []*contact.Record {
	out := make([]*contact.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
