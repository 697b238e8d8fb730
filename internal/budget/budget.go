// Package budget enforces response token budgets on tool output.
// Token counts are estimated from character length; the estimate is
// deliberately cheap and slightly pessimistic.
package budget

// EstimateTokens approximates the token count of a piece of text as one
// token per four characters plus a small constant for row overhead.
func EstimateTokens(chars int) int {
	return chars/4 + 3
}

// Tracker is a simple spend-or-reject budget. Add never reserves
// partially: an entry that does not fit leaves the tracker unchanged.
type Tracker struct {
	max     int
	current int
}

func NewTracker(max int) *Tracker {
	return &Tracker{max: max}
}

// CanAdd reports whether tokens more would still fit.
func (t *Tracker) CanAdd(tokens int) bool {
	return t.current+tokens <= t.max
}

// Add spends tokens from the budget, or rejects the whole amount.
func (t *Tracker) Add(tokens int) bool {
	if !t.CanAdd(tokens) {
		return false
	}
	t.current += tokens
	return true
}

func (t *Tracker) Used() int {
	return t.current
}

func (t *Tracker) Remaining() int {
	return t.max - t.current
}

// TruncateRows bounds a newline-joined row list to max tokens in two
// phases. Phase one admits rows against a tracker capped at 90% of the
// budget using per-row estimates; phase two measures the exact joined
// payload and drops tail rows until it fits. The bool reports whether
// anything was cut. If nothing fits the result is an empty, truncated
// set rather than an error.
func TruncateRows(rows []string, max int) ([]string, bool) {
	margin := max * 9 / 10
	tracker := NewTracker(margin)

	kept := make([]string, 0, len(rows))
	truncated := false
	for _, row := range rows {
		if !tracker.Add(EstimateTokens(len(row))) {
			truncated = true
			break
		}
		kept = append(kept, row)
	}

	for len(kept) > 0 {
		total := len(kept) - 1 // newline separators
		for _, row := range kept {
			total += len(row)
		}
		if EstimateTokens(total) <= max {
			break
		}
		kept = kept[:len(kept)-1]
		truncated = true
	}

	return kept, truncated
}
