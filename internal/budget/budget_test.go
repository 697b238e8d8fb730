package budget

import (
	"strings"
	"testing"
)

func TestTrackerAddAndReject(t *testing.T) {
	tr := NewTracker(10)

	if !tr.Add(4) {
		t.Fatal("First add should fit")
	}
	if tr.Remaining() != 6 {
		t.Errorf("Expected 6 remaining, got %d", tr.Remaining())
	}

	if tr.Add(7) {
		t.Fatal("Oversized add should be rejected")
	}
	if tr.Remaining() != 6 {
		t.Errorf("Rejected add must not reserve, remaining %d", tr.Remaining())
	}

	if !tr.Add(6) {
		t.Error("Exact fit should succeed")
	}
	if tr.Remaining() != 0 || tr.Used() != 10 {
		t.Errorf("Expected full budget spent, used=%d remaining=%d", tr.Used(), tr.Remaining())
	}
}

func TestTruncateRowsFits(t *testing.T) {
	rows := []string{"a|struct|f.rs|1|0", "b|struct|f.rs|2|0"}
	kept, truncated := TruncateRows(rows, 1000)
	if truncated || len(kept) != 2 {
		t.Errorf("Small payload should fit untouched: kept=%d truncated=%v", len(kept), truncated)
	}
}

func TestTruncateRowsDropsTail(t *testing.T) {
	row := strings.Repeat("x", 40) // ~13 tokens each
	rows := []string{row, row, row, row, row, row, row, row}

	kept, truncated := TruncateRows(rows, 40)
	if !truncated {
		t.Fatal("Expected truncation")
	}
	if len(kept) == 0 || len(kept) >= len(rows) {
		t.Fatalf("Expected a proper prefix, got %d of %d", len(kept), len(rows))
	}

	total := len(kept) - 1
	for _, r := range kept {
		total += len(r)
	}
	if EstimateTokens(total) > 40 {
		t.Errorf("Kept payload still over budget: %d tokens", EstimateTokens(total))
	}
}

func TestTruncateRowsNothingFits(t *testing.T) {
	kept, truncated := TruncateRows([]string{strings.Repeat("y", 400)}, 10)
	if len(kept) != 0 || !truncated {
		t.Errorf("Expected empty truncated set, got kept=%d truncated=%v", len(kept), truncated)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(0); got != 3 {
		t.Errorf("Empty text overhead: got %d", got)
	}
	if got := EstimateTokens(40); got != 13 {
		t.Errorf("EstimateTokens(40) = %d, want 13", got)
	}
}
