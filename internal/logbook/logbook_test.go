package logbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/segmenter/internal/segment"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestPredictionEntryIsSingleLine(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "logs", "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	book.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	book.Prediction("3f2b9c1e-0000-4000-8000-000000000000", segment.Prediction{Cluster: 4, Label: "Loyal\nIn-Store"})
	book.Warn("bounds skipped")
	lines, total := book.Tail(10)
	if total != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", total, lines)
	}
	want := "2026-01-02T03:04:05Z INFO  predict request=3f2b9c1e cluster=4 known=true · Loyal In-Store"
	if lines[0] != want {
		t.Fatalf("line = %q, want %q", lines[0], want)
	}
	if !strings.Contains(lines[1], "WARN  bounds skipped") {
		t.Fatalf("unexpected warn line %q", lines[1])
	}
}

func TestNilAndEmptyLogbook(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if lines, total := book.Tail(3); lines != nil || total != 0 {
		t.Fatalf("nil logbook should have no tail")
	}
	empty, err := New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	if lines, total := empty.Tail(3); lines != nil || total != 0 {
		t.Fatalf("missing file should have no tail")
	}
}

func TestPredictionOutsideCatalogIsWarning(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	book.Prediction("req-7", segment.Prediction{Cluster: 9, Label: segment.UnknownSegment})
	lines, _ := book.Tail(1)
	if len(lines) != 1 || !strings.Contains(lines[0], "WARN  predict request=req-7 cluster=9 known=false · Unknown Segment") {
		t.Fatalf("unexpected entry %v", lines)
	}
}

func TestRejectedPredictionIsError(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	book.Rejected("3f2b9c1e-aaaa", &segment.DimensionMismatchError{Component: "model", Want: 6, Got: 7})
	lines, total := book.Tail(5)
	if total != 1 || !strings.Contains(lines[0], "ERROR predict request=3f2b9c1e rejected · ") {
		t.Fatalf("unexpected entry %v", lines)
	}
}
