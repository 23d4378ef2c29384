package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/segmenter/internal/config"
)

func TestNewAppendsToProjectLog(t *testing.T) {
	projectDir := t.TempDir()
	l, err := New(projectDir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("artifacts loaded", "clusters", 6)
	l.Printf("prediction %d\n", 3)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(projectDir, config.SegmenterDir, "logs", "segmenter.log"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, `msg="artifacts loaded" clusters=6`) {
		t.Fatalf("missing structured line in:\n%s", text)
	}
	if !strings.Contains(text, `msg="prediction 3"`) {
		t.Fatalf("missing printf line in:\n%s", text)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("ignored")
	l.Warn("ignored")
	l.Error("ignored")
	l.Printf("ignored")
	l.Slog().Info("ignored")
	if l.With("k", "v") != nil {
		t.Fatalf("expected nil logger to stay nil")
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With("component", "mcp")
	l.Warn("slow load")
	if !strings.Contains(buf.String(), "component=mcp") {
		t.Fatalf("expected attribute in %q", buf.String())
	}
}
