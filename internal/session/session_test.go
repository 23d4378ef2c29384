package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/segmenter/internal/config"
	"github.com/kingrea/segmenter/internal/logging"
	"github.com/kingrea/segmenter/internal/model/modeltest"
	"github.com/kingrea/segmenter/internal/segment"
)

func TestOpenLoadsDefaultArtifacts(t *testing.T) {
	projectDir := t.TempDir()
	modeltest.WriteReference(t, projectDir, ".pb")
	s, err := Open(context.Background(), projectDir, WithIDGenerator(func() string { return "req-0001" }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if s.Predictor.NumClusters() != 6 {
		t.Fatalf("expected 6 clusters, got %d", s.Predictor.NumClusters())
	}
	id, p, err := s.Predict(segment.FeatureRecord{Age: 70, Income: 150000, TotalSpending: 4500, NumWebPurchases: 2, NumStorePurchases: 40, NumWebVisitsMonth: 1, Recency: 5})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if id != "req-0001" || p.Cluster != segment.ClusterLoyalInStoreBuyers {
		t.Fatalf("unexpected prediction %s %+v", id, p)
	}
	lines, _ := s.Journal.Tail(1)
	if len(lines) != 1 || !strings.Contains(lines[0], "request=req-0001 cluster=4 known=true") {
		t.Fatalf("prediction not journaled: %v", lines)
	}
}

func TestOpenMissingArtifactsFails(t *testing.T) {
	projectDir := t.TempDir()
	var buf bytes.Buffer
	_, err := Open(context.Background(), projectDir, WithLogger(logging.NewWriter(&buf)))
	var loadErr *segment.ArtifactLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ArtifactLoadError, got %v", err)
	}
	if !strings.Contains(err.Error(), projectDir) {
		t.Fatalf("error should name the path: %v", err)
	}
	if !strings.Contains(buf.String(), "artifact load failed") {
		t.Fatalf("expected load failure to be logged, got %q", buf.String())
	}
}

func TestOpenUsesConfiguredCatalog(t *testing.T) {
	projectDir := t.TempDir()
	paths := modeltest.WriteReference(t, filepath.Join(projectDir, "models"), ".json")
	body := "version: 1\nartifacts:\n  scaler: models/scaler.json\n  model: models/kmeans_model.json\nsegments:\n  - cluster: 4\n    label: Regulars\n"
	if err := os.MkdirAll(filepath.Join(projectDir, config.SegmenterDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, config.SegmenterDir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	s, err := Open(context.Background(), projectDir, WithLogger(logging.NewWriter(&buf)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Config.ArtifactPaths() != paths {
		t.Fatalf("unexpected paths %+v, want %+v", s.Config.ArtifactPaths(), paths)
	}
	if !strings.Contains(buf.String(), "clusters without a segment label") {
		t.Fatalf("expected coverage warning, got %q", buf.String())
	}
	_, p, err := s.Predict(segment.FeatureRecord{Age: 70, Income: 150000, TotalSpending: 4500, NumWebPurchases: 2, NumStorePurchases: 40, NumWebVisitsMonth: 1, Recency: 5})
	if err != nil {
		t.Fatal(err)
	}
	if p.Label != "Regulars" {
		t.Fatalf("expected configured label, got %q", p.Label)
	}
}

func TestInspectReportsStates(t *testing.T) {
	projectDir := t.TempDir()
	paths := modeltest.WriteReference(t, projectDir, ".pb")
	if err := os.WriteFile(paths.Model, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatal(err)
	}
	statuses := Inspect(cfg, nil)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].State != "ready" || statuses[0].Producer != "modeltest" || statuses[0].Kind != "binary" {
		t.Fatalf("unexpected scaler status %+v", statuses[0])
	}
	if statuses[1].State != "invalid" || statuses[1].Error == "" {
		t.Fatalf("unexpected model status %+v", statuses[1])
	}
}
