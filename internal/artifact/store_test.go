package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var fixedClock = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

func scalerPayload() Payload {
	return Payload{
		"features": []any{"Age", "Income"},
		"mean":     []any{52.0, 51000.5},
		"scale":    []any{11.7, 21500.0},
	}
}

func TestStoreWriteReadAcrossKinds(t *testing.T) {
	for _, name := range []string{"scaler.yaml", "scaler.json", "scaler.pb"} {
		t.Run(name, func(t *testing.T) {
			ref, err := ScalerRef(filepath.Join(t.TempDir(), "nested", name))
			if err != nil {
				t.Fatalf("ScalerRef: %v", err)
			}
			store := NewStore(WithClock(fixedClock))
			meta := Metadata{Version: "1", Producer: "notebook", Notes: map[string]string{"dataset": "marketing"}}
			if err := store.Write(ref, scalerPayload(), meta); err != nil {
				t.Fatalf("Write: %v", err)
			}
			gotMeta, gotPayload, err := store.Read(ref)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if diff := cmp.Diff(scalerPayload(), gotPayload); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
			wantMeta := Metadata{
				ArtifactID: IDScaler,
				Version:    "1",
				Producer:   "notebook",
				CreatedAt:  fixedClock(),
				Checksum:   gotMeta.Checksum,
				Notes:      map[string]string{"dataset": "marketing"},
			}
			if diff := cmp.Diff(wantMeta, gotMeta); diff != "" {
				t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
			}
			if !strings.HasPrefix(gotMeta.Checksum, checksumPrefix) {
				t.Fatalf("expected checksum to be recorded, got %q", gotMeta.Checksum)
			}
			result, err := store.Check(ref)
			if err != nil || result.State != StateReady {
				t.Fatalf("expected ready, got %s (%v)", result.State, err)
			}
		})
	}
}

func TestChecksumIsEncodingIndependent(t *testing.T) {
	a, err := Checksum(Payload{"mean": []float64{1, 2}, "n": 3})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Checksum(Payload{"n": 3.0, "mean": []any{1.0, 2.0}})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("expected equal checksums, got %s and %s", a, b)
	}
}

func TestCheckMissingArtifact(t *testing.T) {
	ref, _ := ModelRef(filepath.Join(t.TempDir(), "kmeans_model.pb"))
	result, err := NewStore().Check(ref)
	if err != nil {
		t.Fatalf("missing artifact should not error: %v", err)
	}
	if result.State != StateMissing {
		t.Fatalf("expected missing, got %s", result.State)
	}
	if _, _, err := NewStore().Read(ref); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error from Read, got %v", err)
	}
}

func TestReadDetectsTamperedPayload(t *testing.T) {
	ref, _ := ScalerRef(filepath.Join(t.TempDir(), "scaler.json"))
	store := NewStore(WithClock(fixedClock))
	if err := store.Write(ref, scalerPayload(), Metadata{Version: "1"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "11.7", "99.9", 1)
	if err := os.WriteFile(ref.Path, []byte(tampered), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err = store.Read(ref)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	result, _ := store.Check(ref)
	if result.State != StateInvalid {
		t.Fatalf("expected invalid, got %s", result.State)
	}
}

func TestReadRejectsWrongArtifactID(t *testing.T) {
	dir := t.TempDir()
	scaler, _ := ScalerRef(filepath.Join(dir, "artifact.yaml"))
	store := NewStore(WithClock(fixedClock))
	if err := store.Write(scaler, scalerPayload(), Metadata{Version: "1"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	model, _ := ModelRef(scaler.Path)
	if _, _, err := store.Read(model); err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("expected id mismatch error, got %v", err)
	}
}

func TestReadCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"scaler.yaml": "mean: [1, 2]\n",
		"scaler.json": `{"mean": [1, 2]}`,
		"scaler.pb":   "definitely not protobuf",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		ref, _ := ScalerRef(path)
		result, err := NewStore().Check(ref)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if result.State != StateInvalid {
			t.Fatalf("%s: expected invalid, got %s", name, result.State)
		}
	}
}

func TestHandWrittenDocumentWithoutChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaler.yml")
	doc := strings.Join([]string{
		"---",
		"segmenter:",
		"  artifact: scaler",
		"  version: 2",
		"  created: 2025-11-02T10:00:00Z",
		"---",
		"",
		"mean: [1, 2.5]",
		"scale: [2, 4]",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	ref, _ := ScalerRef(path)
	meta, payload, err := NewStore().Read(ref)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if meta.Version != "2" {
		t.Fatalf("expected version 2, got %q", meta.Version)
	}
	var params struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	}
	if err := payload.Decode(&params); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff([]float64{1, 2.5}, params.Mean); diff != "" {
		t.Fatalf("mean mismatch:\n%s", diff)
	}
}

func TestKindForPath(t *testing.T) {
	cases := map[string]Kind{
		"a.yaml": KindDocument,
		"a.YML":  KindDocument,
		"a.json": KindJSON,
		"a.pb":   KindBinary,
		"a.bin":  KindBinary,
	}
	for path, want := range cases {
		got, err := KindForPath(path)
		if err != nil || got != want {
			t.Fatalf("KindForPath(%q) = %s, %v; want %s", path, got, err, want)
		}
	}
	if _, err := KindForPath("scaler.pkl"); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
}

func TestReadRejectsUnknownArtifactInJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaler.json")
	content := `{"_segmenter": {"artifact": "encoder", "version": "1", "created": "2025-11-02T10:00:00Z"}, "mean": [1]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	ref, _ := ScalerRef(path)
	if _, _, err := NewStore().Read(ref); !errors.Is(err, ErrUnknownArtifact) {
		t.Fatalf("expected unknown artifact error, got %v", err)
	}
}
