package artifact

import (
	"errors"
	"testing"
)

func TestParseFrontMatterErrors(t *testing.T) {
	if _, _, err := ParseFrontMatter(nil); !errors.Is(err, ErrMissingFrontMatter) {
		t.Fatalf("expected missing frontmatter, got %v", err)
	}
	if _, _, err := ParseFrontMatter([]byte("---\nsegmenter:\n  artifact: scaler\n")); !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("expected malformed frontmatter, got %v", err)
	}
	if _, _, err := ParseFrontMatter([]byte("---\nsegmenter:\n  artifact: scaler\n---\nbody")); !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("expected malformed frontmatter for missing version, got %v", err)
	}
}

func TestFrontMatterRoundTripCRLF(t *testing.T) {
	meta := Metadata{ArtifactID: IDModel, Version: "3", CreatedAt: fixedClock()}
	content, err := WriteFrontMatter(meta, []byte("centroids: []\n"))
	if err != nil {
		t.Fatalf("WriteFrontMatter: %v", err)
	}
	crlf := []byte{}
	for _, b := range content {
		if b == '\n' {
			crlf = append(crlf, '\r')
		}
		crlf = append(crlf, b)
	}
	got, body, err := ParseFrontMatter(crlf)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if got.ArtifactID != IDModel || got.Version != "3" || !got.CreatedAt.Equal(fixedClock()) {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if string(body) != "\ncentroids: []\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseFrontMatterRejectsUnknownArtifact(t *testing.T) {
	doc := "---\nsegmenter:\n  artifact: encoder\n  version: 1\n  created: 2025-11-02T10:00:00Z\n---\nmean: [1]\n"
	_, _, err := ParseFrontMatter([]byte(doc))
	if !errors.Is(err, ErrUnknownArtifact) || !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("expected unknown artifact in malformed frontmatter, got %v", err)
	}
	if _, err := WriteFrontMatter(Metadata{ArtifactID: "encoder", Version: "1"}, nil); !errors.Is(err, ErrUnknownArtifact) {
		t.Fatalf("expected write to reject unknown artifact, got %v", err)
	}
}

func TestParseFrontMatterIgnoresOtherHeaderKeys(t *testing.T) {
	doc := "---\ntitle: fitted on the 2025 marketing export\nsegmenter:\n  artifact: model\n  version: 4\n  created: 2025-11-02T10:00:00Z\n  notes:\n    k: 6\n---\ncentroids: [[0]]\n"
	meta, body, err := ParseFrontMatter([]byte(doc))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta.ArtifactID != IDModel || meta.Version != "4" || meta.Notes["k"] != "6" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if string(body) != "centroids: [[0]]\n" {
		t.Fatalf("unexpected body %q", body)
	}
}
