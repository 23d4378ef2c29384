// Package artifact reads and writes the persisted, fitted objects the
// segmenter depends on. An artifact is a payload plus a metadata envelope,
// stored in one of three encodings chosen by file extension.

package artifact

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Kind captures the storage shape and serialization format for an artifact.
type Kind string

const (
	// KindDocument is a YAML payload preceded by YAML frontmatter.
	KindDocument Kind = "document"
	// KindJSON is a JSON object enriched with a _segmenter metadata block.
	KindJSON Kind = "json"
	// KindBinary is a protobuf-encoded google.protobuf.Struct envelope.
	KindBinary Kind = "binary"
)

// Canonical artifact identifiers.
const (
	IDScaler = "scaler"
	IDModel  = "model"
)

// KindForPath infers the artifact kind from the file extension.
func KindForPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".md":
		return KindDocument, nil
	case ".json":
		return KindJSON, nil
	case ".pb", ".bin":
		return KindBinary, nil
	default:
		return "", fmt.Errorf("artifact: cannot infer kind for %q", path)
	}
}

// Ref declares a stable identifier and on-disk location for an artifact.
type Ref struct {
	ID   string
	Name string
	Path string
	Kind Kind
}

// NewRef builds a reference whose kind is inferred from the path.
func NewRef(id, name, path string) (Ref, error) {
	ref := Ref{ID: id, Name: name, Path: filepath.Clean(path)}
	kind, err := KindForPath(path)
	if err != nil {
		return ref, err
	}
	ref.Kind = kind
	return ref, ref.Validate()
}

// ScalerRef references the fitted scaler at path.
func ScalerRef(path string) (Ref, error) {
	return NewRef(IDScaler, "Feature Scaler", path)
}

// ModelRef references the fitted clustering model at path.
func ModelRef(path string) (Ref, error) {
	return NewRef(IDModel, "Clustering Model", path)
}

// Validate ensures the reference is well-formed.
func (r Ref) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("artifact: id is required")
	}
	if r.Kind == "" {
		return fmt.Errorf("artifact: kind is required for %s", r.ID)
	}
	if r.Path == "" || r.Path == "." {
		return fmt.Errorf("artifact: path is required for %s", r.ID)
	}
	return nil
}

// Metadata captures provenance stored alongside the payload.
type Metadata struct {
	ArtifactID string
	Version    string
	Producer   string
	CreatedAt  time.Time
	Checksum   string
	Notes      map[string]string
}

// WithDefaults ensures metadata carries the artifact ID and a timestamp.
func (m Metadata) WithDefaults(ref Ref, now time.Time) Metadata {
	clone := m
	if clone.ArtifactID == "" {
		clone.ArtifactID = ref.ID
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now.UTC()
	} else {
		clone.CreatedAt = clone.CreatedAt.UTC()
	}
	clone.Notes = cloneNotes(m.Notes)
	return clone
}

// ValidateFor ensures metadata matches the artifact contract.
func (m Metadata) ValidateFor(ref Ref) error {
	if m.ArtifactID != ref.ID {
		return fmt.Errorf("artifact: metadata id %q does not match %q", m.ArtifactID, ref.ID)
	}
	if m.Version == "" {
		return fmt.Errorf("artifact: version is required for %s", ref.ID)
	}
	return nil
}

// State captures the readiness of an artifact on disk.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
	StateError   State = "error"
)

// CheckResult captures Store.Check results.
type CheckResult struct {
	Ref      Ref
	State    State
	Metadata *Metadata
	Err      error
}

// Payload is the decoded body of an artifact. Numbers may arrive as any Go
// numeric type depending on the encoding; use Decode for typed access.
type Payload map[string]any

// EncodePayload converts a typed value into a Payload through its JSON form.
func EncodePayload(v any) (Payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("artifact: encode payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("artifact: payload must be an object: %w", err)
	}
	return p, nil
}

// Decode fills v from the payload using JSON field rules.
func (p Payload) Decode(v any) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("artifact: decode payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifact: decode payload: %w", err)
	}
	return nil
}

// normalized returns the payload with every value reduced to JSON types.
func (p Payload) normalized() (Payload, error) {
	if p == nil {
		return Payload{}, nil
	}
	return EncodePayload(p)
}
