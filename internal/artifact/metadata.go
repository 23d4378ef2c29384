package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownArtifact indicates metadata naming something other than the
// scaler or the model.
var ErrUnknownArtifact = errors.New("artifact: unknown artifact id")

const timeLayout = time.RFC3339

// knownArtifact reports whether id is one of the two fitted artifacts.
func knownArtifact(id string) bool {
	return id == IDScaler || id == IDModel
}

// metadataToMap is the single metadata codec shared by the front matter,
// the `_segmenter` JSON block, and the protobuf envelope.
func metadataToMap(meta Metadata) map[string]any {
	result := map[string]any{
		"artifact": meta.ArtifactID,
		"version":  meta.Version,
		"created":  meta.CreatedAt.UTC().Format(timeLayout),
	}
	if meta.Producer != "" {
		result["producer"] = meta.Producer
	}
	if meta.Checksum != "" {
		result["checksum"] = meta.Checksum
	}
	if len(meta.Notes) > 0 {
		notes := make(map[string]any, len(meta.Notes))
		for k, v := range meta.Notes {
			notes[k] = v
		}
		result["notes"] = notes
	}
	return result
}

func metadataFromMap(values map[string]any) (Metadata, error) {
	id := stringValue(values["artifact"])
	version := stringValue(values["version"])
	if id == "" || version == "" {
		return Metadata{}, fmt.Errorf("artifact: metadata needs artifact and version")
	}
	if !knownArtifact(id) {
		return Metadata{}, fmt.Errorf("%w %q (want %s or %s)", ErrUnknownArtifact, id, IDScaler, IDModel)
	}
	created := strings.TrimSpace(stringValue(values["created"]))
	if created == "" {
		return Metadata{}, fmt.Errorf("artifact: %s metadata missing created timestamp", id)
	}
	createdAt, err := time.Parse(timeLayout, created)
	if err != nil {
		return Metadata{}, fmt.Errorf("artifact: %s created timestamp: %w", id, err)
	}
	return Metadata{
		ArtifactID: id,
		Version:    version,
		Producer:   stringValue(values["producer"]),
		CreatedAt:  createdAt.UTC(),
		Checksum:   stringValue(values["checksum"]),
		Notes:      mapStringValue(values["notes"]),
	}, nil
}

// stringValue flattens scalars decoded by yaml, json, or structpb.
func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(timeLayout)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

func mapStringValue(value any) map[string]string {
	raw, ok := value.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s := stringValue(v); s != "" {
			out[k] = s
		}
	}
	return out
}

func cloneNotes(notes map[string]string) map[string]string {
	if len(notes) == 0 {
		return nil
	}
	cloned := make(map[string]string, len(notes))
	for k, v := range notes {
		cloned[k] = v
	}
	return cloned
}
