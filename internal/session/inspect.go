package session

import (
	"time"

	"github.com/kingrea/segmenter/internal/artifact"
	"github.com/kingrea/segmenter/internal/config"
)

// ArtifactStatus is a display-ready summary of one artifact on disk.
type ArtifactStatus struct {
	ID       string            `json:"id"`
	Path     string            `json:"path"`
	Kind     string            `json:"kind,omitempty"`
	State    string            `json:"state"`
	Version  string            `json:"version,omitempty"`
	Producer string            `json:"producer,omitempty"`
	Created  string            `json:"created,omitempty"`
	Checksum string            `json:"checksum,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Inspect checks both configured artifacts without loading them into a
// predictor, so it also works when startup would fail.
func Inspect(cfg *config.Config, store *artifact.Store) []ArtifactStatus {
	if store == nil {
		store = artifact.NewStore()
	}
	paths := cfg.ArtifactPaths()
	return []ArtifactStatus{
		inspectOne(store, artifact.ScalerRef, paths.Scaler),
		inspectOne(store, artifact.ModelRef, paths.Model),
	}
}

func inspectOne(store *artifact.Store, newRef func(string) (artifact.Ref, error), path string) ArtifactStatus {
	ref, err := newRef(path)
	status := ArtifactStatus{ID: ref.ID, Path: path, Kind: string(ref.Kind)}
	if err != nil {
		status.State = string(artifact.StateError)
		status.Error = err.Error()
		return status
	}
	result, _ := store.Check(ref)
	status.State = string(result.State)
	if result.Err != nil {
		status.Error = result.Err.Error()
	}
	if meta := result.Metadata; meta != nil {
		status.Version = meta.Version
		status.Producer = meta.Producer
		status.Created = meta.CreatedAt.Format(time.RFC3339)
		status.Checksum = meta.Checksum
		status.Notes = meta.Notes
	}
	return status
}

// Inspect reports the configured artifacts using the session's store.
func (s *Session) Inspect() []ArtifactStatus {
	return Inspect(s.Config, s.store)
}
