package segment

import "fmt"

// ArtifactLoadError reports an artifact that could not be loaded. Without
// both artifacts no prediction can be served.
type ArtifactLoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ArtifactLoadError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load %s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError reports a feature vector whose arity disagrees
// with what a fitted component expects. Retrying cannot help.
type DimensionMismatchError struct {
	Component string
	Want      int
	Got       int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s expects %d features, got %d", e.Component, e.Want, e.Got)
}
