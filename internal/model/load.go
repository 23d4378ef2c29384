package model

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kingrea/segmenter/internal/artifact"
	"github.com/kingrea/segmenter/internal/segment"
)

// Paths locates the two persisted artifacts.
type Paths struct {
	Scaler string
	Model  string
}

// Loaded is the resident result of Load.
type Loaded struct {
	Scaler     *StandardScaler
	Model      *KMeans
	ScalerMeta artifact.Metadata
	ModelMeta  artifact.Metadata
}

// Artifacts exposes the loaded objects to the segment pipeline.
func (l *Loaded) Artifacts() segment.Artifacts {
	return segment.Artifacts{Scaler: l.Scaler, Model: l.Model}
}

// Load decodes the scaler and the model and checks that they agree with the
// fixed feature layout. Any unreadable artifact yields a
// *segment.ArtifactLoadError naming its path; arity disagreements yield a
// *segment.DimensionMismatchError.
func Load(ctx context.Context, store *artifact.Store, paths Paths) (*Loaded, error) {
	if store == nil {
		store = artifact.NewStore()
	}
	loaded := &Loaded{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scaler, meta, err := loadScaler(ctx, store, paths.Scaler)
		if err != nil {
			return err
		}
		loaded.Scaler, loaded.ScalerMeta = scaler, meta
		return nil
	})
	g.Go(func() error {
		model, meta, err := loadModel(ctx, store, paths.Model)
		if err != nil {
			return err
		}
		loaded.Model, loaded.ModelMeta = model, meta
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := loaded.Artifacts().Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadScaler(ctx context.Context, store *artifact.Store, path string) (*StandardScaler, artifact.Metadata, error) {
	fail := func(err error) (*StandardScaler, artifact.Metadata, error) {
		return nil, artifact.Metadata{}, &segment.ArtifactLoadError{Artifact: artifact.IDScaler, Path: path, Err: err}
	}
	payload, meta, err := read(ctx, store, artifact.ScalerRef, path)
	if err != nil {
		return fail(err)
	}
	var params ScalerParams
	if err := payload.Decode(&params); err != nil {
		return fail(err)
	}
	scaler, err := NewStandardScaler(params)
	if err != nil {
		return fail(err)
	}
	if err := checkFeatureOrder(params.Features); err != nil {
		return fail(err)
	}
	return scaler, meta, nil
}

func loadModel(ctx context.Context, store *artifact.Store, path string) (*KMeans, artifact.Metadata, error) {
	fail := func(err error) (*KMeans, artifact.Metadata, error) {
		return nil, artifact.Metadata{}, &segment.ArtifactLoadError{Artifact: artifact.IDModel, Path: path, Err: err}
	}
	payload, meta, err := read(ctx, store, artifact.ModelRef, path)
	if err != nil {
		return fail(err)
	}
	var params KMeansParams
	if err := payload.Decode(&params); err != nil {
		return fail(err)
	}
	model, err := NewKMeans(params)
	if err != nil {
		return fail(err)
	}
	if err := checkFeatureOrder(params.Features); err != nil {
		return fail(err)
	}
	return model, meta, nil
}

func read(ctx context.Context, store *artifact.Store, newRef func(string) (artifact.Ref, error), path string) (artifact.Payload, artifact.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, artifact.Metadata{}, err
	}
	if path == "" {
		return nil, artifact.Metadata{}, fmt.Errorf("model: artifact path is not configured")
	}
	ref, err := newRef(path)
	if err != nil {
		return nil, artifact.Metadata{}, err
	}
	meta, payload, err := store.Read(ref)
	if err != nil {
		return nil, artifact.Metadata{}, err
	}
	return payload, meta, nil
}

// checkFeatureOrder rejects artifacts whose recorded column names are a
// permutation or renaming of segment.FeatureNames. Count disagreements are
// left to the dimension check.
func checkFeatureOrder(names []string) error {
	if len(names) != segment.NumFeatures {
		return nil
	}
	for i, name := range names {
		if name != segment.FeatureNames[i] {
			return fmt.Errorf("model: feature %d is %q, want %q", i, name, segment.FeatureNames[i])
		}
	}
	return nil
}

// SaveScaler persists a scaler at path in the encoding its extension selects.
func SaveScaler(store *artifact.Store, path string, s *StandardScaler, meta artifact.Metadata) error {
	ref, err := artifact.ScalerRef(path)
	if err != nil {
		return err
	}
	payload, err := artifact.EncodePayload(s.Params())
	if err != nil {
		return err
	}
	return store.Write(ref, payload, meta)
}

// SaveModel persists a model at path in the encoding its extension selects.
func SaveModel(store *artifact.Store, path string, m *KMeans, meta artifact.Metadata) error {
	ref, err := artifact.ModelRef(path)
	if err != nil {
		return err
	}
	payload, err := artifact.EncodePayload(m.Params())
	if err != nil {
		return err
	}
	return store.Write(ref, payload, meta)
}
