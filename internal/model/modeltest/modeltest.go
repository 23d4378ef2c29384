// Package modeltest writes fitted reference artifacts for tests in other
// packages.
package modeltest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kingrea/segmenter/internal/artifact"
	"github.com/kingrea/segmenter/internal/model"
	"github.com/kingrea/segmenter/internal/segment"
)

// ReferenceScalerParams mirrors internal/model/testdata/reference/scaler.yaml.
func ReferenceScalerParams() model.ScalerParams {
	return model.ScalerParams{
		Features: append([]string(nil), segment.FeatureNames...),
		Mean:     []float64{52.0, 52000.0, 605.0, 4.1, 5.8, 5.3, 49.0},
		Scale:    []float64{11.7, 21500.0, 602.0, 2.8, 3.25, 2.4, 29.0},
	}
}

// ReferenceModelParams mirrors internal/model/testdata/reference/kmeans_model.yaml.
func ReferenceModelParams() model.KMeansParams {
	return model.KMeansParams{
		Features: append([]string(nil), segment.FeatureNames...),
		Centroids: [][]float64{
			{1.4, 1.0, 1.1, 0.3, 1.0, -0.9, 0.0},
			{-0.2, -0.9, -0.8, -0.7, -0.8, 0.8, -0.5},
			{0.5, 0.4, 0.3, 1.2, 0.6, 0.2, 0.0},
			{0.0, -0.6, -0.7, -0.6, -0.7, 0.5, 1.0},
			{0.8, 1.0, 1.2, 0.2, 1.2, -0.9, -0.9},
			{-1.2, 1.3, 1.5, 0.0, 0.9, -1.1, 0.0},
		},
	}
}

// WriteReference writes the reference pair into dir as scaler<ext> and
// kmeans_model<ext> and returns their paths.
func WriteReference(t testing.TB, dir, ext string) model.Paths {
	t.Helper()
	scaler, err := model.NewStandardScaler(ReferenceScalerParams())
	if err != nil {
		t.Fatalf("reference scaler: %v", err)
	}
	km, err := model.NewKMeans(ReferenceModelParams())
	if err != nil {
		t.Fatalf("reference model: %v", err)
	}
	store := artifact.NewStore(artifact.WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}))
	paths := model.Paths{
		Scaler: filepath.Join(dir, "scaler"+ext),
		Model:  filepath.Join(dir, "kmeans_model"+ext),
	}
	meta := artifact.Metadata{Version: "1", Producer: "modeltest"}
	if err := model.SaveScaler(store, paths.Scaler, scaler, meta); err != nil {
		t.Fatalf("write reference scaler: %v", err)
	}
	if err := model.SaveModel(store, paths.Model, km, meta); err != nil {
		t.Fatalf("write reference model: %v", err)
	}
	return paths
}
