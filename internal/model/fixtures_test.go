package model_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/segmenter/internal/model"
	"github.com/kingrea/segmenter/internal/model/modeltest"
)

func TestReferenceFixturesAgree(t *testing.T) {
	fromYAML, err := model.Load(context.Background(), nil, model.Paths{
		Scaler: filepath.Join("testdata", "reference", "scaler.yaml"),
		Model:  filepath.Join("testdata", "reference", "kmeans_model.yaml"),
	})
	if err != nil {
		t.Fatal(err)
	}
	fromGo, err := model.Load(context.Background(), nil, modeltest.WriteReference(t, t.TempDir(), ".pb"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromYAML.Scaler.Params(), fromGo.Scaler.Params()); diff != "" {
		t.Fatalf("scaler fixtures diverged:\n%s", diff)
	}
	if diff := cmp.Diff(fromYAML.Model.Params(), fromGo.Model.Params()); diff != "" {
		t.Fatalf("model fixtures diverged:\n%s", diff)
	}
}
