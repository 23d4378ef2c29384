package segment

import "fmt"

// Scaler standardizes an assembled feature vector.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
	NumFeatures() int
}

// Clusterer assigns a scaled vector to one of its fitted clusters.
type Clusterer interface {
	Predict(x []float64) (int, error)
	NumFeatures() int
	NumClusters() int
}

// Distancer is implemented by clusterers that can report the distance from a
// scaled vector to every centroid.
type Distancer interface {
	Distances(x []float64) ([]float64, error)
}

// Artifacts holds the fitted scaler and model. It is built once at startup
// and never mutated afterwards.
type Artifacts struct {
	Scaler Scaler
	Model  Clusterer
}

// Validate checks that both artifacts are present and agree on arity with
// each other and with FeatureNames.
func (a Artifacts) Validate() error {
	if a.Scaler == nil {
		return fmt.Errorf("segment: scaler is required")
	}
	if a.Model == nil {
		return fmt.Errorf("segment: model is required")
	}
	if got := a.Scaler.NumFeatures(); got != NumFeatures {
		return &DimensionMismatchError{Component: "scaler", Want: NumFeatures, Got: got}
	}
	if got := a.Model.NumFeatures(); got != a.Scaler.NumFeatures() {
		return &DimensionMismatchError{Component: "model", Want: got, Got: a.Scaler.NumFeatures()}
	}
	return nil
}

// Prediction is the plain-data result of one inference call.
type Prediction struct {
	Cluster   int       `json:"cluster"`
	Label     string    `json:"label"`
	Distances []float64 `json:"distances,omitempty"`
}

// Known reports whether the label came from the catalog rather than the
// UnknownSegment fallback.
func (p Prediction) Known() bool {
	return p.Label != UnknownSegment
}

// Predictor runs the scale -> nearest centroid -> label pipeline. It holds no
// mutable state and is safe for concurrent use.
type Predictor struct {
	artifacts Artifacts
	catalog   Catalog
}

// NewPredictor validates the artifacts and binds them to a catalog.
func NewPredictor(artifacts Artifacts, catalog Catalog) (*Predictor, error) {
	if err := artifacts.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{artifacts: artifacts, catalog: catalog}, nil
}

// Catalog returns the label table used by the predictor.
func (p *Predictor) Catalog() Catalog {
	return p.catalog
}

// NumClusters returns the number of clusters the model can emit.
func (p *Predictor) NumClusters() int {
	return p.artifacts.Model.NumClusters()
}

// Predict maps one record to its cluster and label. Input bounds are not
// checked; out-of-range values still produce a prediction.
func (p *Predictor) Predict(record FeatureRecord) (Prediction, error) {
	return p.PredictVector(record.Vector())
}

// PredictVector is Predict for an already assembled vector.
func (p *Predictor) PredictVector(x []float64) (Prediction, error) {
	if len(x) != p.artifacts.Scaler.NumFeatures() {
		return Prediction{}, &DimensionMismatchError{Component: "scaler", Want: p.artifacts.Scaler.NumFeatures(), Got: len(x)}
	}
	scaled, err := p.artifacts.Scaler.Transform(x)
	if err != nil {
		return Prediction{}, err
	}
	cluster, err := p.artifacts.Model.Predict(scaled)
	if err != nil {
		return Prediction{}, err
	}
	result := Prediction{Cluster: cluster, Label: p.catalog.Label(cluster)}
	if d, ok := p.artifacts.Model.(Distancer); ok {
		distances, err := d.Distances(scaled)
		if err != nil {
			return Prediction{}, err
		}
		result.Distances = distances
	}
	return result, nil
}
