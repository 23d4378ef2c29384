package model

import (
	"fmt"
	"math"

	"github.com/kingrea/segmenter/internal/segment"
)

// KMeansParams is the persisted form of a fitted KMeans model.
type KMeansParams struct {
	Features  []string    `json:"features,omitempty"`
	Centroids [][]float64 `json:"centroids"`
}

// KMeans assigns points to the nearest fitted centroid by squared Euclidean
// distance. Ties go to the lowest centroid index, matching an argmin scan.
type KMeans struct {
	features  []string
	centroids [][]float64
	dim       int
}

// NewKMeans validates params and returns an immutable model.
func NewKMeans(params KMeansParams) (*KMeans, error) {
	if len(params.Centroids) == 0 {
		return nil, fmt.Errorf("model: kmeans has no centroids")
	}
	dim := len(params.Centroids[0])
	if dim == 0 {
		return nil, fmt.Errorf("model: kmeans centroids are empty")
	}
	centroids := make([][]float64, len(params.Centroids))
	for i, c := range params.Centroids {
		if len(c) != dim {
			return nil, fmt.Errorf("model: centroid %d has %d coordinates, want %d", i, len(c), dim)
		}
		centroids[i] = append([]float64(nil), c...)
	}
	if len(params.Features) != 0 && len(params.Features) != dim {
		return nil, fmt.Errorf("model: kmeans names %d features but centroids have %d", len(params.Features), dim)
	}
	return &KMeans{
		features:  append([]string(nil), params.Features...),
		centroids: centroids,
		dim:       dim,
	}, nil
}

func (m *KMeans) NumFeatures() int { return m.dim }
func (m *KMeans) NumClusters() int { return len(m.centroids) }

// Features returns the recorded feature names, if any.
func (m *KMeans) Features() []string {
	return append([]string(nil), m.features...)
}

// Predict returns the index of the closest centroid.
func (m *KMeans) Predict(x []float64) (int, error) {
	if len(x) != m.dim {
		return 0, &segment.DimensionMismatchError{Component: "model", Want: m.dim, Got: len(x)}
	}
	best := 0
	bestDist := squaredDistance(x, m.centroids[0])
	for i := 1; i < len(m.centroids); i++ {
		if d := squaredDistance(x, m.centroids[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

// Distances returns the Euclidean distance from x to every centroid, the
// same values a fitted KMeans reports from transform.
func (m *KMeans) Distances(x []float64) ([]float64, error) {
	if len(x) != m.dim {
		return nil, &segment.DimensionMismatchError{Component: "model", Want: m.dim, Got: len(x)}
	}
	out := make([]float64, len(m.centroids))
	for i, c := range m.centroids {
		out[i] = math.Sqrt(squaredDistance(x, c))
	}
	return out, nil
}

// Params returns the persisted form of the model.
func (m *KMeans) Params() KMeansParams {
	centroids := make([][]float64, len(m.centroids))
	for i, c := range m.centroids {
		centroids[i] = append([]float64(nil), c...)
	}
	return KMeansParams{Features: m.Features(), Centroids: centroids}
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
