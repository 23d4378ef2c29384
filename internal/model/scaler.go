// Package model holds the fitted transforms that the segment pipeline runs
// and decodes them from persisted artifacts.
package model

import (
	"fmt"

	"github.com/kingrea/segmenter/internal/segment"
)

// ScalerParams is the persisted form of a StandardScaler.
type ScalerParams struct {
	Features []string  `json:"features,omitempty"`
	Mean     []float64 `json:"mean,omitempty"`
	Scale    []float64 `json:"scale,omitempty"`
}

// StandardScaler computes (x - mean) / scale per feature. A missing mean
// disables centering and a missing scale disables division.
type StandardScaler struct {
	features []string
	mean     []float64
	scale    []float64
	n        int
}

// NewStandardScaler validates params and returns an immutable scaler.
func NewStandardScaler(params ScalerParams) (*StandardScaler, error) {
	n := len(params.Mean)
	if n == 0 {
		n = len(params.Scale)
	}
	if n == 0 {
		n = len(params.Features)
	}
	if n == 0 {
		return nil, fmt.Errorf("model: scaler has neither mean nor scale")
	}
	if len(params.Mean) != 0 && len(params.Mean) != n {
		return nil, fmt.Errorf("model: scaler mean has %d entries, want %d", len(params.Mean), n)
	}
	if len(params.Scale) != 0 && len(params.Scale) != n {
		return nil, fmt.Errorf("model: scaler scale has %d entries, want %d", len(params.Scale), n)
	}
	if len(params.Features) != 0 && len(params.Features) != n {
		return nil, fmt.Errorf("model: scaler names %d features but has %d parameters", len(params.Features), n)
	}
	s := &StandardScaler{
		features: append([]string(nil), params.Features...),
		mean:     append([]float64(nil), params.Mean...),
		n:        n,
	}
	if len(params.Scale) > 0 {
		s.scale = make([]float64, n)
		for i, v := range params.Scale {
			// constant features were fit with zero variance
			if v == 0 {
				v = 1
			}
			s.scale[i] = v
		}
	}
	return s, nil
}

// NumFeatures returns the arity the scaler was fit on.
func (s *StandardScaler) NumFeatures() int {
	return s.n
}

// Features returns the recorded feature names, if any.
func (s *StandardScaler) Features() []string {
	return append([]string(nil), s.features...)
}

// Transform standardizes x into a new slice.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != s.n {
		return nil, &segment.DimensionMismatchError{Component: "scaler", Want: s.n, Got: len(x)}
	}
	out := make([]float64, s.n)
	for i, v := range x {
		if s.mean != nil {
			v -= s.mean[i]
		}
		if s.scale != nil {
			v /= s.scale[i]
		}
		out[i] = v
	}
	return out, nil
}

// Params returns the persisted form of the scaler.
func (s *StandardScaler) Params() ScalerParams {
	return ScalerParams{
		Features: s.Features(),
		Mean:     append([]float64(nil), s.mean...),
		Scale:    append([]float64(nil), s.scale...),
	}
}
