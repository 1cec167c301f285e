package bundle

import (
	"fmt"
)

type standardScaler struct {
	mean  []float64
	scale []float64
}

func newStandardScaler(mean, scale []float64, width int) (*standardScaler, error) {
	if len(mean) != width || len(scale) != width {
		return nil, fmt.Errorf("invalid artifact: standard scaler has %d means and %d scales for %d features", len(mean), len(scale), width)
	}

	return &standardScaler{mean: mean, scale: scale}, nil
}

func (s *standardScaler) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.mean), len(vector))
	}

	out := make([]float64, len(vector))
	for i, x := range vector {
		sc := s.scale[i]
		if sc == 0 {
			sc = 1
		}
		out[i] = (x - s.mean[i]) / sc
	}

	return out, nil
}

type minMaxScaler struct {
	min   []float64
	scale []float64
}

func newMinMaxScaler(min, scale []float64, width int) (*minMaxScaler, error) {
	if len(min) != width || len(scale) != width {
		return nil, fmt.Errorf("invalid artifact: minmax scaler has %d mins and %d scales for %d features", len(min), len(scale), width)
	}

	return &minMaxScaler{min: min, scale: scale}, nil
}

func (s *minMaxScaler) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(s.min) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.min), len(vector))
	}

	out := make([]float64, len(vector))
	for i, x := range vector {
		out[i] = x*s.scale[i] + s.min[i]
	}

	return out, nil
}

type identityScaler struct{}

func (identityScaler) Transform(vector []float64) ([]float64, error) {
	out := make([]float64, len(vector))
	copy(out, vector)
	return out, nil
}
