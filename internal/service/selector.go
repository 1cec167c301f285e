package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/rillyayidan/SmartHome-API/internal/bundle"
)

// SelectFeatures assembles the ordered model input. Names absent from the
// feature map are synthesized by SynthesizeFeature and returned so callers
// can report them. The input map is not modified.
func SelectFeatures(features FeatureMap, selected []string) ([]float64, []string) {
	var missing []string
	for _, name := range selected {
		if _, ok := features[name]; !ok {
			missing = append(missing, name)
		}
	}

	lookup := features
	if len(missing) > 0 {
		log.Printf("Warning: Missing features synthesized with defaults: %v", missing)

		lookup = make(FeatureMap, len(features)+len(missing))
		for k, v := range features {
			lookup[k] = v
		}
		for _, name := range missing {
			lookup[name] = SynthesizeFeature(name, features[FeatureBuildingArea])
		}
	}

	vector := make([]float64, len(selected))
	for i, name := range selected {
		vector[i] = lookup[name]
	}

	return vector, missing
}

// SynthesizeFeature derives a fallback value from the feature's name
func SynthesizeFeature(name string, buildingArea float64) float64 {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "log"):
		return 0
	case strings.Contains(lower, "ratio") || strings.Contains(lower, "per"):
		return 1
	case strings.Contains(lower, "score"):
		return 0.1 * buildingArea
	default:
		return 0
	}
}

// ScaleFeatures applies the fitted scaler and checks it kept the vector shape
func ScaleFeatures(scaler bundle.Scaler, vector []float64) ([]float64, error) {
	scaled, err := scaler.Transform(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to scale features: %w", err)
	}
	if len(scaled) != len(vector) {
		return nil, fmt.Errorf("scaler returned %d features, expected %d", len(scaled), len(vector))
	}
	return scaled, nil
}
