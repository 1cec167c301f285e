// Package bundle loads the pre-trained model artifact the price estimator
// serves: the base regressors, an optional ensemble meta-model, the fitted
// scaler and the ordered feature schema they were trained on.
//
// A Bundle is immutable once loaded and safe for concurrent use.
package bundle

import "context"

// Regressor maps a scaled feature vector to a single prediction. Local
// models ignore ctx; remote ones abort their call when it is done.
type Regressor interface {
	Predict(ctx context.Context, vector []float64) (float64, error)
}

// Scaler applies the fitted feature scaling. The output has the same length
// and order as the input.
type Scaler interface {
	Transform(vector []float64) ([]float64, error)
}

// NamedModel is a base regressor together with the name it was trained under.
type NamedModel struct {
	Name      string
	Regressor Regressor
}

// FeatureImportance is one ranked feature as reported by training.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

type Bundle struct {
	// Models are kept in artifact order. ModelWeights, when present, is
	// aligned with this order.
	Models []NamedModel
	// Ensemble is the optional meta-model whose output is authoritative.
	Ensemble          Regressor
	Scaler            Scaler
	SelectedFeatures  []string
	FeatureImportance []FeatureImportance
	EvaluationResults map[string]map[string]float64
	ModelWeights      []float64
}

// ModelNames returns the base model names in artifact order.
func (b *Bundle) ModelNames() []string {
	names := make([]string, len(b.Models))
	for i, m := range b.Models {
		names[i] = m.Name
	}
	return names
}
