package bundle

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/xh3b4sd/tracer"
)

const (
	kindLinear       = "linear"
	kindTreeEnsemble = "tree_ensemble"
	kindRemote       = "remote"

	scalerStandard = "standard"
	scalerMinMax   = "minmax"
	scalerIdentity = "identity"
)

// Options tune how regressors are constructed from the artifact.
type Options struct {
	// RemoteTimeout bounds each call of a remote regressor. Defaults to 10s.
	RemoteTimeout time.Duration
	// Client is used by remote regressors. A client with RemoteTimeout is
	// created when nil.
	Client *http.Client
}

type artifact struct {
	SelectedFeatures  []string                      `json:"selected_features"`
	Models            []modelSpec                   `json:"models"`
	EnsembleModel     *modelSpec                    `json:"ensemble_model,omitempty"`
	Scaler            *scalerSpec                   `json:"scaler"`
	ModelWeights      []float64                     `json:"model_weights,omitempty"`
	FeatureImportance []FeatureImportance           `json:"feature_importance,omitempty"`
	EvaluationResults map[string]map[string]float64 `json:"evaluation_results,omitempty"`
}

type modelSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`

	// linear
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`

	// tree_ensemble
	BaseScore float64    `json:"base_score,omitempty"`
	Trees     []treeSpec `json:"trees,omitempty"`

	// remote
	URL string `json:"url,omitempty"`
}

type treeSpec struct {
	Nodes []treeNode `json:"nodes"`
}

type scalerSpec struct {
	Type  string    `json:"type"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`
	Min   []float64 `json:"min,omitempty"`
}

// Load reads and validates the JSON artifact at path.
func Load(path string, opt Options) (*Bundle, error) {
	byt, err := os.ReadFile(path)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	b, err := Parse(byt, opt)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return b, nil
}

// Parse builds a Bundle from the JSON artifact bytes.
func Parse(byt []byte, opt Options) (*Bundle, error) {
	var art artifact
	{
		err := json.Unmarshal(byt, &art)
		if err != nil {
			return nil, tracer.Mask(fmt.Errorf("decode artifact: %w", err))
		}
	}

	{
		err := art.validate()
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	if opt.RemoteTimeout <= 0 {
		opt.RemoteTimeout = 10 * time.Second
	}
	if opt.Client == nil {
		opt.Client = &http.Client{Timeout: opt.RemoteTimeout}
	}

	width := len(art.SelectedFeatures)

	b := &Bundle{
		SelectedFeatures:  art.SelectedFeatures,
		FeatureImportance: art.FeatureImportance,
		EvaluationResults: art.EvaluationResults,
		ModelWeights:      art.ModelWeights,
	}

	for _, spec := range art.Models {
		reg, err := spec.build(width, opt)
		if err != nil {
			return nil, tracer.Mask(err)
		}
		b.Models = append(b.Models, NamedModel{Name: spec.Name, Regressor: reg})
	}

	if art.EnsembleModel != nil {
		reg, err := art.EnsembleModel.build(width, opt)
		if err != nil {
			return nil, tracer.Mask(err)
		}
		b.Ensemble = reg
	}

	{
		sca, err := art.Scaler.build(width)
		if err != nil {
			return nil, tracer.Mask(err)
		}
		b.Scaler = sca
	}

	return b, nil
}

func (a *artifact) validate() error {
	if len(a.SelectedFeatures) == 0 {
		return fmt.Errorf("invalid artifact: selected_features must not be empty")
	}

	seenFeature := make(map[string]bool, len(a.SelectedFeatures))
	for _, f := range a.SelectedFeatures {
		if seenFeature[f] {
			return fmt.Errorf("invalid artifact: duplicate selected feature %q", f)
		}
		seenFeature[f] = true
	}

	if len(a.Models) == 0 {
		return fmt.Errorf("invalid artifact: at least one model is required")
	}

	seenModel := make(map[string]bool, len(a.Models))
	for i, m := range a.Models {
		if m.Name == "" {
			return fmt.Errorf("invalid artifact: model %d has no name", i)
		}
		if seenModel[m.Name] {
			return fmt.Errorf("invalid artifact: duplicate model name %q", m.Name)
		}
		seenModel[m.Name] = true
	}

	if len(a.ModelWeights) > 0 {
		if len(a.ModelWeights) != len(a.Models) {
			return fmt.Errorf("invalid artifact: %d model weights for %d models", len(a.ModelWeights), len(a.Models))
		}
		var sum float64
		for _, w := range a.ModelWeights {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("invalid artifact: model weights must be finite")
			}
			sum += w
		}
		if sum == 0 {
			return fmt.Errorf("invalid artifact: model weights sum to zero")
		}
	}

	if a.Scaler == nil {
		return fmt.Errorf("invalid artifact: scaler is required")
	}

	return nil
}

func (s *modelSpec) build(width int, opt Options) (Regressor, error) {
	switch s.Type {
	case kindLinear:
		return newLinear(s.Intercept, s.Coefficients, width)
	case kindTreeEnsemble:
		return newTreeEnsemble(s.BaseScore, s.Trees, width)
	case kindRemote:
		return newRemote(s.URL, opt.Client)
	default:
		return nil, fmt.Errorf("invalid artifact: model %q has unknown type %q", s.Name, s.Type)
	}
}

func (s *scalerSpec) build(width int) (Scaler, error) {
	switch s.Type {
	case scalerStandard:
		return newStandardScaler(s.Mean, s.Scale, width)
	case scalerMinMax:
		return newMinMaxScaler(s.Min, s.Scale, width)
	case scalerIdentity, "":
		return identityScaler{}, nil
	default:
		return nil, fmt.Errorf("invalid artifact: unknown scaler type %q", s.Type)
	}
}
