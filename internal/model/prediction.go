package model

// PredictionResult is the response for one estimated property
type PredictionResult struct {
	PredictionID            string             `json:"prediction_id"`
	PredictedPrice          float64            `json:"predicted_price"`
	PredictedPriceFormatted string             `json:"predicted_price_formatted"`
	PredictedPriceBillion   float64            `json:"predicted_price_billion"`
	ConfidenceInterval      *string            `json:"confidence_interval,omitempty"` // 95%
	ConfidenceLower         *float64           `json:"confidence_lower,omitempty"`
	ConfidenceUpper         *float64           `json:"confidence_upper,omitempty"`
	Uncertainty             float64            `json:"uncertainty"`
	PropertyCategory        string             `json:"property_category"`
	Zone                    string             `json:"zone"`
	ModelPredictions        map[string]float64 `json:"model_predictions,omitempty"`
	PreprocessingInfo       *PreprocessingInfo `json:"preprocessing_info,omitempty"`
}

// PreprocessingInfo explains what the pipeline did to the raw input
type PreprocessingInfo struct {
	MissingFields       []string           `json:"missing_fields"`
	ImputedValues       map[string]float64 `json:"imputed_values"`
	ZoneMapped          string             `json:"zone_mapped"`
	FeaturesShape       [2]int             `json:"features_shape"`
	SynthesizedFeatures []string           `json:"synthesized_features,omitempty"`
}

// BatchItemResult is one entry of a batch response. Exactly one of the
// embedded result or Error is set.
type BatchItemResult struct {
	Index int `json:"index"`
	*PredictionResult
	Error string `json:"error,omitempty"`
}

// BatchPredictionResponse aggregates per-item results in input order
type BatchPredictionResponse struct {
	TotalProperties       int               `json:"total_properties"`
	SuccessfulPredictions int               `json:"successful_predictions"`
	FailedPredictions     int               `json:"failed_predictions"`
	Results               []BatchItemResult `json:"results"`
}

// DescribeResponse pairs the structured input extracted from a description
// with its prediction
type DescribeResponse struct {
	Provider   string            `json:"provider"`
	Extracted  *PropertyInput    `json:"extracted"`
	Prediction *PredictionResult `json:"prediction"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	ModelsLoaded bool   `json:"models_loaded"`
	Version      string `json:"version"`
}

// FeatureImportance is one ranked feature of the trained models
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelInfoResponse describes the loaded model bundle
type ModelInfoResponse struct {
	Models            []string                      `json:"models"`
	HasEnsembleModel  bool                          `json:"has_ensemble_model"`
	ModelWeights      []float64                     `json:"model_weights,omitempty"`
	SelectedFeatures  []string                      `json:"selected_features"` // first 10
	TotalFeatures     int                           `json:"total_features"`
	EvaluationResults map[string]map[string]float64 `json:"evaluation_results"`
	FeatureImportance []FeatureImportance           `json:"feature_importance"` // top 10
}

// ZonesResponse lists known locations per zone
type ZonesResponse struct {
	TotalZones int                 `json:"total_zones"`
	Zones      map[string][]string `json:"zones"`
	ZoneNames  []string            `json:"zone_names"`
}
