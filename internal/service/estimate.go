package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pgvector/pgvector-go"

	"github.com/rillyayidan/SmartHome-API/internal/bundle"
	"github.com/rillyayidan/SmartHome-API/internal/model"
)

var (
	// ErrModelsNotLoaded is returned by every prediction when no bundle is loaded
	ErrModelsNotLoaded = errors.New("models not loaded")
	// ErrBatchTooLarge is returned before any item of an oversized batch runs
	ErrBatchTooLarge = errors.New("batch too large")
)

const (
	defaultMaxBatch     = 100
	modelInfoFeatures   = 10
	modelInfoImportance = 10
)

// PredictionLogger records successful predictions
type PredictionLogger interface {
	LogPrediction(ctx context.Context, entry *model.PredictionLogEntry) error
}

// ServiceOptions configures a PredictionService. The zero value gives a
// batch cap of 100, no cache and no prediction log.
type ServiceOptions struct {
	MaxBatch int
	Cache    *cache.Cache
	Logger   PredictionLogger
	Debug    bool
}

// PredictionService runs the estimation pipeline over a loaded bundle. It is
// constructed once and never mutated, so it is safe for concurrent use.
type PredictionService struct {
	bundle   *bundle.Bundle
	ensemble *EnsemblePredictor
	zones    *ZoneMapper
	maxBatch int
	cache    *cache.Cache
	logger   PredictionLogger
	debug    bool
}

type cachedPrediction struct {
	output *EnsembleOutput
	scaled []float64
}

// NewPredictionService creates a new prediction service. A nil bundle gives a
// service that reports not ready and rejects predictions.
func NewPredictionService(b *bundle.Bundle, opts ServiceOptions) *PredictionService {
	maxBatch := opts.MaxBatch
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatch
	}

	s := &PredictionService{
		bundle:   b,
		zones:    NewZoneMapper(),
		maxBatch: maxBatch,
		cache:    opts.Cache,
		logger:   opts.Logger,
		debug:    opts.Debug,
	}
	if b != nil {
		s.ensemble = NewEnsemblePredictor(b)
	}

	return s
}

// Ready reports whether a model bundle is loaded
func (s *PredictionService) Ready() bool {
	return s.bundle != nil
}

// MaxBatch returns the largest accepted batch size
func (s *PredictionService) MaxBatch() int {
	return s.maxBatch
}

// Predict estimates the price of a single property
func (s *PredictionService) Predict(ctx context.Context, in *model.PropertyInput) (*model.PredictionResult, error) {
	if !s.Ready() {
		return nil, ErrModelsNotLoaded
	}

	res, scaled, err := s.predict(ctx, in)
	if err != nil {
		log.Printf("❌ Prediction failed for %q: %v", in.Location, err)
		return nil, err
	}

	s.record(in, res, scaled)
	return res, nil
}

// PredictBatch estimates every property in input order. Item failures are
// reported in place and never abort the batch.
func (s *PredictionService) PredictBatch(ctx context.Context, items []model.PropertyInput) (*model.BatchPredictionResponse, error) {
	if !s.Ready() {
		return nil, ErrModelsNotLoaded
	}
	if len(items) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d properties, maximum is %d", ErrBatchTooLarge, len(items), s.maxBatch)
	}

	startTime := time.Now()

	resp := &model.BatchPredictionResponse{
		TotalProperties: len(items),
		Results:         make([]model.BatchItemResult, 0, len(items)),
	}

	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		in := &items[i]
		res, scaled, err := s.predict(ctx, in)
		if err != nil {
			log.Printf("Warning: batch item %d (%q) failed: %v", i, in.Location, err)
			resp.Results = append(resp.Results, model.BatchItemResult{Index: i, Error: err.Error()})
			resp.FailedPredictions++
			continue
		}

		s.record(in, res, scaled)
		resp.Results = append(resp.Results, model.BatchItemResult{Index: i, PredictionResult: res})
		resp.SuccessfulPredictions++
	}

	if s.debug {
		log.Printf("[DEBUG] Batch of %d done in %s: %d ok, %d failed",
			len(items), time.Since(startTime), resp.SuccessfulPredictions, resp.FailedPredictions)
	}

	return resp, nil
}

// predict runs the pipeline and returns the result with the scaled vector
// that produced it
func (s *PredictionService) predict(ctx context.Context, in *model.PropertyInput) (*model.PredictionResult, []float64, error) {
	zone := s.zones.Map(in.Location)

	raw := RawRecord{
		Bedrooms:            NormalizeField(in.Bedrooms, IntegerLike),
		Bathrooms:           NormalizeField(in.Bathrooms, IntegerLike),
		LandArea:            NormalizeField(in.LandArea, MeasurementLike),
		BuildingArea:        NormalizeField(in.BuildingArea, MeasurementLike),
		Carports:            NormalizeField(in.Carports, IntegerLike),
		ElectricalCapacity:  NormalizeField(in.ElectricalCapacity, MeasurementLike),
		Floors:              NormalizeField(in.Floors, IntegerLike),
		PropertyCondition:   in.PropertyCondition,
		FurnishingCondition: in.FurnishingCondition,
	}

	rec, imputed := Impute(raw)
	tier := ClassifyElectrical(&rec.ElectricalCapacity)
	features := EncodeFeatures(rec, zone, tier)
	vector, synthesized := SelectFeatures(features, s.bundle.SelectedFeatures)

	if s.debug {
		log.Printf("[DEBUG] %q -> zone=%s tier=%s record=%+v imputed=%d", in.Location, zone, tier, rec, len(imputed))
	}

	key := cacheKey(zone, rec)
	var hit *cachedPrediction
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			hit = v.(*cachedPrediction)
		}
	}

	if hit == nil {
		scaled, err := ScaleFeatures(s.bundle.Scaler, vector)
		if err != nil {
			return nil, nil, err
		}

		out, err := s.ensemble.Predict(ctx, scaled)
		if err != nil {
			return nil, nil, err
		}

		hit = &cachedPrediction{output: out, scaled: scaled}
		if s.cache != nil {
			s.cache.Set(key, hit, cache.DefaultExpiration)
		}
	} else if s.debug {
		log.Printf("[DEBUG] Cache hit for %s", key)
	}

	return buildResult(hit.output, zone, imputed, synthesized, len(hit.scaled)), hit.scaled, nil
}

func buildResult(out *EnsembleOutput, zone Zone, imputed []ImputedField, synthesized []string, width int) *model.PredictionResult {
	info := &model.PreprocessingInfo{
		MissingFields:       make([]string, 0, len(imputed)),
		ImputedValues:       make(map[string]float64, len(imputed)),
		ZoneMapped:          string(zone),
		FeaturesShape:       [2]int{1, width},
		SynthesizedFeatures: synthesized,
	}
	for _, f := range imputed {
		info.MissingFields = append(info.MissingFields, f.Name)
		info.ImputedValues[f.Name] = f.Value
	}

	preds := make(map[string]float64, len(out.ModelPredictions))
	for k, v := range out.ModelPredictions {
		preds[k] = v
	}

	res := &model.PredictionResult{
		PredictionID:            uuid.NewString(),
		PredictedPrice:          out.Price,
		PredictedPriceFormatted: FormatRupiah(out.Price),
		PredictedPriceBillion:   out.Price / 1e9,
		Uncertainty:             out.Uncertainty,
		PropertyCategory:        out.Category,
		Zone:                    string(zone),
		ModelPredictions:        preds,
		PreprocessingInfo:       info,
	}

	if out.Lower != nil && out.Upper != nil {
		lower, upper := *out.Lower, *out.Upper
		ci := FormatRupiahRange(lower, upper)
		res.ConfidenceInterval = &ci
		res.ConfidenceLower = &lower
		res.ConfidenceUpper = &upper
	}

	return res
}

// cacheKey identifies a prediction by its canonical record, which fully
// determines the model input
func cacheKey(zone Zone, rec Record) string {
	return GetCacheKey("prediction", zone,
		rec.Bedrooms, rec.Bathrooms, rec.LandArea, rec.BuildingArea, rec.Carports,
		rec.ElectricalCapacity, rec.Floors, rec.PropertyCondition, rec.FurnishingCondition)
}

// GetCacheKey joins a prefix and parameters into a cache key
func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}

// record writes the prediction log entry in the background
func (s *PredictionService) record(in *model.PropertyInput, res *model.PredictionResult, scaled []float64) {
	if s.logger == nil {
		return
	}

	input, err := model.ToJSONMap(in)
	if err != nil {
		log.Printf("Warning: failed to encode input for prediction log: %v", err)
		return
	}

	features := make([]float32, len(scaled))
	for i, v := range scaled {
		features[i] = float32(v)
	}

	entry := &model.PredictionLogEntry{
		PredictionID:   res.PredictionID,
		Location:       in.Location,
		Zone:           res.Zone,
		PredictedPrice: res.PredictedPrice,
		Category:       res.PropertyCategory,
		Uncertainty:    res.Uncertainty,
		Input:          input,
		Features:       pgvector.NewVector(features),
		CreatedAt:      time.Now().UTC(),
	}

	// Log prediction (non-blocking)
	go func() {
		if err := s.logger.LogPrediction(context.Background(), entry); err != nil {
			log.Printf("Warning: failed to log prediction %s: %v", entry.PredictionID, err)
		}
	}()
}

// ModelInfo describes the loaded bundle
func (s *PredictionService) ModelInfo() (*model.ModelInfoResponse, error) {
	if !s.Ready() {
		return nil, ErrModelsNotLoaded
	}

	b := s.bundle

	features := b.SelectedFeatures
	if len(features) > modelInfoFeatures {
		features = features[:modelInfoFeatures]
	}

	importance := b.FeatureImportance
	if len(importance) > modelInfoImportance {
		importance = importance[:modelInfoImportance]
	}
	top := make([]model.FeatureImportance, len(importance))
	for i, fi := range importance {
		top[i] = model.FeatureImportance{Feature: fi.Feature, Importance: fi.Importance}
	}

	evaluation := b.EvaluationResults
	if evaluation == nil {
		evaluation = map[string]map[string]float64{}
	}

	return &model.ModelInfoResponse{
		Models:            b.ModelNames(),
		HasEnsembleModel:  b.Ensemble != nil,
		ModelWeights:      b.ModelWeights,
		SelectedFeatures:  append([]string(nil), features...),
		TotalFeatures:     len(b.SelectedFeatures),
		EvaluationResults: evaluation,
		FeatureImportance: top,
	}, nil
}

// Zones lists the known locations of every zone
func (s *PredictionService) Zones() *model.ZonesResponse {
	listing := s.zones.Listing()

	zones := make(map[string][]string, len(AllZones))
	names := make([]string, 0, len(AllZones))
	for _, z := range AllZones {
		names = append(names, string(z))
		zones[string(z)] = append([]string{}, listing[z]...)
	}

	return &model.ZonesResponse{
		TotalZones: len(AllZones),
		Zones:      zones,
		ZoneNames:  names,
	}
}
