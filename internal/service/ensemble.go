package service

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rillyayidan/SmartHome-API/internal/bundle"
)

// Price category constants
const (
	CategoryEconomical  = "Economical"
	CategoryLowerMiddle = "Lower-Middle"
	CategoryMiddle      = "Middle"
	CategoryUpperMiddle = "Upper-Middle"
	CategoryPremium     = "Premium"
	CategoryLuxury      = "Luxury"
)

// z-score of a two-sided 95% interval
const confidenceZ = 1.96

// EnsembleOutput is the combined result of all models for one vector
type EnsembleOutput struct {
	Price            float64
	Uncertainty      float64
	Lower            *float64
	Upper            *float64
	Category         string
	ModelPredictions map[string]float64
}

// EnsemblePredictor combines the base models of a bundle
type EnsemblePredictor struct {
	models   []bundle.NamedModel
	ensemble bundle.Regressor
	weights  []float64
}

// NewEnsemblePredictor creates a predictor over the bundle's models
func NewEnsemblePredictor(b *bundle.Bundle) *EnsemblePredictor {
	return &EnsemblePredictor{
		models:   b.Models,
		ensemble: b.Ensemble,
		weights:  b.ModelWeights,
	}
}

// Predict runs every model on the scaled vector. The meta-model, when
// present, decides the price; otherwise the (weighted) mean does. The spread
// across base models gives the uncertainty.
func (p *EnsemblePredictor) Predict(ctx context.Context, vector []float64) (*EnsembleOutput, error) {
	if len(p.models) == 0 {
		return nil, fmt.Errorf("no models loaded")
	}

	preds := make([]float64, len(p.models))
	byName := make(map[string]float64, len(p.models))
	for i, m := range p.models {
		v, err := m.Regressor.Predict(ctx, vector)
		if err != nil {
			return nil, fmt.Errorf("model %s failed: %w", m.Name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("model %s returned a non-finite prediction", m.Name)
		}
		preds[i] = v
		byName[m.Name] = v
	}

	price := p.combine(preds)
	if p.ensemble != nil {
		v, err := p.ensemble.Predict(ctx, vector)
		if err != nil {
			return nil, fmt.Errorf("ensemble model failed: %w", err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("ensemble model returned a non-finite prediction")
		}
		price = v
	}

	if price < 0 {
		price = 0
	}

	out := &EnsembleOutput{
		Price:            price,
		Category:         ClassifyPrice(price),
		ModelPredictions: byName,
	}

	if len(preds) > 1 {
		_, out.Uncertainty = stat.PopMeanStdDev(preds, nil)
	}
	if out.Uncertainty > 0 {
		lower := price - confidenceZ*out.Uncertainty
		upper := price + confidenceZ*out.Uncertainty
		out.Lower = &lower
		out.Upper = &upper
	}

	return out, nil
}

func (p *EnsemblePredictor) combine(preds []float64) float64 {
	if len(p.weights) == len(preds) && floats.Sum(p.weights) != 0 {
		return stat.Mean(preds, p.weights)
	}
	return stat.Mean(preds, nil)
}

// ClassifyPrice returns the category label for a price
func ClassifyPrice(price float64) string {
	switch {
	case price < 500e6:
		return CategoryEconomical
	case price < 1000e6:
		return CategoryLowerMiddle
	case price < 2000e6:
		return CategoryMiddle
	case price < 3500e6:
		return CategoryUpperMiddle
	case price < 6000e6:
		return CategoryPremium
	default:
		return CategoryLuxury
	}
}
