package bundle

import (
	"context"
	"fmt"
)

type linear struct {
	intercept float64
	coef      []float64
}

func newLinear(intercept float64, coef []float64, width int) (*linear, error) {
	if len(coef) != width {
		return nil, fmt.Errorf("invalid artifact: linear model has %d coefficients for %d features", len(coef), width)
	}

	return &linear{intercept: intercept, coef: coef}, nil
}

func (l *linear) Predict(_ context.Context, vector []float64) (float64, error) {
	if len(vector) != len(l.coef) {
		return 0, fmt.Errorf("linear model expects %d features, got %d", len(l.coef), len(vector))
	}

	sum := l.intercept
	for i, x := range vector {
		sum += l.coef[i] * x
	}

	return sum, nil
}
