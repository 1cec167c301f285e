package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rillyayidan/SmartHome-API/internal/model"
)

var (
	// ErrExtractionDisabled is returned when no AI provider is configured
	ErrExtractionDisabled = errors.New("description extraction is not configured")
	// ErrNoLocation is returned when the description names no location
	ErrNoLocation = errors.New("no location found in description")
)

// DescriptionParser turns listing descriptions into property inputs using AI
type DescriptionParser struct {
	aiClient AIClient
}

// NewDescriptionParser creates a new description parser
func NewDescriptionParser(aiClient AIClient) *DescriptionParser {
	return &DescriptionParser{
		aiClient: aiClient,
	}
}

// Enabled reports whether an AI provider is ready
func (p *DescriptionParser) Enabled() bool {
	return p.aiClient != nil && p.aiClient.IsEnabled()
}

// Provider returns the configured provider name, or "" when disabled
func (p *DescriptionParser) Provider() string {
	if !p.Enabled() {
		return ""
	}
	return p.aiClient.Name()
}

// Parse extracts a property input from the description
func (p *DescriptionParser) Parse(ctx context.Context, description string) (*model.PropertyInput, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is empty")
	}

	if !p.Enabled() {
		return nil, ErrExtractionDisabled
	}

	in, err := p.aiClient.ExtractProperty(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("%s extraction error: %w", p.aiClient.Name(), err)
	}

	in.Location = strings.TrimSpace(in.Location)
	if in.Location == "" {
		return nil, ErrNoLocation
	}

	return in, nil
}
