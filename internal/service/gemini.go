package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rillyayidan/SmartHome-API/internal/config"
	"github.com/rillyayidan/SmartHome-API/internal/model"
	"github.com/rillyayidan/SmartHome-API/internal/utils"
)

const geminiAttempts = 3

// GeminiClient extracts property attributes with Google Gemini
type GeminiClient struct {
	config *config.GeminiConfig
}

// NewGeminiClient creates a Gemini-backed extraction client
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	return &GeminiClient{config: cfg}
}

// IsEnabled returns whether an API key is configured
func (c *GeminiClient) IsEnabled() bool {
	return c.config.Enabled && strings.TrimSpace(c.config.APIKey) != ""
}

// Name returns the provider name
func (c *GeminiClient) Name() string {
	return "gemini"
}

// ExtractProperty asks Gemini for the listing's attributes as JSON
func (c *GeminiClient) ExtractProperty(ctx context.Context, description string) (*model.PropertyInput, error) {
	if !c.IsEnabled() {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(c.config.APIKey)))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(c.config.Model))
	if m == nil {
		return nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extractionPrompt)},
	}

	// retry transient failures
	var lastErr error
	for attempt := 1; attempt <= geminiAttempts; attempt++ {
		resp, err := m.GenerateContent(ctx, genai.Text(description))
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
			continue
		}

		txt := firstText(resp)
		if txt == "" {
			return nil, fmt.Errorf("gemini: empty response")
		}

		var result model.PropertyInput
		if err := utils.ParseAIJSON(txt, &result); err != nil {
			log.Printf("Failed to parse Gemini response, content: %s", txt)
			return nil, fmt.Errorf("gemini: bad JSON: %w", err)
		}
		return &result, nil
	}

	return nil, fmt.Errorf("gemini: %w", lastErr)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(f float32) *float32 {
	return &f
}
