package service

import (
	"context"

	"github.com/rillyayidan/SmartHome-API/internal/config"
	"github.com/rillyayidan/SmartHome-API/internal/model"
)

// AIClient is the interface for AI service providers
type AIClient interface {
	// ExtractProperty turns a free-text listing description into a
	// structured property input
	ExtractProperty(ctx context.Context, description string) (*model.PropertyInput, error)

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool

	// Name identifies the provider in responses and logs
	Name() string
}

// extractionPrompt is shared by every provider so they return the same shape
const extractionPrompt = `You are a real estate assistant for houses in Semarang, Indonesia. Extract the property attributes from the user's listing description.

Return a JSON object with these fields when present:
- location: neighborhood or district name (string, required; e.g. "Tembalang", "Banyumanik", "BSB City")
- bedrooms: number of bedrooms (integer)
- bathrooms: number of bathrooms (integer)
- land_area: land area in square meters (number)
- building_area: building area in square meters (number)
- carports: number of carport spaces (integer)
- electrical_capacity: electrical capacity in VA (number, e.g. 1300, 2200)
- floors: number of floors (integer)
- property_condition: short condition phrase (string, e.g. "Good", "Needs Renovation")
- furnishing_condition: one of "Unfurnished", "Semi Furnished", "Furnished" (string)

Important rules:
- Respond ONLY with valid JSON
- If a field is not mentioned, omit it
- Indonesian terms: "KT" = bedrooms, "KM" = bathrooms, "LT" = land_area, "LB" = building_area, "lantai" = floors, "daya" or "listrik" = electrical_capacity
- Do not guess a price

Examples:
Description: "Rumah 2 lantai di Tembalang, LT 150 LB 120, 3KT 2KM, listrik 2200, siap huni"
Response: {"location": "Tembalang", "floors": 2, "land_area": 150, "building_area": 120, "bedrooms": 3, "bathrooms": 2, "electrical_capacity": 2200, "property_condition": "Siap Huni"}

Description: "Semi furnished house near Simpang Lima, 4 bedrooms, carport for 2 cars"
Response: {"location": "Simpang Lima", "bedrooms": 4, "carports": 2, "furnishing_condition": "Semi Furnished"}`

// NewAIClient selects the extraction provider. An explicit provider wins;
// otherwise OpenAI is preferred when configured, then Gemini. The returned
// client may be disabled.
func NewAIClient(cfg *config.Config) AIClient {
	switch cfg.AI.Provider {
	case "openai":
		return NewOpenAIClient(&cfg.OpenAI)
	case "gemini":
		return NewGeminiClient(&cfg.Gemini)
	}

	if cfg.OpenAI.Enabled {
		return NewOpenAIClient(&cfg.OpenAI)
	}
	if cfg.Gemini.Enabled {
		return NewGeminiClient(&cfg.Gemini)
	}

	return NewOpenAIClient(&cfg.OpenAI)
}

// Ensure both providers implement AIClient
var (
	_ AIClient = (*OpenAIClient)(nil)
	_ AIClient = (*GeminiClient)(nil)
)
