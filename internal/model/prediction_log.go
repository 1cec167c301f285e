package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
)

// PredictionLogEntry is one persisted prediction
type PredictionLogEntry struct {
	ID             int64           `json:"id" db:"id"`
	PredictionID   string          `json:"prediction_id" db:"prediction_id"`
	Location       string          `json:"location" db:"location"`
	Zone           string          `json:"zone" db:"zone"`
	PredictedPrice float64         `json:"predicted_price" db:"predicted_price"`
	Category       string          `json:"category" db:"category"`
	Uncertainty    float64         `json:"uncertainty" db:"uncertainty"`
	Input          JSONMap         `json:"input" db:"input"`
	Features       pgvector.Vector `json:"-" db:"features"` // scaled model input
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// JSONMap represents a JSON object stored as text
type JSONMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	*j = nil
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSONMap source type %T", value)
	}
}

// ToJSONMap converts any JSON-marshalable value into a JSONMap
func ToJSONMap(v interface{}) (JSONMap, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m JSONMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
