package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/rillyayidan/SmartHome-API/internal/model"
)

// FieldKind selects how free text is coerced into a number
type FieldKind int

const (
	// IntegerLike fields (rooms, carports, floors) take the first digit run.
	IntegerLike FieldKind = iota
	// MeasurementLike fields (areas, electrical capacity) keep digits and
	// separators, with comma read as the decimal separator.
	MeasurementLike
)

var (
	digitRunRegex  = regexp.MustCompile(`[0-9]+`)
	areaUnitRegex  = regexp.MustCompile(`(?i)m\s*\^?\s*2`)
	nonNumberRegex = regexp.MustCompile(`[^0-9.,]`)
)

// NormalizeField coerces a raw request value to a number. Anything that
// cannot be read as a number yields nil and is left to the imputer.
func NormalizeField(v *model.FlexValue, kind FieldKind) *float64 {
	if v.IsEmpty() {
		return nil
	}

	if v.Num != nil {
		f := *v.Num
		return &f
	}

	text := strings.TrimSpace(*v.Text)
	if text == "" {
		return nil
	}

	switch kind {
	case IntegerLike:
		run := digitRunRegex.FindString(text)
		if run == "" {
			return nil
		}
		return parseNumber(run)

	default:
		// "120 m2" would otherwise read as 1202
		cleaned := areaUnitRegex.ReplaceAllString(text, "")
		cleaned = nonNumberRegex.ReplaceAllString(cleaned, "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		return parseNumber(cleaned)
	}
}

// parseNumber keeps out-of-range values as ±Inf so the imputer's clamps
// still apply to them
func parseNumber(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	return &f
}
