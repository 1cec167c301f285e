package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexValue is a scalar request field that clients send either as a JSON
// number or as free text ("120 m2", "3 KT", "2.200 VA"). Any other JSON
// shape (bool, array, object) decodes to an empty value, which the pipeline
// treats like null.
type FlexValue struct {
	Num  *float64
	Text *string
}

// Number returns a FlexValue holding a numeric value.
func Number(v float64) *FlexValue {
	return &FlexValue{Num: &v}
}

// Text returns a FlexValue holding free text.
func Text(s string) *FlexValue {
	return &FlexValue{Text: &s}
}

// IsEmpty reports whether the value carries neither a number nor text.
func (v *FlexValue) IsEmpty() bool {
	return v == nil || (v.Num == nil && v.Text == nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *FlexValue) UnmarshalJSON(data []byte) error {
	*v = FlexValue{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		v.Text = &s
	case c == '-' || (c >= '0' && c <= '9'):
		f, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			// out of float64 range; leave empty so the imputer fills it
			return nil
		}
		v.Num = &f
	}

	return nil
}

// MarshalJSON implements json.Marshaler
func (v FlexValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Num != nil:
		return json.Marshal(*v.Num)
	case v.Text != nil:
		return json.Marshal(*v.Text)
	default:
		return []byte("null"), nil
	}
}
