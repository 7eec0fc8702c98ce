package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is an optional numeric metric value. An invalid Value is null and is
// never treated as zero.
type Value struct {
	Float float64
	Valid bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Of wraps a defined float. NaN and infinities become null.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}

	return Value{Float: f, Valid: true}
}

// ParseValue coerces sheet text to a Value. Thousands separators and
// surrounding whitespace are stripped; empty or non-numeric text is null.
func ParseValue(s string) Value {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return Value{}
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Value{}
	}

	return Of(f)
}

// Or returns the float or fallback when null.
func (v Value) Or(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}

	return v.Float
}

// MarshalJSON encodes null or the number.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(v.Float)
}

// UnmarshalJSON decodes null or a number.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}

		return nil
	}

	var f float64

	err := json.Unmarshal(data, &f)
	if err != nil {
		return err
	}

	*v = Of(f)

	return nil
}
