package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TestValue holds a lab measurement that may be numeric (10.2) or
// qualitative ("positive"). It round-trips JSON as whichever form the
// source carried.
type TestValue struct {
	Number   float64
	Text     string
	IsNumber bool
}

// NumberValue builds a numeric TestValue.
func NumberValue(n float64) TestValue {
	return TestValue{Number: n, IsNumber: true}
}

// TextValue builds a qualitative TestValue.
func TextValue(s string) TestValue {
	return TestValue{Text: s}
}

// IsZero reports whether the value is absent in every form. A numeric zero
// still counts as present.
func (v TestValue) IsZero() bool {
	return !v.IsNumber && v.Text == ""
}

func (v TestValue) String() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// MarshalJSON emits a JSON number for numeric values and a JSON string
// otherwise.
func (v TestValue) MarshalJSON() ([]byte, error) {
	if v.IsNumber {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a JSON number or string. Numeric strings like "10.2"
// are kept as text; the normalizer is told to emit plain numbers for numeric
// values, so a quoted value is deliberate.
func (v *TestValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = TestValue{Number: n, IsNumber: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TestValue{Text: s}
		return nil
	}
	return fmt.Errorf("test value must be a number or a string, got %s", string(data))
}
