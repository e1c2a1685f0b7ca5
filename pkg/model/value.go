// pkg/model/value.go
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ReplacedDisplay is the display label for a null that was replaced by the
// replace_nulls operation. It only exists at the rendering and wire
// boundaries; in memory a replaced null keeps its own value kind and never
// compares equal to a genuine string cell containing "N/A".
const ReplacedDisplay = "N/A"

// ValueKind identifies the kind of value held in a cell
type ValueKind int

const (
	// KindMissing is a null/absent cell
	KindMissing ValueKind = iota
	// KindNumber is a numeric cell
	KindNumber
	// KindString is a text cell
	KindString
	// KindBool is a boolean cell
	KindBool
	// KindReplaced is a null that replace_nulls turned into the N/A sentinel
	KindReplaced
)

// Value is a single tagged cell value. The zero value is a missing cell.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bit  bool
}

// Missing returns a missing (null) cell value
func Missing() Value {
	return Value{Kind: KindMissing}
}

// Number returns a numeric cell value
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// String returns a text cell value
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Boolean returns a boolean cell value
func Boolean(b bool) Value {
	return Value{Kind: KindBool, Bit: b}
}

// Replaced returns the sentinel produced by the replace_nulls operation
func Replaced() Value {
	return Value{Kind: KindReplaced}
}

// IsNullish reports whether the value counts as missing numeric data.
// Both true nulls and replaced-null sentinels qualify.
func (v Value) IsNullish() bool {
	return v.Kind == KindMissing || v.Kind == KindReplaced
}

// IsNumber reports whether the value holds a usable numeric
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// Float returns the numeric value and whether one is present
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Display returns the value rendered for human-facing output
func (v Value) Display() string {
	switch v.Kind {
	case KindMissing:
		return "NULL"
	case KindReplaced:
		return ReplacedDisplay
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bit)
	default:
		return v.Str
	}
}

// Key returns the deterministic string form used to bucket values for
// frequency counting and categorical encoding. Missing values have no key.
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bit)
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// Equal reports deep equality of two cell values
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Bit == o.Bit
	default:
		return true
	}
}

// MarshalJSON encodes the value for the wire: missing cells become null and
// replaced sentinels become the "N/A" label.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindMissing:
		return []byte("null"), nil
	case KindReplaced:
		return json.Marshal(ReplacedDisplay)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bit)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON decodes a cell from a backend payload. JSON null maps to a
// missing value; anything non-scalar degrades to its string rendering.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode cell value: %w", err)
	}
	*v = FromAny(raw)
	return nil
}

// FromAny converts a decoded JSON value into a tagged cell value
func FromAny(raw interface{}) Value {
	switch val := raw.(type) {
	case nil:
		return Missing()
	case float64:
		return Number(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return String(val.String())
		}
		return Number(f)
	case bool:
		return Boolean(val)
	case string:
		return String(val)
	default:
		return String(fmt.Sprintf("%v", val))
	}
}
