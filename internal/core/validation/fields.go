package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fields is a decoded request body keyed by field name.
type Fields map[string]any

// Present reports whether name holds a non-null value that is not blank.
func (f Fields) Present(name string) bool {
	v, ok := f[name]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Text returns the trimmed string form of name. Numbers and booleans are
// formatted; anything else yields "".
func (f Fields) Text(name string) string {
	switch v := f[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// TextOr returns Text(name), or fallback when the field is not present.
func (f Fields) TextOr(name, fallback string) string {
	if !f.Present(name) {
		return fallback
	}
	return f.Text(name)
}

// Number returns name as a float: nil when the field is not present, NaN when
// it holds something that is not a number or numeric string.
func (f Fields) Number(name string) *float64 {
	if !f.Present(name) {
		return nil
	}

	n := math.NaN()
	switch v := f[name].(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		if x, err := v.Float64(); err == nil {
			n = x
		}
	case string:
		if x, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			n = x
		}
	}
	return &n
}
