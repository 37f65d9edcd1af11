package sanitize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NumberState distinguishes a missing numeric field from one that was
// supplied but could not be read as a number.
type NumberState int

const (
	NumberAbsent NumberState = iota
	NumberInvalid
	NumberPresent
)

// Number reads a JSON-decoded value as a float64.
// nil, "" and whitespace-only strings are absent. Strings are parsed after
// trimming. Booleans, objects, arrays, NaN and infinities are invalid.
func Number(v any) (float64, NumberState) {
	switch n := v.(type) {
	case nil:
		return 0, NumberAbsent
	case float64:
		return finite(n)
	case int:
		return float64(n), NumberPresent
	case int64:
		return float64(n), NumberPresent
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, NumberInvalid
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, NumberAbsent
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, NumberInvalid
		}
		return finite(f)
	default:
		return 0, NumberInvalid
	}
}

func finite(f float64) (float64, NumberState) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, NumberInvalid
	}
	return f, NumberPresent
}
