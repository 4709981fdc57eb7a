package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceWeight turns a loosely typed weight from a form into kilograms.
// Numbers and numeric strings are accepted; anything else, as well as
// NaN, infinities and negative values, becomes 0.
func CoerceWeight(v interface{}) float64 {
	var w float64
	switch x := v.(type) {
	case float64:
		w = x
	case float32:
		w = float64(x)
	case int:
		w = float64(x)
	case int64:
		w = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		w = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		w = f
	default:
		return 0
	}
	return SanitizeWeight(w)
}

// MaxWeightKg is the heaviest load a single order may carry
const MaxWeightKg = 1000

// SanitizeWeight clamps non-finite and negative weights to 0
func SanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// ClampWeight sanitizes w and caps it at MaxWeightKg
func ClampWeight(w float64) float64 {
	w = SanitizeWeight(w)
	if w > MaxWeightKg {
		return MaxWeightKg
	}
	return w
}
