package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToInt converts a decoded JSON value to int. Numbers, numeric strings
// and json.Number are accepted; anything else, including fractions that
// do not parse, yields 0. Fractions are truncated.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return int(f)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return ToInt(f)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}
