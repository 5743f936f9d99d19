package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ToNumber converts loosely-typed provider values into a finite float64.
// Anything that cannot be read as a finite number yields 0.
func ToNumber(v any) float64 {
	var out float64
	switch value := v.(type) {
	case float64:
		out = value
	case float32:
		out = float64(value)
	case int:
		out = float64(value)
	case int8:
		out = float64(value)
	case int16:
		out = float64(value)
	case int32:
		out = float64(value)
	case int64:
		out = float64(value)
	case uint:
		out = float64(value)
	case uint8:
		out = float64(value)
	case uint16:
		out = float64(value)
	case uint32:
		out = float64(value)
	case uint64:
		out = float64(value)
	case interface{ Float64() (float64, error) }:
		parsed, err := value.Float64()
		if err != nil {
			return 0
		}
		out = parsed
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		out = parsed
	default:
		return 0
	}

	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

var leadingFloatPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// LeadingFloat reads the numeric prefix of a string ("7.4 (avg)" gives 7.4).
// Numbers pass through; anything unreadable reports ok=false.
func LeadingFloat(v any) (float64, bool) {
	if s, isString := v.(string); isString {
		match := leadingFloatPattern.FindString(strings.TrimSpace(s))
		if match == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(match, 64)
		if err != nil || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	}
	if !IsNumber(v) {
		return 0, false
	}
	n := ToNumber(v)
	return n, true
}

// IsNumber reports whether v holds a Go numeric kind.
func IsNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case interface{ Float64() (float64, error) }:
		return true
	default:
		return false
	}
}

// ToString renders strings, numbers and booleans as text; anything else
// returns fallback.
func ToString(v any, fallback string) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return formatFloat(value)
	case float32:
		return formatFloat(float64(value))
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return formatFloat(ToNumber(value))
	case interface{ String() string }:
		if IsNumber(value) {
			return value.String()
		}
		return fallback
	default:
		return fallback
	}
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// maxEpochMillis bounds epoch inputs to ±100,000,000 days around 1970.
const maxEpochMillis = 8.64e15

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"2006",
}

// ParseDate reads a calendar instant from a time.Time, epoch milliseconds, or
// one of the common provider date layouts. A zero time.Time, a non-finite or
// out-of-range epoch and unparseable text report ok=false; epoch 0 is
// 1970-01-01. Layouts without a zone are read as UTC.
func ParseDate(v any) (time.Time, bool) {
	switch value := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if value.IsZero() {
			return time.Time{}, false
		}
		return value, true
	case *time.Time:
		if value == nil || value.IsZero() {
			return time.Time{}, false
		}
		return *value, true
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	}

	if !IsNumber(v) {
		return time.Time{}, false
	}
	ms := rawFloat(v)
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// Round rounds half up to an integer (2.5 -> 3, -0.5 -> 0).
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundTo rounds half up to the given number of decimals (7.25 -> 7.3).
func RoundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return Round(v*scale) / scale
}
