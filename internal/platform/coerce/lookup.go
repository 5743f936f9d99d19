package coerce

import "math"

// Path walks nested maps and returns nil when any segment is missing or is
// not a map.
func Path(v any, keys ...string) any {
	current := v
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

// Map returns v as a field bag, or nil when it is not one.
func Map(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Maps keeps only the map elements of a decoded JSON array.
func Maps(v any) []map[string]any {
	switch items := v.(type) {
	case []map[string]any:
		return items
	case []any:
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// Fallback decides when a candidate in an ordered chain counts as absent.
type Fallback uint8

const (
	// FallbackFalsy skips nil, "", 0, NaN and false. Provider payloads have
	// historically relied on this so a zero from one field falls through to
	// the next alias.
	FallbackFalsy Fallback = iota
	// FallbackMissing only skips nil, so a present zero or empty string wins.
	FallbackMissing
)

// ParseFallback maps the strict flag onto a Fallback mode.
func ParseFallback(strict bool) Fallback {
	if strict {
		return FallbackMissing
	}
	return FallbackFalsy
}

// Absent reports whether v should be skipped under this mode.
func (f Fallback) Absent(v any) bool {
	if v == nil {
		return true
	}
	if f == FallbackMissing {
		return false
	}

	switch value := v.(type) {
	case string:
		return value == ""
	case bool:
		return !value
	}
	if IsNumber(v) {
		n := rawFloat(v)
		return n == 0 || math.IsNaN(n)
	}
	return false
}

// First returns the first candidate that is not absent, or nil.
func (f Fallback) First(candidates ...any) any {
	for _, candidate := range candidates {
		if !f.Absent(candidate) {
			return candidate
		}
	}
	return nil
}

// FirstPresent returns the first non-nil candidate.
func FirstPresent(candidates ...any) any {
	return FallbackMissing.First(candidates...)
}

// FirstString returns the first candidate that renders as a non-empty string.
func FirstString(fallback string, candidates ...any) string {
	for _, candidate := range candidates {
		if s := ToString(candidate, ""); s != "" {
			return s
		}
	}
	return fallback
}

func rawFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case interface{ Float64() (float64, error) }:
		parsed, err := value.Float64()
		if err != nil {
			return math.NaN()
		}
		return parsed
	}
	return ToNumber(v)
}
