package chartdata

import (
	"sort"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
)

// DefaultPerformanceField is the field name tabular sources use for the
// embedded chart JSON document.
const DefaultPerformanceField = "Performance Data JSON"

var (
	RadarAliases           = []string{"RadarChartMetrics", "Radar Chart Metrics", "RadarChart", "radarChartMetrics"}
	PositionalTraitAliases = []string{"PositionalTraits", "Positional Traits", "positionalTraits"}
	RatingTrendAliases     = []string{"TFGRatingTrend", "TFG Rating Trend", "tfgRatingTrend"}
	AdvancedStatsAliases   = []string{"AdvancedStats", "advancedStats"}
)

// NormalizeKey lowercases s and drops everything outside [a-z0-9], so
// "Radar Chart Metrics", "radar_chart_metrics" and "RadarChartMetrics"
// compare equal.
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseObject accepts a field bag or a JSON-encoded one. Malformed JSON is
// logged and treated as empty; every other input yields an empty map.
func ParseObject(v any) map[string]any {
	switch value := v.(type) {
	case map[string]any:
		if value == nil {
			return map[string]any{}
		}
		return value
	case string:
		if strings.TrimSpace(value) == "" {
			return map[string]any{}
		}
		var parsed any
		if err := sonic.UnmarshalString(value, &parsed); err != nil {
			logging.Default().Warn("parse chart segment json failed", "error", err, "length", len(value))
			return map[string]any{}
		}
		if m, ok := parsed.(map[string]any); ok {
			return m
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}

// FindSegment returns the first non-empty segment stored under a key matching
// one of aliases (case, spacing and punctuation ignored). When none matches,
// each fallback is tried in order; an empty map is returned when all are
// empty.
func FindSegment(data map[string]any, aliases []string, fallbacks ...any) map[string]any {
	if len(data) > 0 {
		wanted := make(map[string]struct{}, len(aliases))
		for _, alias := range aliases {
			wanted[NormalizeKey(alias)] = struct{}{}
		}

		for _, key := range sortedKeys(data) {
			if _, ok := wanted[NormalizeKey(key)]; !ok {
				continue
			}
			if segment := ParseObject(data[key]); len(segment) > 0 {
				return segment
			}
		}
	}

	for _, fallback := range fallbacks {
		if segment := ParseObject(fallback); len(segment) > 0 {
			return segment
		}
	}

	return map[string]any{}
}

// LocatePerformanceField finds the first field (in key order) whose
// normalized name contains "performancedata". When none matches, the
// default field name is reported with whatever value it holds. A matched
// field holding an empty value reports its own name with the default
// field's value.
func LocatePerformanceField(fields map[string]any) (string, any) {
	for _, key := range sortedKeys(fields) {
		if !strings.Contains(NormalizeKey(key), "performancedata") {
			continue
		}
		if value := fields[key]; !coerce.FallbackFalsy.Absent(value) {
			return key, value
		}
		return key, fields[DefaultPerformanceField]
	}
	return DefaultPerformanceField, fields[DefaultPerformanceField]
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
