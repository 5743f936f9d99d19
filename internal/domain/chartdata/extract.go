package chartdata

import "github.com/riskibarqy/scouting-report/internal/platform/coerce"

// Segments is the chart data attached to a report.
type Segments struct {
	RadarChartMetrics map[string]any `json:"radarChartMetrics"`
	PositionalTraits  map[string]any `json:"positionalTraits"`
	TFGRatingTrend    map[string]any `json:"tfgRatingTrend"`
	AdvancedStats     map[string]any `json:"advancedStats"`
}

// Empty reports whether every segment is empty.
func (s *Segments) Empty() bool {
	if s == nil {
		return true
	}
	return len(s.RadarChartMetrics) == 0 &&
		len(s.PositionalTraits) == 0 &&
		len(s.TFGRatingTrend) == 0 &&
		len(s.AdvancedStats) == 0
}

// Extraction is the outcome of reading chart data from a record's fields.
// UsedField is nil when the performance field was absent altogether; when it
// was present but empty, UsedField is set and ChartData is nil.
type Extraction struct {
	ChartData       *Segments      `json:"chartData"`
	PerformanceData map[string]any `json:"performanceData"`
	UsedField       *string        `json:"usedField"`
}

// Extract locates the embedded performance document in fields and splits it
// into the four chart segments.
func Extract(fields map[string]any, fallback coerce.Fallback) Extraction {
	if len(fields) == 0 {
		return Extraction{PerformanceData: map[string]any{}}
	}

	fieldName, rawValue := LocatePerformanceField(fields)
	if _, present := fields[fieldName]; !present {
		return Extraction{PerformanceData: map[string]any{}}
	}
	if coerce.FallbackFalsy.Absent(rawValue) {
		return Extraction{PerformanceData: map[string]any{}, UsedField: &fieldName}
	}

	performance := ParseObject(rawValue)
	segments := SegmentsFrom(performance, fallback)

	return Extraction{
		ChartData:       &segments,
		PerformanceData: performance,
		UsedField:       &fieldName,
	}
}

// SegmentsFrom resolves each segment of an already decoded performance
// document.
func SegmentsFrom(performance map[string]any, fallback coerce.Fallback) Segments {
	traits := FindSegment(performance, PositionalTraitAliases)

	return Segments{
		RadarChartMetrics: FindSegment(performance, RadarAliases),
		PositionalTraits:  NormalizeTraits(traits, fallback),
		TFGRatingTrend:    FindSegment(performance, RatingTrendAliases),
		AdvancedStats:     FindSegment(performance, AdvancedStatsAliases),
	}
}
