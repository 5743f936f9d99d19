package chartdata

import "github.com/riskibarqy/scouting-report/internal/platform/coerce"

// TraitsShape classifies a positional-traits payload.
type TraitsShape int

const (
	TraitsEmpty TraitsShape = iota
	// TraitsCanonical payloads already carry "Overall" or "Category".
	TraitsCanonical
	// TraitsLegacy payloads use camelCase or spaced human-readable keys.
	TraitsLegacy
)

func (s TraitsShape) String() string {
	switch s {
	case TraitsCanonical:
		return "canonical"
	case TraitsLegacy:
		return "legacy"
	default:
		return "empty"
	}
}

// Canonical positional-trait keys.
const (
	TraitCategory          = "Category"
	TraitOverall           = "Overall"
	TraitDefensiveWorkRate = "DefensiveWorkRate"
	TraitPassingDribbling  = "PassingDribbling"
	TraitSpeedRunsInBehind = "SpeedRunsInBehind"
)

// ClassifyTraits reports which shape raw is in. A canonical key that is
// present with a null value still counts as canonical.
func ClassifyTraits(raw map[string]any) TraitsShape {
	if len(raw) == 0 {
		return TraitsEmpty
	}
	if _, ok := raw[TraitOverall]; ok {
		return TraitsCanonical
	}
	if _, ok := raw[TraitCategory]; ok {
		return TraitsCanonical
	}
	return TraitsLegacy
}

// NormalizeTraits maps a positional-traits payload onto the canonical keys.
// Canonical input is returned unchanged, so the function is idempotent.
// Legacy values are carried over as-is; missing ones default to "" for the
// category and 0 for the ratings.
func NormalizeTraits(raw map[string]any, fallback coerce.Fallback) map[string]any {
	switch ClassifyTraits(raw) {
	case TraitsEmpty:
		return map[string]any{}
	case TraitsCanonical:
		return raw
	}

	return map[string]any{
		TraitCategory:          orDefault(fallback.First(raw["category"]), ""),
		TraitOverall:           orDefault(fallback.First(raw["overall"]), 0),
		TraitDefensiveWorkRate: orDefault(fallback.First(raw["defensiveWorkRate"], raw["Defensive work rate"]), 0),
		TraitPassingDribbling:  orDefault(fallback.First(raw["passingAndDribbling"], raw["Passing + Dribbling"]), 0),
		TraitSpeedRunsInBehind: orDefault(fallback.First(raw["speedAndRunsInBehind"], raw["Speed and runs in behind"]), 0),
	}
}

func orDefault(v any, def any) any {
	if v == nil {
		return def
	}
	return v
}
