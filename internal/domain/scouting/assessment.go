package scouting

import (
	"math"

	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
)

const (
	CategoryDribbling  = "Dribbling"
	CategoryCreativity = "Creativity"
	CategoryDefensive  = "Defensive Contribution"
	CategoryPassing    = "Passing Volume"

	dribbleSuccessThreshold = 0.5
	keyPassesPerGameStrong  = 1.5
	keyPassesPerGameCeiling = 3.0
	defensiveActionsPerGame = 2.0
	passesPerGameThreshold  = 30.0
	strengthPercentileCap   = 95
	weaknessPercentileFloor = 5
)

// Assess derives scouting tags from the raw rows. Dribbling always lands in
// exactly one list; creativity can only be a strength; defensive
// contribution and passing volume can only be weaknesses.
func Assess(rows []player.Record, totalGames float64) (strengths, weaknesses []Assessment) {
	strengths = make([]Assessment, 0, 2)
	weaknesses = make([]Assessment, 0, 3)
	games := math.Max(totalGames, 1)

	// Rows without attempts still count toward the mean.
	var successRates float64
	var keyPasses, defensiveActions, passes float64
	for _, row := range rows {
		attempts := coerce.ToNumber(coerce.Path(row, "dribbles", "attempts"))
		if attempts > 0 {
			successRates += coerce.ToNumber(coerce.Path(row, "dribbles", "success")) / attempts
		}
		keyPasses += coerce.ToNumber(coerce.Path(row, "passes", "key"))
		defensiveActions += coerce.ToNumber(coerce.Path(row, "tackles", "total")) +
			coerce.ToNumber(coerce.Path(row, "tackles", "interceptions"))
		passes += coerce.ToNumber(coerce.Path(row, "passes", "total"))
	}

	dribbleRate := successRates / math.Max(float64(len(rows)), 1)
	if dribbleRate > dribbleSuccessThreshold {
		strengths = append(strengths, Assessment{Category: CategoryDribbling, Percentile: capPercentile(dribbleRate)})
	} else {
		weaknesses = append(weaknesses, Assessment{Category: CategoryDribbling, Percentile: floorPercentile(dribbleRate)})
	}

	if perGame := keyPasses / games; perGame > keyPassesPerGameStrong {
		strengths = append(strengths, Assessment{Category: CategoryCreativity, Percentile: capPercentile(perGame / keyPassesPerGameCeiling)})
	}

	if perGame := defensiveActions / games; perGame < defensiveActionsPerGame {
		weaknesses = append(weaknesses, Assessment{Category: CategoryDefensive, Percentile: floorPercentile(perGame / defensiveActionsPerGame)})
	}

	if perGame := passes / games; perGame < passesPerGameThreshold {
		weaknesses = append(weaknesses, Assessment{Category: CategoryPassing, Percentile: floorPercentile(perGame / passesPerGameThreshold)})
	}

	return strengths, weaknesses
}

func capPercentile(ratio float64) int {
	return int(math.Min(strengthPercentileCap, coerce.Round(ratio*100)))
}

func floorPercentile(ratio float64) int {
	return int(math.Max(weaknessPercentileFloor, coerce.Round(ratio*100)))
}
