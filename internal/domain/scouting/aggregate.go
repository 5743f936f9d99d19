package scouting

import (
	"strconv"

	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
)

// appearances reads the games count under either spelling providers use.
func appearances(row player.Record) float64 {
	games := coerce.Path(row, "games")
	return coerce.ToNumber(coerce.FirstPresent(
		coerce.Path(games, "appearences"),
		coerce.Path(games, "appearances"),
	))
}

// AggregatePositions groups rows by position label, keeping first-seen order.
func AggregatePositions(rows []player.Record) []PositionSummary {
	out := make([]PositionSummary, 0)
	index := make(map[string]int)

	for _, row := range rows {
		games := coerce.Path(row, "games")
		label := coerce.FirstString(unknownLabel,
			coerce.Path(games, "position"),
			coerce.Path(games, "Position"),
		)

		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, PositionSummary{Position: label})
		}

		out[i].Appearances += appearances(row)
		out[i].Goals += coerce.ToNumber(coerce.Path(row, "goals", "total"))
		out[i].Assists += coerce.ToNumber(coerce.Path(row, "goals", "assists"))
	}

	return out
}

// LeagueAppearances projects each row into a season/competition line. Rows
// are not merged, so two rows for the same season stay separate.
func LeagueAppearances(rows []player.Record) []LeagueAppearance {
	out := make([]LeagueAppearance, 0, len(rows))
	for _, row := range rows {
		league := coerce.Path(row, "league")
		cards := coerce.Path(row, "cards")

		out = append(out, LeagueAppearance{
			Season: seasonLabel(league),
			Competition: coerce.ToString(coerce.Path(league, "name"), "") +
				" - " + coerce.ToString(coerce.Path(league, "country"), ""),
			Games:        appearances(row),
			Goals:        coerce.ToNumber(coerce.Path(row, "goals", "total")),
			Assists:      coerce.ToNumber(coerce.Path(row, "goals", "assists")),
			YellowCards:  coerce.ToNumber(coerce.Path(cards, "yellow")),
			SecondYellow: coerce.ToNumber(coerce.Path(cards, "yellowred")),
			RedCards:     coerce.ToNumber(coerce.Path(cards, "red")),
			Minutes:      coerce.ToNumber(coerce.Path(row, "games", "minutes")),
		})
	}
	return out
}

// seasonLabel renders a start year as "2024/25". Without a usable year it
// falls back to a seasonLabel string, then a non-numeric season string.
func seasonLabel(league any) string {
	rawSeason := coerce.FirstPresent(coerce.Path(league, "season"), coerce.Path(league, "Season"))
	if year := int(coerce.ToNumber(rawSeason)); year >= 1 {
		return FormatSeason(year)
	}
	if text, ok := rawSeason.(string); ok {
		return coerce.FirstString(unknownLabel, coerce.Path(league, "seasonLabel"), text)
	}
	return coerce.FirstString(unknownLabel, coerce.Path(league, "seasonLabel"))
}

// FormatSeason renders a season start year as "{year}/{yy+1}".
func FormatSeason(year int) string {
	next := strconv.Itoa(year + 1)
	if len(next) > 2 {
		next = next[len(next)-2:]
	}
	return strconv.Itoa(year) + "/" + next
}

// Totals sums every row and averages the positive ratings.
func Totals(rows []player.Record) CareerTotals {
	var totals CareerTotals
	var ratingSum float64
	var rated int

	for _, row := range rows {
		totals.TotalGames += appearances(row)
		totals.TotalGoals += coerce.ToNumber(coerce.Path(row, "goals", "total"))
		totals.TotalAssists += coerce.ToNumber(coerce.Path(row, "goals", "assists"))
		totals.TotalYellowCards += coerce.ToNumber(coerce.Path(row, "cards", "yellow"))
		totals.TotalRedCards += coerce.ToNumber(coerce.Path(row, "cards", "red"))
		totals.TotalMinutes += coerce.ToNumber(coerce.Path(row, "games", "minutes"))

		// A zero rating means "not rated", not a poor score.
		if rating, ok := coerce.LeadingFloat(coerce.Path(row, "games", "rating")); ok && rating > 0 {
			ratingSum += rating
			rated++
		}
	}

	if rated > 0 {
		totals.AverageRating = coerce.RoundTo(ratingSum/float64(rated), 1)
	}
	return totals
}
