package scouting

import (
	"math"
	"time"

	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
)

const (
	dayDuration       = 24 * time.Hour
	defaultInjuryDays = 7
	injuryDateLayout  = "02/01/2006"
)

// NormalizeTransfers maps each raw transfer onto date/type/from/to.
// Nested team names win over the flat from/to fields.
func NormalizeTransfers(rows []player.Record) []Transfer {
	out := make([]Transfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, Transfer{
			Date: coerce.FirstString(unknownLabel, coerce.FirstPresent(row["date"], row["Date"])),
			Type: coerce.FirstString(transferLabel, coerce.FirstPresent(row["type"], row["Type"])),
			From: coerce.FirstString(unknownLabel,
				coerce.Path(row, "teams", "out", "name"),
				coerce.FirstPresent(row["from"], row["From"]),
			),
			To: coerce.FirstString(unknownLabel,
				coerce.Path(row, "teams", "in", "name"),
				coerce.FirstPresent(row["to"], row["To"]),
			),
		})
	}
	return out
}

// NormalizeInjuries resolves each raw injury into a dated absence.
// A missing end date defaults to seven days after the start; one that is
// supplied but unreadable collapses onto the start. An explicit end date
// before the start is kept as supplied.
func NormalizeInjuries(rows []player.Record, opts Options) []Injury {
	loc := opts.location()
	out := make([]Injury, 0, len(rows))

	for _, row := range rows {
		from, ok := coerce.ParseDate(coerce.FirstPresent(
			coerce.Path(row, "fixture", "date"),
			row["from"],
			row["From"],
			row["startDate"],
		))
		if !ok {
			from = opts.now()
		}
		from = from.In(loc)

		rawUntil := coerce.FirstPresent(row["until"], row["Until"], row["endDate"])
		until, ok := coerce.ParseDate(rawUntil)
		if ok {
			until = until.In(loc)
		} else {
			until = from
		}
		if coerce.FallbackFalsy.Absent(rawUntil) {
			until = until.AddDate(0, 0, defaultInjuryDays)
		}

		days, ok := explicitNumber(opts.Fallback, coerce.FirstPresent(row["days"], row["Days"]))
		if !ok {
			days = math.Ceil(math.Max(until.Sub(from).Hours(), 0) / dayDuration.Hours())
		}

		gamesMissed, ok := explicitNumber(opts.Fallback,
			coerce.FirstPresent(row["gamesMissed"], row["GamesMissed"], row["Games Missed"]))
		if !ok {
			gamesMissed = math.Ceil(days / defaultInjuryDays)
		}

		out = append(out, Injury{
			Season:      coerce.FirstString(FormatSeason(from.Year()), row["season"], row["Season"]),
			Injury:      coerce.FirstString(unknownLabel, row["reason"], row["injury"], row["Injury"]),
			From:        from.Format(injuryDateLayout),
			Until:       until.Format(injuryDateLayout),
			Days:        days,
			GamesMissed: gamesMissed,
		})
	}

	return out
}

// explicitNumber reads a supplied count. ok=false means the caller should
// derive the value instead: always when the field is missing, and also for
// a zero or unparseable value under FallbackFalsy.
func explicitNumber(fallback coerce.Fallback, raw any) (float64, bool) {
	if fallback.Absent(raw) {
		return 0, false
	}
	n := coerce.ToNumber(raw)
	if fallback == coerce.FallbackFalsy && n == 0 {
		return 0, false
	}
	return n, true
}
