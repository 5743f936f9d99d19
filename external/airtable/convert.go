package airtable

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
)

const (
	fieldPlayerName   = "Player Name"
	fieldFirstName    = "First Name"
	fieldLastName     = "Last Name"
	fieldDateOfBirth  = "Date of Birth"
	fieldAge          = "Age"
	fieldHeight       = "Height"
	fieldWeight       = "Weight"
	fieldNationality  = "Nationality"
	fieldFoot         = "Preferred Foot"
	fieldPhoto        = "Photo URL"
	fieldClub         = "Current Club"
	fieldPositions    = "Positions Played"
	fieldAppearances  = "League Appearances JSON"
	fieldInjuries     = "Injury Record JSON"
	fieldTransfers    = "Transfer History JSON"
	fieldPerformance  = "Performance Data JSON"
	fieldTotalGames   = "Total Games"
	fieldTotalGoals   = "Total Goals"
	fieldTotalAssists = "Total Assists"
	fieldTotalYellow  = "Total Yellow Cards"
	fieldTotalRed     = "Total Red Cards"
	fieldTotalMinutes = "Total Minutes"
	fieldAvgRating    = "Average Rating"

	aggregateLeague = "Various"
)

// competitionCountries maps competition name fragments to a country label.
// Order matters: the first fragment found in the name wins.
var competitionCountries = []struct{ fragment, country string }{
	{"Premier League", "England"},
	{"La Liga", "Spain"},
	{"Serie A", "Italy"},
	{"Bundesliga", "Germany"},
	{"Ligue 1", "France"},
	{"Champions League", "Europe"},
	{"Europa League", "Europe"},
	{"SPL", "Saudi Arabia"},
}

var (
	positionCode    = regexp.MustCompile(`(?i)(RW|LW|LB|RB|CM|DM|AM|CF|ST|SS|GK|CB)`)
	seasonYear      = regexp.MustCompile(`^(\d{4})`)
	positionFormats = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([A-Z]+)\s*\((\d+)\s*apps?[,\s]+(\d+)G[,\s]+(\d+)A\)`),
		regexp.MustCompile(`(?i)([A-Z]+):\s*(\d+)\s*Apps?[,\s]+(\d+)\s*Go[,\s]+(\d+)\s*As`),
		regexp.MustCompile(`([A-Z]+)\s+(\d+)\s+(\d+)\s+(\d+)`),
	}
)

// PositionLine is one entry of the "Positions Played" column.
type PositionLine struct {
	Position    string
	Appearances int
	Goals       int
	Assists     int
}

// ParsePositions reads lines such as "RW (51 apps, 15G, 5A)",
// "RW: 51 Apps, 15 Go, 5 As" or "RW 51 15 5". Unrecognised lines are skipped.
func ParsePositions(raw string) []PositionLine {
	var out []PositionLine
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, format := range positionFormats {
			m := format.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			apps, _ := strconv.Atoi(m[2])
			goals, _ := strconv.Atoi(m[3])
			assists, _ := strconv.Atoi(m[4])
			out = append(out, PositionLine{Position: m[1], Appearances: apps, Goals: goals, Assists: assists})
			break
		}
	}
	return out
}

// primaryPosition picks the most played position, falling back to the
// first recognisable position code in the text.
func primaryPosition(raw string) string {
	if lines := ParsePositions(raw); len(lines) > 0 {
		best := lines[0]
		for _, line := range lines[1:] {
			if line.Appearances > best.Appearances {
				best = line
			}
		}
		return strings.ToUpper(best.Position)
	}
	if m := positionCode.FindStringSubmatch(raw); m != nil {
		return strings.ToUpper(m[1])
	}
	return "Unknown"
}

func countryFor(competition string) string {
	for _, entry := range competitionCountries {
		if strings.Contains(competition, entry.fragment) {
			return entry.country
		}
	}
	return ""
}

func text(fields map[string]any, name string) string {
	return strings.TrimSpace(coerce.ToString(fields[name], ""))
}

// isoDate converts "DD/MM/YYYY" into "YYYY-MM-DD" and returns anything
// else unchanged.
func isoDate(raw string) string {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return raw
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

func profileFromRecord(rec record) player.Profile {
	f := rec.Fields
	profile := player.Profile{
		ID:            rec.ID,
		Source:        ProviderName,
		Name:          text(f, fieldPlayerName),
		FirstName:     text(f, fieldFirstName),
		LastName:      text(f, fieldLastName),
		Age:           int(coerce.ToNumber(f[fieldAge])),
		Birth:         player.Birth{Date: isoDate(text(f, fieldDateOfBirth)), Country: text(f, fieldNationality)},
		Nationality:   text(f, fieldNationality),
		Height:        text(f, fieldHeight),
		Weight:        text(f, fieldWeight),
		Photo:         text(f, fieldPhoto),
		PreferredFoot: text(f, fieldFoot),
	}
	if club := text(f, fieldClub); club != "" {
		profile.CurrentTeam = &player.Team{Name: club}
	}
	return profile
}

// decodeField parses a JSON-in-a-string column. Columns may also arrive
// already structured; those are returned as they are.
func (c *Client) decodeField(ctx context.Context, rec record, name string) any {
	raw, ok := rec.Fields[name]
	if !ok || raw == nil {
		return nil
	}
	s, isString := raw.(string)
	if !isString {
		return raw
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out any
	if err := sonic.UnmarshalString(s, &out); err != nil {
		c.logger.WarnContext(ctx, "airtable column is not valid JSON", "record_id", rec.ID, "field", name, "error", err)
		return nil
	}
	return out
}

func (c *Client) statisticsRows(ctx context.Context, rec record) []player.Record {
	f := rec.Fields
	performance := coerce.Map(c.decodeField(ctx, rec, fieldPerformance))
	team := map[string]any{"id": 0, "name": coerce.FirstString("Unknown", f[fieldClub]), "logo": ""}
	position := primaryPosition(text(f, fieldPositions))
	averageRating := coerce.ToString(coerce.ToNumber(f[fieldAvgRating]), "0")

	appearances := coerce.Maps(c.decodeField(ctx, rec, fieldAppearances))
	if len(appearances) == 0 {
		row := detailRow(nil, performance)
		row["team"] = team
		row["league"] = map[string]any{"id": 0, "name": aggregateLeague, "country": ""}
		row["games"] = map[string]any{
			"appearences": coerce.ToNumber(f[fieldTotalGames]),
			"minutes":     coerce.ToNumber(f[fieldTotalMinutes]),
			"position":    position,
			"rating":      averageRating,
		}
		row["goals"] = map[string]any{
			"total":   coerce.ToNumber(f[fieldTotalGoals]),
			"assists": coerce.ToNumber(f[fieldTotalAssists]),
		}
		row["cards"] = map[string]any{
			"yellow":    coerce.ToNumber(f[fieldTotalYellow]),
			"yellowred": 0,
			"red":       coerce.ToNumber(f[fieldTotalRed]),
		}
		return []player.Record{row}
	}

	rows := make([]player.Record, 0, len(appearances))
	for _, app := range appearances {
		season := coerce.ToString(app["season"], "")
		competition := coerce.FirstString("Unknown", app["competition"])
		seasonStats := coerce.Map(coerce.FirstPresent(performance[season], performance[competition]))

		league := map[string]any{"id": 0, "name": competition, "country": countryFor(competition)}
		if m := seasonYear.FindStringSubmatch(season); m != nil {
			year, _ := strconv.Atoi(m[1])
			league["season"] = year
			league["seasonLabel"] = season
		} else if season != "" {
			league["season"] = season
		}

		row := detailRow(seasonStats, performance)
		row["team"] = team
		row["league"] = league
		row["games"] = map[string]any{
			"appearences": coerce.ToNumber(app["games"]),
			"minutes":     coerce.ToNumber(app["minutes"]),
			"position":    position,
			"rating":      coerce.FirstString(averageRating, seasonStats["averageRating"]),
		}
		row["goals"] = map[string]any{
			"total":   coerce.ToNumber(coerce.FallbackFalsy.First(app["goals"], seasonStats["goals"])),
			"assists": coerce.ToNumber(app["assists"]),
		}
		row["cards"] = map[string]any{
			"yellow":    coerce.ToNumber(app["yellowCards"]),
			"yellowred": coerce.ToNumber(app["secondYellow"]),
			"red":       coerce.ToNumber(app["redCards"]),
		}
		rows = append(rows, row)
	}
	return rows
}

// detailRow fills the per-action groups from season-level figures, then
// from the career-level performance blob.
func detailRow(season, performance map[string]any) player.Record {
	pick := func(flat string, group, key string) float64 {
		return coerce.ToNumber(coerce.FallbackFalsy.First(
			season[flat],
			performance[flat],
			coerce.Path(performance, group, key),
		))
	}

	return player.Record{
		"shots": map[string]any{
			"total": pick("shotsTotal", "shots", "total"),
			"on":    pick("shotsOn", "shots", "on"),
		},
		"passes": map[string]any{
			"total":    pick("passesTotal", "passes", "total"),
			"key":      pick("keyPasses", "passes", "key"),
			"accuracy": pick("passAccuracy", "passes", "accuracy"),
		},
		"tackles": map[string]any{
			"total":         pick("tacklesTotal", "tackles", "total"),
			"blocks":        pick("blocks", "tackles", "blocks"),
			"interceptions": pick("interceptions", "tackles", "interceptions"),
		},
		"duels": map[string]any{
			"total": pick("duelsTotal", "duels", "total"),
			"won":   pick("duelsWon", "duels", "won"),
		},
		"dribbles": map[string]any{
			"attempts": pick("dribblesAttempts", "dribbles", "attempts"),
			"success":  pick("dribblesSuccess", "dribbles", "success"),
			"past":     pick("dribblesPast", "dribbles", "past"),
		},
		"fouls": map[string]any{
			"drawn":     pick("foulsDrawn", "fouls", "drawn"),
			"committed": pick("foulsCommitted", "fouls", "committed"),
		},
	}
}

func (c *Client) transferRows(ctx context.Context, rec record) []player.Record {
	return toRecords(coerce.Maps(c.decodeField(ctx, rec, fieldTransfers)))
}

// injuryRows accepts either a flat list or an object keyed by season label
// ({"2023/24": [...]}); the keyed form is flattened in season order.
func (c *Client) injuryRows(ctx context.Context, rec record) []player.Record {
	decoded := c.decodeField(ctx, rec, fieldInjuries)
	if list, ok := decoded.([]any); ok {
		return toRecords(coerce.Maps(list))
	}

	bySeason := coerce.Map(decoded)
	seasons := make([]string, 0, len(bySeason))
	for season := range bySeason {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)

	out := make([]player.Record, 0)
	for _, season := range seasons {
		for _, injury := range coerce.Maps(bySeason[season]) {
			row := player.Record{
				"reason": coerce.FirstString("Unknown", injury["Injury"], injury["injury"]),
				"season": season,
			}
			if from := coerce.FirstPresent(injury["From"], injury["from"]); from != nil {
				row["fixture"] = map[string]any{"date": from}
			}
			for _, key := range []string{"Until", "until", "Days", "days", "Games Missed", "gamesMissed"} {
				if v, ok := injury[key]; ok {
					row[key] = v
				}
			}
			out = append(out, row)
		}
	}
	return out
}

func toRecords(rows []player.Record) []player.Record {
	if rows == nil {
		return []player.Record{}
	}
	return rows
}
