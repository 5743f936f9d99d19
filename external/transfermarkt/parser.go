// Package transfermarkt turns a saved Transfermarkt profile page into the
// same loosely-typed shapes the API providers return.
package transfermarkt

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
)

const ProviderName = "transfermarkt"

// Page is everything read from one profile page.
type Page struct {
	Profile       player.Profile
	MarketValue   string
	ContractUntil string
	Positions     []string
	Statistics    []player.Record
}

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	birthDate   = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	fullSeason  = regexp.MustCompile(`^(\d{4})`)
	shortSeason = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	nonDigit    = regexp.MustCompile(`[^\d]`)
)

// Parse reads a profile page. now anchors the age calculation.
func Parse(r io.Reader, now time.Time) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("parse transfermarkt page: %w", err)
	}

	var page Page
	profile := &page.Profile
	profile.Source = ProviderName

	profile.Name = clean(doc.Find("h1.data-header__headline-wrapper").First().Text())
	if parts := strings.Fields(profile.Name); len(parts) > 0 {
		profile.FirstName = parts[0]
		profile.LastName = strings.Join(parts[1:], " ")
	}

	img := doc.Find(".data-header__profile-image img").First()
	profile.Photo = img.AttrOr("src", img.AttrOr("data-src", ""))

	if club := clean(doc.Find(".data-header__club-info a").First().Text()); club != "" {
		profile.CurrentTeam = &player.Team{Name: club}
	}
	page.MarketValue = clean(doc.Find(".data-header__market-value-wrapper .data-header__market-value").First().Text())

	doc.Find(".info-table tr").Each(func(_ int, row *goquery.Selection) {
		label := clean(row.Find("th").First().Text())
		value := clean(row.Find("td").First().Text())
		switch {
		case strings.Contains(label, "Date of birth") || strings.Contains(label, "Born"):
			profile.Birth.Date, profile.Age = parseBirth(value, now)
		case strings.Contains(label, "Place of birth"):
			profile.Birth.Place = value
		case strings.Contains(label, "Height"):
			profile.Height = value
		case strings.Contains(label, "Weight"):
			profile.Weight = value
		case strings.Contains(label, "Citizenship") || strings.Contains(label, "Nationality"):
			profile.Nationality = value
			profile.Birth.Country = value
		case strings.Contains(label, "Foot") || strings.Contains(label, "foot"):
			profile.PreferredFoot = value
		case strings.Contains(label, "Contract"):
			page.ContractUntil = value
		}
	})

	doc.Find(".detail-position__position").Each(func(_ int, el *goquery.Selection) {
		if position := clean(el.Text()); position != "" {
			page.Positions = append(page.Positions, position)
		}
	})

	position := "Unknown"
	if len(page.Positions) > 0 {
		position = page.Positions[0]
	}

	page.Statistics = make([]player.Record, 0)
	doc.Find(".items tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 8 {
			return
		}
		cell := func(i int) string { return clean(cells.Eq(i).Text()) }

		season, competition := cell(0), cell(1)
		if season == "" || competition == "" {
			return
		}

		page.Statistics = append(page.Statistics, player.Record{
			"league": leagueFor(season, competition),
			"games": map[string]any{
				"appearences": count(cell(2)),
				"minutes":     count(cell(7)),
				"position":    position,
			},
			"goals": map[string]any{"total": count(cell(3)), "assists": count(cell(4))},
			"cards": map[string]any{"yellow": count(cell(5)), "red": count(cell(6))},
		})
	})

	return page, nil
}

func clean(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// count reads a table cell such as "1.234'" or "-" as a whole number.
func count(s string) int {
	n, err := strconv.Atoi(nonDigit.ReplaceAllString(s, ""))
	if err != nil {
		return 0
	}
	return n
}

// parseBirth reads "DD.MM.YYYY", optionally followed by the age in
// brackets, into an ISO date and completed years at now.
func parseBirth(value string, now time.Time) (string, int) {
	m := birthDate.FindStringSubmatch(value)
	if m == nil {
		return value, 0
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	born := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return born.Format("2006-01-02"), max(age, 0)
}

// leagueFor keeps the season as a start year when it has one ("2024",
// "24/25") and as a label otherwise.
func leagueFor(season, competition string) map[string]any {
	league := map[string]any{"name": competition, "country": ""}
	switch {
	case fullSeason.MatchString(season):
		year, _ := strconv.Atoi(fullSeason.FindStringSubmatch(season)[1])
		league["season"] = year
	case shortSeason.MatchString(season):
		yy, _ := strconv.Atoi(shortSeason.FindStringSubmatch(season)[1])
		league["season"] = 2000 + yy
	default:
		league["season"] = season
	}
	return league
}
