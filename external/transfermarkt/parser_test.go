package transfermarkt

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
)

const samplePage = `<html><body>
<header>
  <h1 class="data-header__headline-wrapper">
     Bukayo   Saka
  </h1>
  <div class="data-header__profile-image"><img src="https://img.example/saka.jpg"></div>
  <div class="data-header__club-info"><a href="/fc-arsenal">Arsenal FC</a></div>
  <div class="data-header__market-value-wrapper"><span class="data-header__market-value">€140.00m</span></div>
</header>
<table class="info-table">
  <tr><th>Date of birth/Age:</th><td>05.09.2001 (24)</td></tr>
  <tr><th>Place of birth:</th><td>London</td></tr>
  <tr><th>Height:</th><td>1,78 m</td></tr>
  <tr><th>Citizenship:</th><td>England</td></tr>
  <tr><th>Foot:</th><td>left</td></tr>
  <tr><th>Contract expires:</th><td>30.06.2027</td></tr>
</table>
<div class="detail-position__position">Right Winger</div>
<div class="detail-position__position">Left Winger</div>
<table class="items"><tbody>
  <tr><td>24/25</td><td>Premier League</td><td>25</td><td>6</td><td>10</td><td>2</td><td>-</td><td>2.034'</td></tr>
  <tr><td>2023</td><td>FA Cup</td><td>3</td><td>1</td><td>0</td><td>-</td><td>-</td><td>210'</td></tr>
  <tr><td>Total</td><td></td><td>28</td><td>7</td><td>10</td><td>2</td><td>-</td><td>2.244'</td></tr>
  <tr><td>short</td><td>row</td></tr>
</tbody></table>
</body></html>`

func TestParse_ProfilePage(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	page, err := Parse(strings.NewReader(samplePage), now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	p := page.Profile
	if p.Name != "Bukayo Saka" || p.FirstName != "Bukayo" || p.LastName != "Saka" {
		t.Fatalf("unexpected names %+v", p)
	}
	if p.Birth.Date != "2001-09-05" || p.Age != 24 || p.Birth.Place != "London" {
		t.Fatalf("unexpected birth %+v age=%d", p.Birth, p.Age)
	}
	if p.Height != "1,78 m" || p.Nationality != "England" || p.PreferredFoot != "left" {
		t.Fatalf("unexpected info table values %+v", p)
	}
	if p.Photo != "https://img.example/saka.jpg" || p.CurrentTeam == nil || p.CurrentTeam.Name != "Arsenal FC" {
		t.Fatalf("unexpected header values %+v", p)
	}
	if page.MarketValue != "€140.00m" || page.ContractUntil != "30.06.2027" {
		t.Fatalf("unexpected market/contract %q %q", page.MarketValue, page.ContractUntil)
	}
	if len(page.Positions) != 2 || page.Positions[0] != "Right Winger" {
		t.Fatalf("unexpected positions %+v", page.Positions)
	}

	if len(page.Statistics) != 2 {
		t.Fatalf("expected two statistics rows, got %d", len(page.Statistics))
	}
	if coerce.Path(page.Statistics[0], "league", "season") != 2024 {
		t.Fatalf("short season should map to its start year, got %v", page.Statistics[0]["league"])
	}

	totals := scouting.Totals(page.Statistics)
	if totals.TotalGames != 28 || totals.TotalGoals != 7 || totals.TotalMinutes != 2244 {
		t.Fatalf("unexpected totals %+v", totals)
	}
	positions := scouting.AggregatePositions(page.Statistics)
	if len(positions) != 1 || positions[0].Position != "Right Winger" {
		t.Fatalf("unexpected positions summary %+v", positions)
	}
}

func TestParse_EmptyPage(t *testing.T) {
	t.Parallel()

	page, err := Parse(strings.NewReader("<html></html>"), time.Now())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if page.Profile.Name != "" || len(page.Statistics) != 0 || page.Profile.CurrentTeam != nil {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if page.Statistics == nil {
		t.Fatalf("statistics should be an empty slice")
	}
}
