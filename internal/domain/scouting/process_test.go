package scouting

import (
	"testing"
	"time"

	"github.com/riskibarqy/scouting-report/internal/domain/chartdata"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
)

func fixedOptions() Options {
	return Options{
		Fallback: coerce.FallbackFalsy,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestProcess_SingleRowScenario(t *testing.T) {
	t.Parallel()

	in := Input{
		Profile: player.Profile{ID: "1", Name: "Test Player", Age: 25},
		Statistics: []player.Record{
			{
				"games":  map[string]any{"appearences": 30, "minutes": 2700, "position": "ST", "rating": "7.5"},
				"goals":  map[string]any{"total": 20, "assists": 5},
				"league": map[string]any{"season": 2024, "name": "Premier League", "country": "England"},
			},
		},
	}

	got := Process(in, fixedOptions())

	if got.Statistics.TotalGames != 30 {
		t.Fatalf("expected totalGames=30, got %v", got.Statistics.TotalGames)
	}
	if got.Statistics.AverageRating != 7.5 {
		t.Fatalf("expected averageRating=7.5, got %v", got.Statistics.AverageRating)
	}
	if len(got.Positions) != 1 {
		t.Fatalf("expected one position row, got %d", len(got.Positions))
	}
	if pos := got.Positions[0]; pos.Position != "ST" || pos.Appearances != 30 || pos.Goals != 20 || pos.Assists != 5 {
		t.Fatalf("unexpected position row %+v", pos)
	}
	if len(got.LeagueAppearances) != 1 {
		t.Fatalf("expected one league row, got %d", len(got.LeagueAppearances))
	}
	row := got.LeagueAppearances[0]
	if row.Season != "2024/25" || row.Competition != "Premier League - England" || row.Games != 30 {
		t.Fatalf("unexpected league row %+v", row)
	}
	if row.OwnGoals != 0 {
		t.Fatalf("own goals are never reported, got %v", row.OwnGoals)
	}
	if got.Profile.DateOfBirth != "N/A" || got.Profile.Height != "N/A" || got.Profile.Weight != "N/A" {
		t.Fatalf("expected N/A defaults, got %+v", got.Profile)
	}
	if got.Profile.PreferredFoot != nil || got.Profile.CurrentTeam != nil {
		t.Fatalf("expected nil foot and team, got %+v", got.Profile)
	}
	if got.ChartData != nil {
		t.Fatalf("expected no chart data")
	}
}

func TestProcess_EmptyStatistics(t *testing.T) {
	t.Parallel()

	got := Process(Input{Profile: player.Profile{Name: "Nobody"}}, fixedOptions())

	if len(got.Positions) != 0 || len(got.LeagueAppearances) != 0 {
		t.Fatalf("expected empty lists, got %+v", got)
	}
	if got.Statistics != (CareerTotals{}) {
		t.Fatalf("expected zero totals, got %+v", got.Statistics)
	}
	if len(got.Strengths) != 0 {
		t.Fatalf("expected no strengths, got %+v", got.Strengths)
	}
	for _, w := range got.Weaknesses {
		if w.Percentile != weaknessPercentileFloor {
			t.Fatalf("expected floored percentile for %s, got %d", w.Category, w.Percentile)
		}
	}
	if got.Transfers == nil || got.Injuries == nil {
		t.Fatalf("expected non-nil empty slices")
	}
}

func TestProcess_AttachesChartSegments(t *testing.T) {
	t.Parallel()

	got := Process(Input{
		Profile:   player.Profile{Name: "X"},
		ChartData: &chartdata.Segments{RadarChartMetrics: map[string]any{"Passes": 80}},
	}, fixedOptions())

	if got.ChartData == nil {
		t.Fatalf("expected chart data")
	}
	if got.ChartData.RadarChartMetrics["Passes"] != 80 {
		t.Fatalf("unexpected radar %v", got.ChartData.RadarChartMetrics)
	}
	if got.ChartData.AdvancedStats == nil || got.ChartData.TFGRatingTrend == nil || got.ChartData.PositionalTraits == nil {
		t.Fatalf("missing segments should be empty maps, got %+v", got.ChartData)
	}
}

func TestReport_AttachTeam(t *testing.T) {
	t.Parallel()

	r := Process(Input{Profile: player.Profile{Name: "X"}}, fixedOptions())
	r.AttachTeam(player.Team{ID: 42, Name: "Arsenal"})
	if r.Profile.CurrentTeam == nil || r.Profile.CurrentTeam.Name != "Arsenal" {
		t.Fatalf("expected attached team, got %+v", r.Profile.CurrentTeam)
	}

	r.AttachTeam(player.Team{ID: 7, Name: "Chelsea"})
	if r.Profile.CurrentTeam.Name != "Arsenal" {
		t.Fatalf("existing team must not be replaced")
	}
}

func TestSummarize_CarriesProviderFields(t *testing.T) {
	t.Parallel()

	got := summarize(player.Profile{
		FirstName:     "Bukayo",
		LastName:      "Saka",
		Age:           24,
		Birth:         player.Birth{Date: "2001-09-05"},
		Height:        "178 cm",
		PreferredFoot: "Left",
		CurrentTeam:   &player.Team{Name: "Arsenal"},
	})

	if got.Name != "Bukayo Saka" || got.DateOfBirth != "2001-09-05" || got.Height != "178 cm" {
		t.Fatalf("unexpected summary %+v", got)
	}
	if got.PreferredFoot == nil || *got.PreferredFoot != "Left" {
		t.Fatalf("expected preferred foot")
	}
	if got.CurrentTeam == nil || got.CurrentTeam.Name != "Arsenal" {
		t.Fatalf("expected current team")
	}
}
