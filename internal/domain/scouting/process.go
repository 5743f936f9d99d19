package scouting

import (
	"github.com/riskibarqy/scouting-report/internal/domain/chartdata"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
)

// Input bundles everything a provider returned for one player.
type Input struct {
	Profile    player.Profile
	Statistics []player.Record
	Transfers  []player.Record
	Injuries   []player.Record
	ChartData  *chartdata.Segments
}

// Process folds raw provider data into a Report. It never fails: missing or
// malformed values fall back to zero, "", "Unknown" or "N/A".
func Process(in Input, opts Options) Report {
	totals := Totals(in.Statistics)
	strengths, weaknesses := Assess(in.Statistics, totals.TotalGames)

	return Report{
		Profile:           summarize(in.Profile),
		Positions:         AggregatePositions(in.Statistics),
		LeagueAppearances: LeagueAppearances(in.Statistics),
		Statistics:        totals,
		Transfers:         NormalizeTransfers(in.Transfers),
		Injuries:          NormalizeInjuries(in.Injuries, opts),
		Strengths:         strengths,
		Weaknesses:        weaknesses,
		ChartData:         completeSegments(in.ChartData),
	}
}

func summarize(p player.Profile) ProfileSummary {
	summary := ProfileSummary{
		Name:        p.DisplayName(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Age:         max(p.Age, 0),
		DateOfBirth: orNotAvailable(p.Birth.Date),
		Height:      orNotAvailable(p.Height),
		Weight:      orNotAvailable(p.Weight),
		Nationality: p.Nationality,
		Photo:       p.Photo,
	}
	if p.PreferredFoot != "" {
		foot := p.PreferredFoot
		summary.PreferredFoot = &foot
	}
	if p.CurrentTeam != nil {
		team := *p.CurrentTeam
		summary.CurrentTeam = &team
	}
	return summary
}

// AttachTeam sets the current team when the profile did not carry one.
func (r *Report) AttachTeam(team player.Team) {
	if r.Profile.CurrentTeam != nil || team.Name == "" {
		return
	}
	r.Profile.CurrentTeam = &team
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func completeSegments(in *chartdata.Segments) *chartdata.Segments {
	if in == nil {
		return nil
	}
	out := *in
	if out.RadarChartMetrics == nil {
		out.RadarChartMetrics = map[string]any{}
	}
	if out.PositionalTraits == nil {
		out.PositionalTraits = map[string]any{}
	}
	if out.TFGRatingTrend == nil {
		out.TFGRatingTrend = map[string]any{}
	}
	if out.AdvancedStats == nil {
		out.AdvancedStats = map[string]any{}
	}
	return &out
}
