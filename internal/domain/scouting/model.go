package scouting

import (
	"time"

	"github.com/riskibarqy/scouting-report/internal/domain/chartdata"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
)

const (
	unknownLabel  = "Unknown"
	notAvailable  = "N/A"
	transferLabel = "Transfer"
)

// Report is the processed player data a scouting report is rendered from.
type Report struct {
	Profile           ProfileSummary      `json:"profile"`
	Positions         []PositionSummary   `json:"positions"`
	LeagueAppearances []LeagueAppearance  `json:"leagueAppearances"`
	Statistics        CareerTotals        `json:"statistics"`
	Transfers         []Transfer          `json:"transfers"`
	Injuries          []Injury            `json:"injuries"`
	Strengths         []Assessment        `json:"strengths"`
	Weaknesses        []Assessment        `json:"weaknesses"`
	ChartData         *chartdata.Segments `json:"chartData,omitempty"`
}

type ProfileSummary struct {
	Name          string       `json:"name"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Age           int          `json:"age"`
	DateOfBirth   string       `json:"dob"`
	Height        string       `json:"height"`
	Weight        string       `json:"weight"`
	Nationality   string       `json:"nationality"`
	PreferredFoot *string      `json:"preferredFoot"`
	Photo         string       `json:"photo"`
	CurrentTeam   *player.Team `json:"currentTeam"`
}

type PositionSummary struct {
	Position    string  `json:"position"`
	Appearances float64 `json:"appearances"`
	Goals       float64 `json:"goals"`
	Assists     float64 `json:"assists"`
}

type LeagueAppearance struct {
	Season       string  `json:"season"`
	Competition  string  `json:"competition"`
	Games        float64 `json:"games"`
	Goals        float64 `json:"goals"`
	Assists      float64 `json:"assists"`
	YellowCards  float64 `json:"yellowCards"`
	SecondYellow float64 `json:"secondYellow"`
	RedCards     float64 `json:"redCards"`
	OwnGoals     float64 `json:"ownGoals"`
	Minutes      float64 `json:"minutes"`
}

type CareerTotals struct {
	TotalGames       float64 `json:"totalGames"`
	TotalGoals       float64 `json:"totalGoals"`
	TotalAssists     float64 `json:"totalAssists"`
	TotalYellowCards float64 `json:"totalYellowCards"`
	TotalRedCards    float64 `json:"totalRedCards"`
	TotalMinutes     float64 `json:"totalMinutes"`
	AverageRating    float64 `json:"averageRating"`
}

type Transfer struct {
	Date string `json:"date"`
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}

type Injury struct {
	Season      string  `json:"season"`
	Injury      string  `json:"injury"`
	From        string  `json:"from"`
	Until       string  `json:"until"`
	Days        float64 `json:"days"`
	GamesMissed float64 `json:"gamesMissed"`
}

// Assessment is one scouting tag with its heuristic percentile.
type Assessment struct {
	Category   string `json:"category"`
	Percentile int    `json:"percentile"`
}

// Options tunes how raw provider rows are read.
type Options struct {
	// Fallback controls numeric alias chains (injury days, games missed,
	// positional traits). FallbackFalsy lets a zero fall through to the next
	// alias; FallbackMissing keeps it.
	Fallback coerce.Fallback
	// Now supplies the reference instant for injuries without a start date.
	Now func() time.Time
	// Location is the zone injury dates are rendered in. Defaults to UTC.
	Location *time.Location
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.UTC
}
