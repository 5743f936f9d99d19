package player

import "fmt"

// Record is one loosely-typed row as delivered by a data provider
// (a statistics entry, a transfer, an injury, or a tabular record's fields).
type Record = map[string]any

// Team identifies the club a player is attached to.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type Birth struct {
	Date    string `json:"date"`
	Place   string `json:"place"`
	Country string `json:"country"`
}

// Profile is the biographical part of a player as a provider reports it.
// ID is only meaningful to the provider named in Source.
type Profile struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	Name          string `json:"name"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Age           int    `json:"age"`
	Birth         Birth  `json:"birth"`
	Nationality   string `json:"nationality"`
	Height        string `json:"height"`
	Weight        string `json:"weight"`
	Photo         string `json:"photo"`
	PreferredFoot string `json:"preferredFoot,omitempty"`
	Injured       bool   `json:"injured"`
	CurrentTeam   *Team  `json:"currentTeam,omitempty"`
}

// Validate rejects profiles a report cannot be built from. A name may come
// from first and last name alone.
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.DisplayName() == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Age < 0 {
		return fmt.Errorf("player age must not be negative")
	}

	return nil
}

// DisplayName prefers the full name and falls back to first + last.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}
