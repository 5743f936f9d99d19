package usecase

import (
	"context"
	"math/rand/v2"
	"slices"
)

const (
	suggestAttempts = 5
	suggestWanted   = 3
	suggestStatic   = 5
)

const (
	SuggestionSourceProvider = "provider"
	SuggestionSourceStatic   = "static"
)

// PopularPlayers seeds suggestions. Order matters for the static fallback.
var PopularPlayers = []string{
	"Lionel Messi", "Cristiano Ronaldo", "Kylian Mbappé", "Erling Haaland", "Kevin De Bruyne",
	"Mohamed Salah", "Karim Benzema", "Robert Lewandowski", "Virgil van Dijk", "Luka Modrić",
	"Neymar", "Harry Kane", "Sadio Mané", "Son Heung-min", "Bruno Fernandes",
	"Jude Bellingham", "Vinícius Júnior", "Phil Foden", "Bukayo Saka", "Jadon Sancho",
	"Antoine Griezmann", "Thomas Müller", "Manuel Neuer", "Thibaut Courtois", "Alisson",
	"Ederson", "Marc-André ter Stegen", "Jan Oblak", "Gianluigi Donnarumma", "David de Gea",
}

type Suggestions struct {
	Players []string `json:"players"`
	Source  string   `json:"source"`
	Note    string   `json:"note,omitempty"`
}

func shufflePlayers(names []string) {
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
}

// Suggest returns a few popular names that a provider could actually find.
// When none can be confirmed it falls back to the head of the static list.
func (s *ReportService) Suggest(ctx context.Context) (Suggestions, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Suggest")
	defer span.End()

	candidates := slices.Clone(PopularPlayers)
	s.shuffle(candidates)

	found := make([]string, 0, suggestWanted)
	for _, name := range candidates[:min(suggestAttempts, len(candidates))] {
		if len(found) == suggestWanted {
			break
		}
		if err := ctx.Err(); err != nil {
			return Suggestions{}, err
		}

		profiles, err := s.Search(ctx, name, 1)
		if err != nil {
			s.logger.DebugContext(ctx, "suggestion lookup failed, skipping", "name", name, "error", err)
			continue
		}
		if len(profiles) == 0 {
			continue
		}
		if display := profiles[0].DisplayName(); display != "" && !slices.Contains(found, display) {
			found = append(found, display)
		}
	}

	if len(found) == 0 {
		return Suggestions{
			Players: slices.Clone(PopularPlayers[:min(suggestStatic, len(PopularPlayers))]),
			Source:  SuggestionSourceStatic,
			Note:    "no provider could confirm a suggestion; showing popular names instead",
		}, nil
	}
	return Suggestions{Players: found, Source: SuggestionSourceProvider}, nil
}
