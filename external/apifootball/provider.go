package apifootball

import (
	"context"
	stderrors "errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/scouting-report/external/upstream"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

var _ player.Provider = (*Client)(nil)

func (c *Client) Name() string { return ProviderName }

func (c *Client) Available() bool { return c.apiKey != "" }

// SearchPlayers walks the configured teams because the players endpoint
// rejects a bare name search. Rate limits abort the walk; any other
// per-team failure skips that team.
func (c *Client) SearchPlayers(ctx context.Context, name string, limit int) ([]player.Profile, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	seen := make(map[string]struct{})
	out := make([]player.Profile, 0, limit)
	for _, teamID := range c.searchTeams {
		items, err := c.fetch(ctx, "/players", url.Values{
			"search": {name},
			"team":   {strconv.FormatInt(teamID, 10)},
		})
		if err != nil {
			if stderrors.Is(err, usecase.ErrRateLimited) || ctx.Err() != nil {
				return nil, err
			}
			c.logger.WarnContext(ctx, "api-football team search failed", "team_id", teamID, "error", err)
			continue
		}

		for _, item := range items {
			profile := profileFromItem(item)
			if profile.ID == "" || !matchesQuery(profile, query) {
				continue
			}
			if _, dup := seen[profile.ID]; dup {
				continue
			}
			seen[profile.ID] = struct{}{}
			out = append(out, profile)
		}
		if len(out) >= limit {
			break
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *Client) GetPlayer(ctx context.Context, playerID string) (player.Profile, bool, error) {
	if _, err := upstream.NumericID(playerID); err != nil {
		return player.Profile{}, false, err
	}

	items, err := c.fetch(ctx, "/players", url.Values{"id": {playerID}})
	if err != nil {
		return player.Profile{}, false, err
	}
	if len(items) == 0 {
		return player.Profile{}, false, nil
	}
	return profileFromItem(items[0]), true, nil
}

func (c *Client) GetStatistics(ctx context.Context, playerID string, season int) ([]player.Record, error) {
	if _, err := upstream.NumericID(playerID); err != nil {
		return nil, err
	}

	params := url.Values{"id": {playerID}}
	if season <= 0 {
		season = c.season
	}
	if season > 0 {
		params.Set("season", strconv.Itoa(season))
	}

	items, err := c.fetch(ctx, "/players", params)
	if err != nil {
		return nil, err
	}

	out := make([]player.Record, 0, len(items))
	for _, item := range items {
		out = append(out, coerce.Maps(item["statistics"])...)
	}
	return out, nil
}

func (c *Client) GetTransfers(ctx context.Context, playerID string) ([]player.Record, error) {
	if _, err := upstream.NumericID(playerID); err != nil {
		return nil, err
	}

	items, err := c.fetch(ctx, "/transfers", url.Values{"player": {playerID}})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []player.Record{}, nil
	}
	return coerce.Maps(items[0]["transfers"]), nil
}

func (c *Client) GetInjuries(ctx context.Context, playerID string) ([]player.Record, error) {
	if _, err := upstream.NumericID(playerID); err != nil {
		return nil, err
	}
	return c.fetch(ctx, "/injuries", url.Values{"player": {playerID}})
}

// GetChartFields returns nil: the API has no chart documents.
func (c *Client) GetChartFields(context.Context, string) (player.Record, error) {
	return nil, nil
}

func profileFromItem(item map[string]any) player.Profile {
	raw := coerce.Map(item["player"])
	if raw == nil {
		raw = item
	}

	profile := player.Profile{
		ID:        upstream.ID(raw["id"]),
		Source:    ProviderName,
		Name:      coerce.ToString(raw["name"], ""),
		FirstName: coerce.ToString(raw["firstname"], ""),
		LastName:  coerce.ToString(raw["lastname"], ""),
		Age:       int(coerce.ToNumber(raw["age"])),
		Birth: player.Birth{
			Date:    coerce.ToString(coerce.Path(raw, "birth", "date"), ""),
			Place:   coerce.ToString(coerce.Path(raw, "birth", "place"), ""),
			Country: coerce.ToString(coerce.Path(raw, "birth", "country"), ""),
		},
		Nationality: coerce.ToString(raw["nationality"], ""),
		Height:      coerce.ToString(raw["height"], ""),
		Weight:      coerce.ToString(raw["weight"], ""),
		Photo:       coerce.ToString(raw["photo"], ""),
		Injured:     raw["injured"] == true,
	}

	if stats := coerce.Maps(item["statistics"]); len(stats) > 0 {
		if team := coerce.Map(stats[0]["team"]); team != nil {
			profile.CurrentTeam = &player.Team{
				ID:   int64(coerce.ToNumber(team["id"])),
				Name: coerce.ToString(team["name"], ""),
				Logo: coerce.ToString(team["logo"], ""),
			}
		}
	}
	return profile
}

func matchesQuery(p player.Profile, query string) bool {
	name := strings.ToLower(p.Name)
	first := strings.ToLower(p.FirstName)
	last := strings.ToLower(p.LastName)

	return strings.Contains(name, query) ||
		(name != "" && strings.Contains(query, name)) ||
		strings.Contains(first, query) ||
		strings.Contains(last, query) ||
		strings.Contains(first+" "+last, query)
}
