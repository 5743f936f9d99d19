package airtable

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

func (c *Client) Name() string { return ProviderName }

func (c *Client) Available() bool {
	return c.apiKey != "" && c.baseID != "" && c.tableID != ""
}

func (c *Client) SearchPlayers(ctx context.Context, name string, limit int) ([]player.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records, err := c.search(ctx, name, limit)
	if err != nil {
		return nil, err
	}

	out := make([]player.Profile, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		c.records.Set(ctx, rec.ID, rec)
		out = append(out, profileFromRecord(rec))
	}
	return out, nil
}

func (c *Client) GetPlayer(ctx context.Context, playerID string) (player.Profile, bool, error) {
	rec, err := c.lookup(ctx, playerID)
	if err != nil || rec == nil {
		return player.Profile{}, false, err
	}
	return profileFromRecord(*rec), true, nil
}

// GetStatistics ignores season: the table keeps a player's whole career.
func (c *Client) GetStatistics(ctx context.Context, playerID string, _ int) ([]player.Record, error) {
	rec, err := c.lookup(ctx, playerID)
	if err != nil || rec == nil {
		return []player.Record{}, err
	}
	return c.statisticsRows(ctx, *rec), nil
}

func (c *Client) GetTransfers(ctx context.Context, playerID string) ([]player.Record, error) {
	rec, err := c.lookup(ctx, playerID)
	if err != nil || rec == nil {
		return []player.Record{}, err
	}
	return c.transferRows(ctx, *rec), nil
}

func (c *Client) GetInjuries(ctx context.Context, playerID string) ([]player.Record, error) {
	rec, err := c.lookup(ctx, playerID)
	if err != nil || rec == nil {
		return []player.Record{}, err
	}
	return c.injuryRows(ctx, *rec), nil
}

// GetChartFields exposes the raw field bag so chart segments can be
// located in "Performance Data JSON" or any alias column.
func (c *Client) GetChartFields(ctx context.Context, playerID string) (player.Record, error) {
	rec, err := c.lookup(ctx, playerID)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Fields, nil
}

func (c *Client) lookup(ctx context.Context, playerID string) (*record, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, usecase.ErrInvalidInput
	}

	rec, err := c.fetchRecord(ctx, playerID)
	if stderrors.Is(err, usecase.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}
