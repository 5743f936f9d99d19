package player

import "context"

// Provider describes a football data source the report pipeline can read.
// Unsupported lookups return empty results rather than errors.
type Provider interface {
	Name() string
	Available() bool
	SearchPlayers(ctx context.Context, name string, limit int) ([]Profile, error)
	GetPlayer(ctx context.Context, playerID string) (Profile, bool, error)
	GetStatistics(ctx context.Context, playerID string, season int) ([]Record, error)
	GetTransfers(ctx context.Context, playerID string) ([]Record, error)
	GetInjuries(ctx context.Context, playerID string) ([]Record, error)
	// GetChartFields returns the raw field bag chart data is extracted from,
	// or nil when the provider has none.
	GetChartFields(ctx context.Context, playerID string) (Record, error)
}
