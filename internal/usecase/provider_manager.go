package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
)

// FallbackProviderName names the last-resort provider that answers every
// lookup with empty data.
const FallbackProviderName = "fallback"

// ProviderManager tries providers in order until one answers. The last
// provider that returned data becomes the starting point for the next call.
type ProviderManager struct {
	providers []player.Provider
	fallback  player.Provider
	logger    *logging.Logger

	mu      sync.RWMutex
	current int
}

func NewProviderManager(logger *logging.Logger, providers ...player.Provider) *ProviderManager {
	if logger == nil {
		logger = logging.Default()
	}

	kept := make([]player.Provider, 0, len(providers))
	for _, provider := range providers {
		if provider != nil {
			kept = append(kept, provider)
		}
	}

	m := &ProviderManager{
		providers: kept,
		fallback:  emptyProvider{},
		logger:    logger,
	}
	for i, provider := range kept {
		if provider.Available() {
			m.current = i
			break
		}
	}
	return m
}

// Current returns the name of the provider tried first.
func (m *ProviderManager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.providers) == 0 {
		return FallbackProviderName
	}
	return m.providers[m.current].Name()
}

// Available lists the configured providers that can currently serve requests.
func (m *ProviderManager) Available() []string {
	names := make([]string, 0, len(m.providers))
	for _, provider := range m.providers {
		if provider.Available() {
			names = append(names, provider.Name())
		}
	}
	return names
}

// Provider looks up an available provider by name.
func (m *ProviderManager) Provider(name string) (player.Provider, bool) {
	name = strings.TrimSpace(name)
	for _, provider := range m.providers {
		if provider.Name() == name && provider.Available() {
			return provider, true
		}
	}
	if name == FallbackProviderName {
		return m.fallback, true
	}
	return nil, false
}

// SwitchTo makes the named provider the first one tried.
func (m *ProviderManager) SwitchTo(name string) bool {
	for i, provider := range m.providers {
		if provider.Name() == name && provider.Available() {
			m.mu.Lock()
			m.current = i
			m.mu.Unlock()
			return true
		}
	}
	return false
}

func (m *ProviderManager) SearchPlayers(ctx context.Context, name string, limit int) ([]player.Profile, error) {
	profiles, _, _, err := withFallback(ctx, m, "search players", func(ctx context.Context, p player.Provider) ([]player.Profile, bool, error) {
		profiles, err := p.SearchPlayers(ctx, name, limit)
		return profiles, len(profiles) > 0, err
	})
	return profiles, err
}

// FindPlayer looks the id up across providers and also returns the provider
// that knew it, so follow-up lookups stay on the same id space.
func (m *ProviderManager) FindPlayer(ctx context.Context, playerID string) (player.Profile, player.Provider, bool, error) {
	profile, provider, found, err := withFallback(ctx, m, "get player", func(ctx context.Context, p player.Provider) (player.Profile, bool, error) {
		return p.GetPlayer(ctx, playerID)
	})
	if err != nil {
		return player.Profile{}, nil, false, err
	}
	if !found {
		return player.Profile{}, nil, false, nil
	}
	return profile, provider, true, nil
}

// withFallback runs call against each available provider starting from the
// current one. Errors and empty answers move on to the next provider. When
// none returns data, an empty answer wins over an error; the empty fallback
// provider answers only when no provider could be tried. The bool reports
// whether the returned value carries data.
func withFallback[T any](
	ctx context.Context,
	m *ProviderManager,
	op string,
	call func(context.Context, player.Provider) (T, bool, error),
) (T, player.Provider, bool, error) {
	var (
		zero      T
		lastErr   error
		emptySeen bool
		emptyVal  T
		emptyFrom player.Provider
	)

	m.mu.RLock()
	start := m.current
	m.mu.RUnlock()

	for i := range m.providers {
		index := (start + i) % len(m.providers)
		provider := m.providers[index]
		if !provider.Available() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return zero, nil, false, err
		}

		value, hasData, err := call(ctx, provider)
		if err != nil {
			lastErr = err
			m.logger.WarnContext(ctx, "provider failed, trying next", "provider", provider.Name(), "operation", op, "error", err)
			continue
		}
		if !hasData {
			if !emptySeen {
				emptySeen, emptyVal, emptyFrom = true, value, provider
			}
			m.logger.DebugContext(ctx, "provider returned no data, trying next", "provider", provider.Name(), "operation", op)
			continue
		}

		if index != start {
			m.mu.Lock()
			m.current = index
			m.mu.Unlock()
			m.logger.InfoContext(ctx, "switched provider", "provider", provider.Name(), "operation", op)
		}
		return value, provider, true, nil
	}

	switch {
	case emptySeen:
		return emptyVal, emptyFrom, false, nil
	case lastErr != nil:
		if errors.Is(lastErr, ErrRateLimited) {
			return zero, nil, false, fmt.Errorf("%w: every provider is rate limited, retry in about 60 seconds: %w", ErrRateLimited, lastErr)
		}
		return zero, nil, false, fmt.Errorf("%s: %w", op, lastErr)
	}

	value, hasData, err := call(ctx, m.fallback)
	return value, m.fallback, hasData, err
}

type emptyProvider struct{}

func (emptyProvider) Name() string    { return FallbackProviderName }
func (emptyProvider) Available() bool { return true }

func (emptyProvider) SearchPlayers(context.Context, string, int) ([]player.Profile, error) {
	return []player.Profile{}, nil
}

func (emptyProvider) GetPlayer(context.Context, string) (player.Profile, bool, error) {
	return player.Profile{}, false, nil
}

func (emptyProvider) GetStatistics(context.Context, string, int) ([]player.Record, error) {
	return []player.Record{}, nil
}

func (emptyProvider) GetTransfers(context.Context, string) ([]player.Record, error) {
	return []player.Record{}, nil
}

func (emptyProvider) GetInjuries(context.Context, string) ([]player.Record, error) {
	return []player.Record{}, nil
}

func (emptyProvider) GetChartFields(context.Context, string) (player.Record, error) {
	return nil, nil
}
