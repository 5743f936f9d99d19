// Package upstream holds the error and id conventions shared by provider
// adapters.
package upstream

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/platform/httpclient"
	"github.com/riskibarqy/scouting-report/internal/platform/resilience"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

// MapError translates transport failures into usecase sentinels so the
// provider manager and HTTP layer can react without knowing the provider.
func MapError(provider string, err error) error {
	if err == nil {
		return nil
	}

	switch status := httpclient.StatusCode(err); {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s: %w", usecase.ErrRateLimited, provider, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s rejected the configured API key: %w", usecase.ErrDependencyUnavailable, provider, err)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s: %w", usecase.ErrNotFound, provider, err)
	}

	if stderrors.Is(err, resilience.ErrCircuitOpen) || stderrors.Is(err, httpclient.ErrTransient) {
		return fmt.Errorf("%w: %s: %w", usecase.ErrDependencyUnavailable, provider, err)
	}
	return fmt.Errorf("%s: %w", provider, err)
}

// ID renders a provider id (number or string) as an opaque string.
func ID(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	n := coerce.ToNumber(v)
	if n <= 0 {
		return ""
	}
	return strconv.FormatInt(int64(n), 10)
}

// NumericID parses an opaque id for providers keyed by integers.
func NumericID(playerID string) (int64, error) {
	id, err := strconv.ParseInt(playerID, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: player id must be a positive integer, got %q", usecase.ErrInvalidInput, playerID)
	}
	return id, nil
}
