package upstream

import (
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/scouting-report/internal/platform/httpclient"
	"github.com/riskibarqy/scouting-report/internal/platform/resilience"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   error
		want error
	}{
		{name: "rate limit", in: fmt.Errorf("%w: %w", httpclient.ErrTransient, &httpclient.StatusError{StatusCode: 429}), want: usecase.ErrRateLimited},
		{name: "bad key", in: &httpclient.StatusError{StatusCode: 401}, want: usecase.ErrDependencyUnavailable},
		{name: "missing record", in: &httpclient.StatusError{StatusCode: 404}, want: usecase.ErrNotFound},
		{name: "circuit open", in: fmt.Errorf("rejected: %w", resilience.ErrCircuitOpen), want: usecase.ErrDependencyUnavailable},
		{name: "server error", in: fmt.Errorf("%w: boom", httpclient.ErrTransient), want: usecase.ErrDependencyUnavailable},
	}

	for _, tc := range cases {
		if got := MapError("api-football", tc.in); !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
	if MapError("x", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestIDs(t *testing.T) {
	t.Parallel()

	if got := ID(float64(276)); got != "276" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := ID("recABC"); got != "recABC" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := ID(nil); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if _, err := NumericID("abc"); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if id, err := NumericID("909"); err != nil || id != 909 {
		t.Fatalf("unexpected id %d err=%v", id, err)
	}
}
