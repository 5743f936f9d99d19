package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/scouting-report/internal/usecase"
)

var fixedNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		BaseURL:           srv.URL,
		APIKey:            apiKey,
		RequestsPerMinute: -1,
		SearchTeams:       []int64{57, 61},
		Now:               func() time.Time { return fixedNow },
	})
}

func TestSearchPlayers_MatchesSquadMembers(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "fd-key", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "fd-key" {
			t.Errorf("missing auth token")
		}
		switch r.URL.Path {
		case "/teams/57":
			_, _ = w.Write([]byte(`{"id": 57, "name": "Arsenal FC", "crest": "arsenal.png", "squad": [
				{"id": 7784, "name": "Bukayo Saka", "dateOfBirth": "2001-09-05", "nationality": "England"},
				{"id": 3, "name": "Declan Rice", "dateOfBirth": "1999-01-14", "nationality": "England"}
			]}`))
		default:
			_, _ = w.Write([]byte(`{"id": 61, "name": "Chelsea FC", "squad": []}`))
		}
	})

	got, err := client.SearchPlayers(context.Background(), "saka", 10)
	if err != nil {
		t.Fatalf("search players: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one match, got %+v", got)
	}
	p := got[0]
	if p.ID != "7784" || p.FirstName != "Bukayo" || p.LastName != "Saka" || p.Age != 24 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.CurrentTeam == nil || p.CurrentTeam.Name != "Arsenal FC" {
		t.Fatalf("expected squad team, got %+v", p.CurrentTeam)
	}
}

func TestSearchPlayers_RateLimitPropagates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "" {
			t.Errorf("no token expected without key")
		}
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := client.SearchPlayers(context.Background(), "saka", 10); !errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
}

func TestGetPlayer_NotFoundIsMissing(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, found, err := client.GetPlayer(context.Background(), "99")
	if err != nil || found {
		t.Fatalf("expected not found without error, got found=%v err=%v", found, err)
	}
}

func TestGetPlayer_ReadsPerson(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/persons/44" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id": 44, "name": "Cole Palmer", "firstName": "Cole", "lastName": "Palmer",
			"dateOfBirth": "2002-05-06", "nationality": "England",
			"currentTeam": {"id": 61, "name": "Chelsea FC", "crest": "chelsea.png"}}`))
	})

	p, found, err := client.GetPlayer(context.Background(), "44")
	if err != nil || !found {
		t.Fatalf("expected person, got found=%v err=%v", found, err)
	}
	if p.Age != 23 || p.CurrentTeam == nil || p.CurrentTeam.ID != 61 {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestSquadMatches(t *testing.T) {
	t.Parallel()

	if !squadMatches("Gabriel Martinelli", "martinelli") {
		t.Fatalf("surname should match")
	}
	if !squadMatches("Kai Havertz", "kai havertz junior") {
		t.Fatalf("query containing name should match")
	}
	if squadMatches("William Saliba", "odegaard") {
		t.Fatalf("unrelated name should not match")
	}
}

func TestAgeOn(t *testing.T) {
	t.Parallel()

	if got := ageOn("2000-03-02", fixedNow); got != 25 {
		t.Fatalf("birthday not yet reached, expected 25, got %d", got)
	}
	if got := ageOn("", fixedNow); got != 0 {
		t.Fatalf("unknown date should give 0, got %d", got)
	}
}
