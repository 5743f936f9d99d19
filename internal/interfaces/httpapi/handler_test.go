package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	"github.com/riskibarqy/scouting-report/internal/infrastructure/render"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

type stubProvider struct {
	name      string
	profiles  []player.Profile
	searchErr error
	stats     []player.Record
	fields    player.Record
}

func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Available() bool { return true }

func (s *stubProvider) SearchPlayers(context.Context, string, int) ([]player.Profile, error) {
	return s.profiles, s.searchErr
}

func (s *stubProvider) GetPlayer(_ context.Context, playerID string) (player.Profile, bool, error) {
	for _, p := range s.profiles {
		if p.ID == playerID {
			return p, true, nil
		}
	}
	return player.Profile{}, false, nil
}

func (s *stubProvider) GetStatistics(context.Context, string, int) ([]player.Record, error) {
	return s.stats, nil
}

func (s *stubProvider) GetTransfers(context.Context, string) ([]player.Record, error) {
	return []player.Record{{"date": "2019-07-01", "type": "Free", "teams": map[string]any{"out": map[string]any{"name": "Youth"}, "in": map[string]any{"name": "Arsenal"}}}}, nil
}

func (s *stubProvider) GetInjuries(context.Context, string) ([]player.Record, error) {
	return nil, nil
}

func (s *stubProvider) GetChartFields(context.Context, string) (player.Record, error) {
	return s.fields, nil
}

func newTestRouter(t *testing.T, provider player.Provider) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	manager := usecase.NewProviderManager(logger, provider)
	service := usecase.NewReportService(manager, render.NewPDFRenderer(logger), usecase.ReportServiceConfig{
		Logger: logger,
		Options: scouting.Options{
			Now: func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
		},
	})
	return NewRouter(NewHandler(service, logger), logger, true, []string{"*"})
}

func sampleProvider() *stubProvider {
	return &stubProvider{
		name: "api-football",
		profiles: []player.Profile{
			{ID: "7", Source: "api-football", Name: "Bukayo Saka", Age: 24, Nationality: "England"},
		},
		stats: []player.Record{{
			"team":   map[string]any{"id": 42, "name": "Arsenal"},
			"league": map[string]any{"season": 2024, "name": "Premier League", "country": "England"},
			"games":  map[string]any{"appearences": 30, "minutes": 2500, "position": "Attacker", "rating": "7.4"},
			"goals":  map[string]any{"total": 12, "assists": 9},
		}},
		fields: player.Record{"Performance Data JSON": `{"radarChartMetrics": {"Pace": 88}}`},
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
	}
	return body
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected health body %s", rec.Body.String())
	}
	providers, _ := data["providers"].(map[string]any)
	available, _ := providers["available"].([]any)
	if providers["current"] != "api-football" || len(available) != 1 || available[0] != "api-football" {
		t.Fatalf("unexpected provider status %v", providers)
	}
}

func TestSearchPlayers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/search?name=saka&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, ok := decodeEnvelope(t, rec)["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one search result, got %v", data)
	}
	first := data[0].(map[string]any)
	if first["id"] != "7" || first["source"] != "api-football" {
		t.Fatalf("unexpected search result %v", first)
	}
}

func TestSuggestPlayers(t *testing.T) {
	t.Parallel()

	// The stub answers every name with the same player, so it is listed once.
	router := newTestRouter(t, sampleProvider())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/suggest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	players, _ := data["players"].([]any)
	if data["source"] != "provider" || len(players) != 1 || players[0] != "Bukayo Saka" {
		t.Fatalf("unexpected suggestions %v", data)
	}
	if _, ok := data["note"]; ok {
		t.Fatalf("verified suggestions carry no note: %v", data)
	}
}

func TestSuggestPlayers_StaticFallback(t *testing.T) {
	t.Parallel()

	provider := sampleProvider()
	provider.searchErr = fmt.Errorf("upstream down")
	router := newTestRouter(t, provider)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/suggest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	players, _ := data["players"].([]any)
	note, _ := data["note"].(string)
	if data["source"] != "static" || len(players) != 5 || players[0] != "Lionel Messi" || note == "" {
		t.Fatalf("unexpected static suggestions %v", data)
	}
}

func TestSearchPlayers_InvalidInput(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	for _, target := range []string{
		"/v1/players/search",
		"/v1/players/search?name=saka&limit=abc",
		"/v1/players/search?name=saka&limit=51",
		"/v1/players/search?name=saka&limit=-1",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestSearchPlayers_RateLimited(t *testing.T) {
	t.Parallel()

	provider := sampleProvider()
	provider.searchErr = fmt.Errorf("%w: api-football: quota", usecase.ErrRateLimited)
	router := newTestRouter(t, provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/search?name=saka", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	errObj := decodeEnvelope(t, rec)["error"].(map[string]any)
	if errObj["status"] != "RESOURCE_EXHAUSTED" {
		t.Fatalf("unexpected error status %v", errObj["status"])
	}
}

func TestGetPlayerReport(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/7/report?source=api-football", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	profile := data["profile"].(map[string]any)
	if profile["name"] != "Bukayo Saka" {
		t.Fatalf("unexpected profile %v", profile)
	}
	team, ok := profile["currentTeam"].(map[string]any)
	if !ok || team["name"] != "Arsenal" {
		t.Fatalf("expected current team from statistics, got %v", profile["currentTeam"])
	}
	stats := data["statistics"].(map[string]any)
	if stats["totalGames"] != float64(30) {
		t.Fatalf("unexpected totals %v", stats)
	}
	if _, ok := data["chartData"].(map[string]any); !ok {
		t.Fatalf("expected chart data attached")
	}
}

func TestGetPlayerReport_Errors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	tests := []struct {
		target string
		want   int
	}{
		{target: "/v1/players/99/report?source=api-football", want: http.StatusNotFound},
		{target: "/v1/players/99/report", want: http.StatusNotFound},
		{target: "/v1/players/7/report?source=nowhere", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		if rec.Code != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.target, tt.want, rec.Code)
		}
	}
}

func TestGetPlayerReportPDF(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/7/report.pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=player-report-Bukayo-Saka.pdf` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a PDF body")
	}
}

func TestRenderReportPDF(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	body := `{"data": {"profile": {"name": "Jude Bellingham", "age": 22}, "statistics": {"totalGames": 40}}}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reports/pdf", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "player-report-Jude-Bellingham.pdf") {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestRenderReportPDF_Validation(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	for _, body := range []string{
		``,
		`not json`,
		`{}`,
		`{"data": {"profile": {"name": "  "}}}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/reports/pdf", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestExtractChartData(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	body := `{"Name": "X", "Performance Data JSON": "{\"advancedStats\": {\"xG\": 0.4}}"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chart-data/extract", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["usedField"] != "Performance Data JSON" {
		t.Fatalf("unexpected used field %v", data["usedField"])
	}
	chart := data["chartData"].(map[string]any)
	advanced := chart["advancedStats"].(map[string]any)
	if advanced["xG"] != 0.4 {
		t.Fatalf("unexpected advanced stats %v", advanced)
	}
}

func TestExtractChartData_NoPerformanceField(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chart-data/extract", strings.NewReader(`{"Name": "X"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["chartData"] != nil || data["usedField"] != nil {
		t.Fatalf("expected null chart data and field, got %v", data)
	}
}

func TestOpenAPIServed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, sampleProvider())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/players/search") {
		t.Fatalf("expected openapi document, got %d", rec.Code)
	}
}
