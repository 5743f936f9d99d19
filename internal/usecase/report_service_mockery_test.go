package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	playermock "github.com/riskibarqy/scouting-report/internal/mocks/domain/player"
	"github.com/stretchr/testify/mock"
)

type fakeRenderer struct {
	rendered []string
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, report scouting.Report) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, report.Profile.Name)
	return []byte("%PDF-1.3 fake"), nil
}

func newMockProvider(t *testing.T, name string) *playermock.Provider {
	t.Helper()

	provider := playermock.NewProvider(t)
	provider.On("Name").Return(name).Maybe()
	provider.On("Available").Return(true).Maybe()
	return provider
}

func testReportConfig() ReportServiceConfig {
	return ReportServiceConfig{
		Season:       2024,
		CacheEnabled: true,
		CacheTTL:     time.Minute,
		Options: scouting.Options{
			Now: func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
		},
	}
}

func TestReportService_BuildReport_UsingMockery(t *testing.T) {
	t.Parallel()

	provider := newMockProvider(t, "api-football")
	service := NewReportService(NewProviderManager(nil, provider), &fakeRenderer{}, testReportConfig())

	provider.
		On("GetPlayer", mock.Anything, "7").
		Return(player.Profile{ID: "7", Name: "Bukayo Saka", Age: 24}, true, nil).
		Once()
	provider.
		On("GetStatistics", mock.Anything, "7", 2024).
		Return([]player.Record{{
			"team":   map[string]any{"id": 42, "name": "Arsenal", "logo": "ars.png"},
			"league": map[string]any{"season": 2024, "name": "Premier League", "country": "England"},
			"games":  map[string]any{"appearences": 30, "position": "RW", "rating": "7.6"},
			"goals":  map[string]any{"total": 12, "assists": 9},
		}}, nil).
		Once()
	provider.
		On("GetTransfers", mock.Anything, "7").
		Return(nil, errors.New("transfers endpoint down")).
		Once()
	provider.
		On("GetInjuries", mock.Anything, "7").
		Return([]player.Record{{"from": "2024-01-01", "reason": "Knock"}}, nil).
		Once()
	provider.
		On("GetChartFields", mock.Anything, "7").
		Return(player.Record{"Performance Data JSON": `{"radarChartMetrics": {"Pace": 88}}`}, nil).
		Once()

	got, err := service.BuildReport(context.Background(), "api-football", "7")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if got.Statistics.TotalGames != 30 || got.Statistics.AverageRating != 7.6 {
		t.Fatalf("unexpected totals %+v", got.Statistics)
	}
	if got.Profile.CurrentTeam == nil || got.Profile.CurrentTeam.Name != "Arsenal" || got.Profile.CurrentTeam.ID != 42 {
		t.Fatalf("expected team from first statistics row, got %+v", got.Profile.CurrentTeam)
	}
	if len(got.Transfers) != 0 {
		t.Fatalf("failed transfers should degrade to empty, got %+v", got.Transfers)
	}
	if len(got.Injuries) != 1 || got.Injuries[0].Injury != "Knock" {
		t.Fatalf("unexpected injuries %+v", got.Injuries)
	}
	if got.ChartData == nil || got.ChartData.RadarChartMetrics["Pace"] == nil {
		t.Fatalf("expected radar chart data, got %+v", got.ChartData)
	}

	// Cached by source and id: no further provider calls are expected.
	if _, err := service.BuildReport(context.Background(), "api-football", "7"); err != nil {
		t.Fatalf("cached build report: %v", err)
	}
}

func TestReportService_BuildReport_StatisticsErrorPropagates(t *testing.T) {
	t.Parallel()

	provider := newMockProvider(t, "api-football")
	service := NewReportService(NewProviderManager(nil, provider), nil, ReportServiceConfig{})

	provider.On("GetPlayer", mock.Anything, "7").Return(player.Profile{ID: "7", Name: "X"}, true, nil).Once()
	provider.On("GetStatistics", mock.Anything, "7", 0).Return(nil, ErrRateLimited).Once()
	provider.On("GetTransfers", mock.Anything, "7").Return([]player.Record{}, nil).Maybe()
	provider.On("GetInjuries", mock.Anything, "7").Return([]player.Record{}, nil).Maybe()
	provider.On("GetChartFields", mock.Anything, "7").Return(nil, nil).Maybe()

	if _, err := service.BuildReport(context.Background(), "api-football", "7"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected statistics error, got %v", err)
	}
}

func TestReportService_BuildReport_NotFoundAndUnknownSource(t *testing.T) {
	t.Parallel()

	provider := newMockProvider(t, "api-football")
	service := NewReportService(NewProviderManager(nil, provider), nil, ReportServiceConfig{})

	provider.On("GetPlayer", mock.Anything, "404").Return(player.Profile{}, false, nil).Once()

	if _, err := service.BuildReport(context.Background(), "api-football", "404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.BuildReport(context.Background(), "nope", "1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown source, got %v", err)
	}
	if _, err := service.BuildReport(context.Background(), "", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}

func TestReportService_Search_ValidatesAndCaches(t *testing.T) {
	t.Parallel()

	provider := newMockProvider(t, "api-football")
	service := NewReportService(NewProviderManager(nil, provider), nil, testReportConfig())

	provider.
		On("SearchPlayers", mock.Anything, "Saka", 10).
		Return([]player.Profile{{ID: "7", Name: "Bukayo Saka", Source: "api-football"}}, nil).
		Once()

	for range 2 {
		got, err := service.Search(context.Background(), " Saka ", 0)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(got) != 1 || got[0].Source != "api-football" {
			t.Fatalf("unexpected search result %+v", got)
		}
	}

	if _, err := service.Search(context.Background(), "  ", 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := service.Search(context.Background(), "Saka", 51); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for large limit, got %v", err)
	}
}

func TestReportService_RenderPDF(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{}
	service := NewReportService(NewProviderManager(nil), renderer, ReportServiceConfig{})

	doc, err := service.RenderPDF(context.Background(), scouting.Report{Profile: scouting.ProfileSummary{Name: "Bukayo  Saka"}})
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if doc.FileName != "player-report-Bukayo-Saka.pdf" || doc.ContentType != "application/pdf" {
		t.Fatalf("unexpected document %+v", doc)
	}

	renderer.err = errors.New("font missing")
	if _, err := service.RenderPDF(context.Background(), scouting.Report{}); err == nil {
		t.Fatalf("expected render error")
	}

	noRenderer := NewReportService(NewProviderManager(nil), nil, ReportServiceConfig{})
	if _, err := noRenderer.RenderPDF(context.Background(), scouting.Report{}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestReportService_BuildReport_PinnedSourceBecomesCurrent(t *testing.T) {
	t.Parallel()

	first := &stubProvider{name: "a", available: true}
	pinned := &stubProvider{name: "b", available: true, profiles: []player.Profile{{ID: "7", Name: "Declan Rice"}}}
	offline := &stubProvider{name: "c", available: false}
	service := NewReportService(NewProviderManager(nil, first, pinned, offline), nil, ReportServiceConfig{})

	status := service.Providers()
	if status.Current != "a" || len(status.Available) != 2 || status.Available[1] != "b" {
		t.Fatalf("unexpected provider status %+v", status)
	}

	report, err := service.BuildReport(context.Background(), "b", "7")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Profile.Name != "Declan Rice" {
		t.Fatalf("unexpected profile %+v", report.Profile)
	}
	if got := service.Providers().Current; got != "b" {
		t.Fatalf("expected pinned provider to become current, got %s", got)
	}

	// The next unpinned lookup starts from the pinned provider.
	first.calls = 0
	if _, err := service.BuildReport(context.Background(), "", "7"); err != nil {
		t.Fatalf("unpinned build report: %v", err)
	}
	if first.calls != 0 {
		t.Fatalf("expected current provider to answer first, provider a was called %d times", first.calls)
	}
}

func TestReportService_BuildReport_RejectsUnusableProfile(t *testing.T) {
	t.Parallel()

	first := &stubProvider{name: "a", available: true, profiles: []player.Profile{{ID: "9", Name: "Keeper"}}}
	nameless := &stubProvider{name: "b", available: true, profiles: []player.Profile{{ID: "7"}}}
	service := NewReportService(NewProviderManager(nil, first, nameless), nil, ReportServiceConfig{})

	if _, err := service.BuildReport(context.Background(), "b", "7"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("pinned source: expected ErrDependencyUnavailable, got %v", err)
	}
	if got := service.Providers().Current; got != "a" {
		t.Fatalf("an unusable pinned answer must not switch providers, current is %s", got)
	}
	if _, err := service.BuildReport(context.Background(), "", "7"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("unpinned lookup: expected ErrDependencyUnavailable, got %v", err)
	}
}
