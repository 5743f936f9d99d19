package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/scouting-report/external/airtable"
	"github.com/riskibarqy/scouting-report/external/apifootball"
	"github.com/riskibarqy/scouting-report/external/footballdata"
	"github.com/riskibarqy/scouting-report/internal/config"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	"github.com/riskibarqy/scouting-report/internal/infrastructure/render"
	"github.com/riskibarqy/scouting-report/internal/interfaces/httpapi"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

// NewProviders builds the player providers in cfg.ProviderOrder.
func NewProviders(cfg config.Config, logger *logging.Logger) ([]player.Provider, error) {
	providers := make([]player.Provider, 0, len(cfg.ProviderOrder))
	for _, name := range cfg.ProviderOrder {
		providerLogger := logger.With("provider", name)
		switch name {
		case config.ProviderAirtable:
			providers = append(providers, airtable.NewClient(airtable.ClientConfig{
				BaseURL:        cfg.Airtable.BaseURL,
				APIKey:         cfg.Airtable.APIKey,
				BaseID:         cfg.Airtable.BaseID,
				TableID:        cfg.Airtable.TableID,
				Timeout:        cfg.Airtable.Timeout,
				RecordTTL:      cfg.Airtable.RecordTTL,
				Logger:         providerLogger,
				CircuitBreaker: cfg.CircuitBreaker,
			}))
		case config.ProviderAPIFootball:
			providers = append(providers, apifootball.NewClient(apifootball.ClientConfig{
				BaseURL:           cfg.APIFootball.BaseURL,
				APIKey:            cfg.APIFootball.APIKey,
				Timeout:           cfg.APIFootball.Timeout,
				MaxRetries:        cfg.APIFootball.MaxRetries,
				RequestsPerMinute: cfg.APIFootball.RequestsPerMinute,
				SearchTeams:       cfg.APIFootball.SearchTeams,
				Season:            cfg.APIFootball.Season,
				Logger:            providerLogger,
				CircuitBreaker:    cfg.CircuitBreaker,
			}))
		case config.ProviderFootballData:
			providers = append(providers, footballdata.NewClient(footballdata.ClientConfig{
				BaseURL:           cfg.FootballData.BaseURL,
				APIKey:            cfg.FootballData.APIKey,
				Timeout:           cfg.FootballData.Timeout,
				MaxRetries:        cfg.FootballData.MaxRetries,
				RequestsPerMinute: cfg.FootballData.RequestsPerMinute,
				SearchTeams:       cfg.FootballData.SearchTeams,
				Logger:            providerLogger,
				CircuitBreaker:    cfg.CircuitBreaker,
			}))
		default:
			return nil, fmt.Errorf("unknown provider %q", name)
		}
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}
	return providers, nil
}

// NewReportService wires providers, the PDF renderer and the report cache.
func NewReportService(cfg config.Config, logger *logging.Logger) (*usecase.ReportService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	providers, err := NewProviders(cfg, logger)
	if err != nil {
		return nil, err
	}

	manager := usecase.NewProviderManager(logger, providers...)
	return usecase.NewReportService(manager, render.NewPDFRenderer(logger), usecase.ReportServiceConfig{
		Options:      scouting.Options{Fallback: coerce.ParseFallback(cfg.StrictFallback)},
		Season:       cfg.ReportSeason,
		CacheEnabled: cfg.CacheEnabled,
		CacheTTL:     cfg.CacheTTL,
		Logger:       logger,
	}), nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	reportSvc, err := NewReportService(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(reportSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
