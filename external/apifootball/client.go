package apifootball

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/scouting-report/external/upstream"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/platform/httpclient"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/platform/resilience"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

const (
	ProviderName       = "api-football"
	defaultBaseURL     = "https://v3.football.api-sports.io"
	defaultRatePerMin  = 10
	defaultSearchTeams = 3
	defaultSearchLimit = 10
)

// DefaultSearchTeams are Manchester United, Manchester City and Chelsea.
// The players endpoint only supports name search scoped to a team or league.
var DefaultSearchTeams = []int64{33, 50, 49}

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	SearchTeams       []int64
	// Season is used for statistics lookups that do not name one.
	Season         int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	http        *httpclient.Client
	baseURL     string
	apiKey      string
	host        string
	searchTeams []int64
	season      int
	logger      *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := baseURL
	if parsed, err := url.Parse(baseURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}

	rpm := cfg.RequestsPerMinute
	if rpm == 0 {
		rpm = defaultRatePerMin
	}

	teams := cfg.SearchTeams
	if len(teams) == 0 {
		teams = DefaultSearchTeams[:defaultSearchTeams]
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	return &Client{
		http: httpclient.New(httpclient.Config{
			Name:              ProviderName,
			HTTPClient:        cfg.HTTPClient,
			Timeout:           cfg.Timeout,
			MaxRetries:        cfg.MaxRetries,
			RequestsPerMinute: rpm,
			CircuitBreaker:    cfg.CircuitBreaker,
			Secrets:           []string{apiKey},
			Logger:            logger,
		}),
		baseURL:     baseURL,
		apiKey:      apiKey,
		host:        host,
		searchTeams: append([]int64(nil), teams...),
		season:      cfg.Season,
		logger:      logger,
	}
}

type envelope struct {
	Get        string           `json:"get"`
	Parameters any              `json:"parameters"`
	Errors     any              `json:"errors"`
	Results    int              `json:"results"`
	Paging     paging           `json:"paging"`
	Response   []map[string]any `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// fetch calls one endpoint and unwraps the response array. Errors reported
// inside a 200 body are translated: rate limits become ErrRateLimited and
// "team or league required" notices become an empty result.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]map[string]any, error) {
	fullURL := c.baseURL + endpoint
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	header := http.Header{}
	header.Set("x-apisports-key", c.apiKey)
	header.Set("x-rapidapi-key", c.apiKey)
	header.Set("x-rapidapi-host", c.host)

	var env envelope
	if _, err := c.http.GetJSON(ctx, fullURL, header, &env); err != nil {
		return nil, upstream.MapError(ProviderName, err)
	}

	switch errs := env.Errors.(type) {
	case map[string]any:
		if len(errs) == 0 {
			break
		}
		if msg, ok := firstPresent(errs, "rateLimit", "requests"); ok {
			return nil, fmt.Errorf("%w: %s: %s", usecase.ErrRateLimited, ProviderName, coerce.ToString(msg, "rate limit exceeded"))
		}
		if _, ok := firstPresent(errs, "team", "league"); ok {
			return nil, nil
		}
		if msg, ok := errs["token"]; ok {
			return nil, fmt.Errorf("%w: %s: %s", usecase.ErrDependencyUnavailable, ProviderName, coerce.ToString(msg, "invalid API key"))
		}
		return nil, fmt.Errorf("%s error: %s", ProviderName, joinErrors(errs))
	case []any:
		if len(errs) > 0 {
			parts := make([]string, 0, len(errs))
			for _, item := range errs {
				parts = append(parts, coerce.ToString(item, fmt.Sprint(item)))
			}
			return nil, fmt.Errorf("%s error: %s", ProviderName, strings.Join(parts, ", "))
		}
	}

	return env.Response, nil
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func joinErrors(errs map[string]any) string {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+coerce.ToString(errs[key], fmt.Sprint(errs[key])))
	}
	return strings.Join(parts, ", ")
}
