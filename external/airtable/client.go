package airtable

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/scouting-report/external/upstream"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/cache"
	"github.com/riskibarqy/scouting-report/internal/platform/httpclient"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/platform/resilience"
)

const (
	ProviderName       = "airtable"
	defaultBaseURL     = "https://api.airtable.com/v0"
	defaultSearchLimit = 10
	defaultRecordTTL   = 30 * time.Second
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	BaseID         string
	TableID        string
	Timeout        time.Duration
	MaxRetries     int
	RecordTTL      time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
}

// Client reads the scouting table. One report asks for the same record
// four times, so records are cached briefly.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	baseID  string
	tableID string
	records *cache.Store[record]
	logger  *logging.Logger
	now     func() time.Time
}

var _ player.Provider = (*Client)(nil)

type record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type listResponse struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset"`
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
	ttl := cfg.RecordTTL
	if ttl == 0 {
		ttl = defaultRecordTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	return &Client{
		http: httpclient.New(httpclient.Config{
			Name:           ProviderName,
			HTTPClient:     cfg.HTTPClient,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			CircuitBreaker: cfg.CircuitBreaker,
			Secrets:        []string{apiKey},
			Logger:         logger,
		}),
		baseURL: baseURL,
		apiKey:  apiKey,
		baseID:  strings.TrimSpace(cfg.BaseID),
		tableID: strings.TrimSpace(cfg.TableID),
		records: cache.NewStore[record](ttl),
		logger:  logger,
		now:     now,
	}
}

func (c *Client) tableURL() string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(c.tableID)
}

func (c *Client) get(ctx context.Context, rawURL string, target any) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)
	if _, err := c.http.GetJSON(ctx, rawURL, header, target); err != nil {
		return upstream.MapError(ProviderName, err)
	}
	return nil
}

func (c *Client) search(ctx context.Context, term string, limit int) ([]record, error) {
	params := url.Values{}
	params.Set("maxRecords", strconv.Itoa(limit))
	params.Set("filterByFormula", searchFormula(term))

	var out listResponse
	if err := c.get(ctx, c.tableURL()+"?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// fetchRecord returns the record or nil when the table has no such id.
func (c *Client) fetchRecord(ctx context.Context, recordID string) (*record, error) {
	rec, err := c.records.GetOrLoad(ctx, recordID, func(ctx context.Context) (record, error) {
		var rec record
		if err := c.get(ctx, c.tableURL()+"/"+url.PathEscape(recordID), &rec); err != nil {
			return record{}, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return &rec, nil
}

var formulaEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func searchFormula(term string) string {
	quoted := `"` + formulaEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + `"`
	return "OR(" +
		"SEARCH(" + quoted + ", LOWER({Player Name}))," +
		"SEARCH(" + quoted + ", LOWER({First Name}))," +
		"SEARCH(" + quoted + ", LOWER({Last Name}))" +
		")"
}
