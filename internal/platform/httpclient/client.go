package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/platform/resilience"
)

const (
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 6 << 20
	maxRetryAfter    = 10 * time.Second
	bodyPreviewLen   = 240
)

// ErrTransient marks failures worth retrying and counting against the
// circuit breaker: transport errors, 429 and 5xx responses.
var ErrTransient = crerr.New("provider transient failure")

var sensitiveParams = []string{"api_token", "api_key", "apikey", "key", "token"}

// StatusError is a non-2xx provider response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}

// StatusCode extracts the provider status from err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

type Config struct {
	// Name labels logs and errors ("api-football").
	Name              string
	HTTPClient        *http.Client
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	CircuitBreaker    resilience.CircuitBreakerConfig
	// Secrets are redacted from logged URLs and error messages.
	Secrets []string
	Logger  *logging.Logger
	// Backoff overrides the linear one-second-per-attempt wait.
	Backoff func(attempt int) time.Duration
}

// Client performs JSON GET requests against one provider with retries,
// a request quota, a circuit breaker and in-flight deduplication.
type Client struct {
	name       string
	httpClient *http.Client
	maxRetries int
	throttle   *resilience.Throttle
	breaker    *resilience.CircuitBreaker
	secrets    []string
	logger     *logging.Logger
	backoff    func(attempt int) time.Duration
	flight     resilience.SingleFlight[[]byte]
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	backoff := cfg.Backoff
	if backoff == nil {
		backoff = func(attempt int) time.Duration { return time.Duration(attempt+1) * time.Second }
	}

	secrets := make([]string, 0, len(cfg.Secrets))
	for _, secret := range cfg.Secrets {
		if secret = strings.TrimSpace(secret); secret != "" {
			secrets = append(secrets, secret)
		}
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "provider"
	}

	return &Client{
		name:       name,
		httpClient: httpClient,
		maxRetries: max(cfg.MaxRetries, 0),
		throttle:   resilience.NewThrottle(cfg.RequestsPerMinute),
		breaker:    cfg.CircuitBreaker.Build(),
		secrets:    secrets,
		logger:     logger.With("provider", name),
		backoff:    backoff,
	}
}

// GetJSON fetches rawURL and decodes the body into target. The raw body is
// returned alongside for callers that keep the original payload.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, target any) ([]byte, error) {
	var raw []byte
	err := c.breaker.Execute(func() error {
		var reqErr error
		raw, reqErr, _ = c.flight.Do(rawURL, func() ([]byte, error) {
			return c.executeRequest(ctx, rawURL, header)
		})
		return reqErr
	}, isBreakerFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "url", c.redactURL(rawURL))
			return nil, crerr.Wrapf(err, "%s request rejected", c.name)
		}
		return nil, err
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", c.name, err)
		}
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for %s quota: %w", c.name, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		for key, values := range header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		var retryAfter time.Duration
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", ErrTransient, c.sanitize(err.Error()))
		} else {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", ErrTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return body, nil
			default:
				statusErr := &StatusError{Provider: c.name, StatusCode: resp.StatusCode, Body: c.sanitize(abbreviateBody(body))}
				if !isRetryableStatus(resp.StatusCode) {
					return nil, statusErr
				}
				lastErr = fmt.Errorf("%w: %w", ErrTransient, statusErr)
				retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		wait := max(c.backoff(attempt), retryAfter)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%s request failed", c.name)
	}
	c.logger.WarnContext(ctx, "provider request failed", "url", c.redactURL(rawURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	for _, secret := range c.secrets {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

func (c *Client) redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return c.sanitize(rawURL)
	}
	query := parsed.Query()
	for _, param := range sensitiveParams {
		if query.Has(param) {
			query.Set(param, "REDACTED")
		}
	}
	parsed.RawQuery = query.Encode()
	return c.sanitize(parsed.String())
}

func isBreakerFailure(err error) bool {
	return stderrors.Is(err, ErrTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return min(time.Duration(seconds)*time.Second, maxRetryAfter)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= bodyPreviewLen {
		return text
	}
	return text[:bodyPreviewLen] + "..."
}
