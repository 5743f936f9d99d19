package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/platform/resilience"
)

const (
	ProviderAirtable     = "airtable"
	ProviderAPIFootball  = "api-football"
	ProviderFootballData = "football-data"
)

// Config stores runtime configuration for the service and the CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	CacheEnabled       bool
	CacheTTL           time.Duration

	// ProviderOrder lists provider names in fallback order.
	ProviderOrder []string
	// StrictFallback keeps explicit zeros in numeric alias chains instead of
	// letting them fall through to the next alias.
	StrictFallback bool
	// ReportSeason is passed to statistics lookups; 0 lets each provider pick.
	ReportSeason   int
	CircuitBreaker resilience.CircuitBreakerConfig

	APIFootball  APIFootballConfig
	FootballData FootballDataConfig
	Airtable     AirtableConfig

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	PprofEnabled           bool
	PprofAddr              string
}

type APIFootballConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	Season            int
	SearchTeams       []int64
}

type FootballDataConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	SearchTeams       []int64
}

type AirtableConfig struct {
	APIKey    string
	BaseID    string
	TableID   string
	BaseURL   string
	Timeout   time.Duration
	RecordTTL time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "60s")
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", "5m")
	if err != nil {
		return Config{}, err
	}

	providerOrder, err := parseProviderOrder(getEnv("PROVIDER_ORDER", ProviderAirtable+","+ProviderAPIFootball+","+ProviderFootballData))
	if err != nil {
		return Config{}, err
	}
	strictFallback, err := strconv.ParseBool(getEnv("STRICT_FALLBACK", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STRICT_FALLBACK: %w", err)
	}

	circuit, err := loadCircuitBreaker()
	if err != nil {
		return Config{}, err
	}
	apiFootball, err := loadAPIFootball()
	if err != nil {
		return Config{}, err
	}
	footballData, err := loadFootballData()
	if err != nil {
		return Config{}, err
	}
	airtable, err := loadAirtable()
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "scouting-report-api"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:               getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:            readTimeout,
		WriteTimeout:           writeTimeout,
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:         swaggerEnabled,
		CacheEnabled:           cacheEnabled,
		CacheTTL:               cacheTTL,
		ProviderOrder:          providerOrder,
		StrictFallback:         strictFallback,
		ReportSeason:           apiFootball.Season,
		CircuitBreaker:         circuit,
		APIFootball:            apiFootball,
		FootballData:           footballData,
		Airtable:               airtable,
		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
		PprofEnabled:           pprofEnabled,
		PprofAddr:              getEnv("PPROF_ADDR", "127.0.0.1:6060"),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func loadCircuitBreaker() (resilience.CircuitBreakerConfig, error) {
	enabled, err := strconv.ParseBool(getEnv("PROVIDER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse PROVIDER_CIRCUIT_ENABLED: %w", err)
	}
	failureCount, err := getEnvAsInt("PROVIDER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse PROVIDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if failureCount < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("PROVIDER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	openTimeout, err := getEnvAsDuration("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	halfOpenMaxReq, err := getEnvAsInt("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if halfOpenMaxReq < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}, nil
}

func loadAPIFootball() (APIFootballConfig, error) {
	timeout, err := getEnvAsDuration("API_FOOTBALL_TIMEOUT", "15s")
	if err != nil {
		return APIFootballConfig{}, err
	}
	maxRetries, err := getEnvAsInt("API_FOOTBALL_MAX_RETRIES", 1)
	if err != nil {
		return APIFootballConfig{}, fmt.Errorf("parse API_FOOTBALL_MAX_RETRIES: %w", err)
	}
	if maxRetries < 0 {
		return APIFootballConfig{}, fmt.Errorf("API_FOOTBALL_MAX_RETRIES must be >= 0")
	}
	perMinute, err := getEnvAsInt("API_FOOTBALL_REQUESTS_PER_MINUTE", 10)
	if err != nil {
		return APIFootballConfig{}, fmt.Errorf("parse API_FOOTBALL_REQUESTS_PER_MINUTE: %w", err)
	}
	if perMinute < 1 {
		return APIFootballConfig{}, fmt.Errorf("API_FOOTBALL_REQUESTS_PER_MINUTE must be >= 1")
	}
	season, err := getEnvAsInt("API_FOOTBALL_SEASON", 0)
	if err != nil {
		return APIFootballConfig{}, fmt.Errorf("parse API_FOOTBALL_SEASON: %w", err)
	}
	if season < 0 {
		return APIFootballConfig{}, fmt.Errorf("API_FOOTBALL_SEASON must be >= 0")
	}
	teams, err := parseIDList(getEnv("API_FOOTBALL_SEARCH_TEAMS", "33,50,49"))
	if err != nil {
		return APIFootballConfig{}, fmt.Errorf("parse API_FOOTBALL_SEARCH_TEAMS: %w", err)
	}

	return APIFootballConfig{
		APIKey:            strings.TrimSpace(getEnv("API_FOOTBALL_KEY", "")),
		BaseURL:           strings.TrimSpace(getEnv("API_FOOTBALL_BASE_URL", "https://v3.football.api-sports.io")),
		Timeout:           timeout,
		MaxRetries:        maxRetries,
		RequestsPerMinute: perMinute,
		Season:            season,
		SearchTeams:       teams,
	}, nil
}

func loadFootballData() (FootballDataConfig, error) {
	timeout, err := getEnvAsDuration("FOOTBALL_DATA_TIMEOUT", "15s")
	if err != nil {
		return FootballDataConfig{}, err
	}
	maxRetries, err := getEnvAsInt("FOOTBALL_DATA_MAX_RETRIES", 1)
	if err != nil {
		return FootballDataConfig{}, fmt.Errorf("parse FOOTBALL_DATA_MAX_RETRIES: %w", err)
	}
	if maxRetries < 0 {
		return FootballDataConfig{}, fmt.Errorf("FOOTBALL_DATA_MAX_RETRIES must be >= 0")
	}
	perMinute, err := getEnvAsInt("FOOTBALL_DATA_REQUESTS_PER_MINUTE", 10)
	if err != nil {
		return FootballDataConfig{}, fmt.Errorf("parse FOOTBALL_DATA_REQUESTS_PER_MINUTE: %w", err)
	}
	if perMinute < 1 {
		return FootballDataConfig{}, fmt.Errorf("FOOTBALL_DATA_REQUESTS_PER_MINUTE must be >= 1")
	}
	teams, err := parseIDList(getEnv("FOOTBALL_DATA_SEARCH_TEAMS", "57,61,64"))
	if err != nil {
		return FootballDataConfig{}, fmt.Errorf("parse FOOTBALL_DATA_SEARCH_TEAMS: %w", err)
	}

	return FootballDataConfig{
		APIKey:            strings.TrimSpace(getEnv("FOOTBALL_DATA_KEY", "")),
		BaseURL:           strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4")),
		Timeout:           timeout,
		MaxRetries:        maxRetries,
		RequestsPerMinute: perMinute,
		SearchTeams:       teams,
	}, nil
}

func loadAirtable() (AirtableConfig, error) {
	timeout, err := getEnvAsDuration("AIRTABLE_TIMEOUT", "15s")
	if err != nil {
		return AirtableConfig{}, err
	}
	recordTTL, err := getEnvAsDuration("AIRTABLE_RECORD_TTL", "30s")
	if err != nil {
		return AirtableConfig{}, err
	}

	return AirtableConfig{
		APIKey:    strings.TrimSpace(getEnv("AIRTABLE_API_KEY", "")),
		BaseID:    strings.TrimSpace(getEnv("AIRTABLE_BASE_ID", "")),
		TableID:   strings.TrimSpace(getEnv("AIRTABLE_TABLE_ID", "")),
		BaseURL:   strings.TrimSpace(getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0")),
		Timeout:   timeout,
		RecordTTL: recordTTL,
	}, nil
}

func parseProviderOrder(raw string) ([]string, error) {
	names := splitCSV(strings.ToLower(raw))
	if len(names) == 0 {
		return nil, fmt.Errorf("PROVIDER_ORDER cannot be empty")
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		switch name {
		case ProviderAirtable, ProviderAPIFootball, ProviderFootballData:
		default:
			return nil, fmt.Errorf("invalid PROVIDER_ORDER entry %q: valid values are %s, %s, %s",
				name, ProviderAirtable, ProviderAPIFootball, ProviderFootballData)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseIDList(raw string) ([]int64, error) {
	items := splitCSV(raw)
	out := make([]int64, 0, len(items))
	for _, item := range items {
		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number in item %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0 in item %q", item)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case "staging":
		return EnvStage, nil
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
