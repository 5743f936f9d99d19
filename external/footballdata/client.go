package footballdata

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/scouting-report/external/upstream"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/platform/httpclient"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/platform/resilience"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

const (
	ProviderName       = "football-data"
	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultRatePerMin  = 10
	defaultSearchLimit = 10
)

// DefaultSearchTeams are Arsenal, Chelsea and Liverpool. The API has no
// player search, so names are matched against these squads.
var DefaultSearchTeams = []int64{57, 61, 64}

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	SearchTeams       []int64
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
	// Now anchors age calculation; defaults to time.Now.
	Now func() time.Time
}

type Client struct {
	http        *httpclient.Client
	baseURL     string
	apiKey      string
	searchTeams []int64
	logger      *logging.Logger
	now         func() time.Time
}

var _ player.Provider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rpm := cfg.RequestsPerMinute
	if rpm == 0 {
		rpm = defaultRatePerMin
	}
	teams := cfg.SearchTeams
	if len(teams) == 0 {
		teams = DefaultSearchTeams
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
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
		searchTeams: append([]int64(nil), teams...),
		logger:      logger,
		now:         now,
	}
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("X-Auth-Token", c.apiKey)
	}
	if _, err := c.http.GetJSON(ctx, c.baseURL+path, header, target); err != nil {
		return upstream.MapError(ProviderName, err)
	}
	return nil
}

func (c *Client) Name() string { return ProviderName }

// Available is always true: anonymous access works with a lower quota.
func (c *Client) Available() bool { return true }

type teamResponse struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Crest string        `json:"crest"`
	Squad []squadMember `json:"squad"`
}

type squadMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Position    string `json:"position"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
}

type personResponse struct {
	squadMember
	CurrentTeam *struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Crest string `json:"crest"`
	} `json:"currentTeam"`
}

func (c *Client) SearchPlayers(ctx context.Context, name string, limit int) ([]player.Profile, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	seen := make(map[string]struct{})
	out := make([]player.Profile, 0, limit)
	for _, teamID := range c.searchTeams {
		var team teamResponse
		if err := c.get(ctx, "/teams/"+strconv.FormatInt(teamID, 10), &team); err != nil {
			if stderrors.Is(err, usecase.ErrRateLimited) || ctx.Err() != nil {
				return nil, err
			}
			c.logger.WarnContext(ctx, "football-data squad lookup failed", "team_id", teamID, "error", err)
			continue
		}

		current := &player.Team{ID: team.ID, Name: team.Name, Logo: team.Crest}
		for _, member := range team.Squad {
			if member.ID <= 0 || !squadMatches(member.Name, query) {
				continue
			}
			profile := c.profileFromMember(member)
			if _, dup := seen[profile.ID]; dup {
				continue
			}
			seen[profile.ID] = struct{}{}
			teamCopy := *current
			profile.CurrentTeam = &teamCopy
			out = append(out, profile)
		}
		if len(out) >= limit {
			break
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetPlayer reads /persons/{id}.
func (c *Client) GetPlayer(ctx context.Context, playerID string) (player.Profile, bool, error) {
	if _, err := upstream.NumericID(playerID); err != nil {
		return player.Profile{}, false, err
	}

	var person personResponse
	if err := c.get(ctx, "/persons/"+playerID, &person); err != nil {
		if stderrors.Is(err, usecase.ErrNotFound) {
			return player.Profile{}, false, nil
		}
		return player.Profile{}, false, err
	}
	if person.ID <= 0 {
		return player.Profile{}, false, nil
	}

	profile := c.profileFromMember(person.squadMember)
	if person.CurrentTeam != nil && person.CurrentTeam.Name != "" {
		profile.CurrentTeam = &player.Team{ID: person.CurrentTeam.ID, Name: person.CurrentTeam.Name, Logo: person.CurrentTeam.Crest}
	}
	return profile, true, nil
}

// The free tier exposes no statistics, transfers, injuries or charts.

func (c *Client) GetStatistics(context.Context, string, int) ([]player.Record, error) {
	return []player.Record{}, nil
}

func (c *Client) GetTransfers(context.Context, string) ([]player.Record, error) {
	return []player.Record{}, nil
}

func (c *Client) GetInjuries(context.Context, string) ([]player.Record, error) {
	return []player.Record{}, nil
}

func (c *Client) GetChartFields(context.Context, string) (player.Record, error) {
	return nil, nil
}

func (c *Client) profileFromMember(member squadMember) player.Profile {
	first, last := member.FirstName, member.LastName
	if first == "" && last == "" {
		parts := strings.Fields(member.Name)
		if len(parts) > 0 {
			first = parts[0]
			last = strings.Join(parts[1:], " ")
		}
	}

	return player.Profile{
		ID:          strconv.FormatInt(member.ID, 10),
		Source:      ProviderName,
		Name:        member.Name,
		FirstName:   first,
		LastName:    last,
		Age:         ageOn(member.DateOfBirth, c.now()),
		Birth:       player.Birth{Date: member.DateOfBirth, Country: member.Nationality},
		Nationality: member.Nationality,
	}
}

func squadMatches(playerName, query string) bool {
	name := strings.ToLower(playerName)
	if name == "" {
		return false
	}
	if strings.Contains(name, query) || strings.Contains(query, name) {
		return true
	}
	for _, part := range strings.Fields(name) {
		if strings.Contains(part, query) {
			return true
		}
	}
	for _, part := range strings.Fields(query) {
		if strings.Contains(name, part) {
			return true
		}
	}
	return false
}

// ageOn returns completed years between the birth date and now, or 0 when
// the date is unknown.
func ageOn(dateOfBirth string, now time.Time) int {
	born, ok := coerce.ParseDate(dateOfBirth)
	if !ok {
		return 0
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return max(age, 0)
}
