package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/scouting-report/internal/domain/chartdata"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	"github.com/riskibarqy/scouting-report/internal/platform/cache"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// Renderer turns a processed report into a document.
type Renderer interface {
	Render(ctx context.Context, report scouting.Report) ([]byte, error)
}

type ReportServiceConfig struct {
	Options scouting.Options
	// Season is passed to statistics lookups; 0 lets the provider decide.
	Season       int
	CacheEnabled bool
	CacheTTL     time.Duration
	Logger       *logging.Logger
	// Shuffle orders suggestion candidates; nil uses a random permutation.
	Shuffle func(names []string)
}

type ReportService struct {
	providers *ProviderManager
	renderer  Renderer
	opts      scouting.Options
	season    int
	logger    *logging.Logger
	shuffle   func([]string)

	searches *cache.Store[[]player.Profile]
	reports  *cache.Store[scouting.Report]
}

// Document is a rendered report ready to be served as an attachment.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

func NewReportService(providers *ProviderManager, renderer Renderer, cfg ReportServiceConfig) *ReportService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	s := &ReportService{
		providers: providers,
		renderer:  renderer,
		opts:      cfg.Options,
		season:    cfg.Season,
		logger:    logger,
		shuffle:   cfg.Shuffle,
	}
	if s.shuffle == nil {
		s.shuffle = shufflePlayers
	}
	if cfg.CacheEnabled {
		s.searches = cache.NewStore[[]player.Profile](cfg.CacheTTL)
		s.reports = cache.NewStore[scouting.Report](cfg.CacheTTL)
	}
	return s
}

func (s *ReportService) Search(ctx context.Context, name string, limit int) ([]player.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Search")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return nil, fmt.Errorf("%w: limit must be <= %d", ErrInvalidInput, maxSearchLimit)
	}

	load := func(ctx context.Context) ([]player.Profile, error) {
		profiles, err := s.providers.SearchPlayers(ctx, name, limit)
		if err != nil {
			return nil, fmt.Errorf("search players: %w", err)
		}
		if profiles == nil {
			profiles = []player.Profile{}
		}
		return profiles, nil
	}
	if s.searches == nil {
		return load(ctx)
	}
	return s.searches.GetOrLoad(ctx, "search:"+strings.ToLower(name)+":"+strconv.Itoa(limit), load)
}

// BuildReport fetches everything one provider knows about a player and
// processes it. An empty source looks the id up across providers and stays
// with whichever one answered.
func (s *ReportService) BuildReport(ctx context.Context, source, playerID string) (scouting.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.BuildReport")
	defer span.End()

	source = strings.TrimSpace(source)
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return scouting.Report{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	load := func(ctx context.Context) (scouting.Report, error) {
		return s.buildReport(ctx, source, playerID)
	}
	if s.reports == nil || source == "" {
		return load(ctx)
	}
	return s.reports.GetOrLoad(ctx, "report:"+source+":"+playerID, load)
}

func (s *ReportService) buildReport(ctx context.Context, source, playerID string) (scouting.Report, error) {
	profile, provider, err := s.resolvePlayer(ctx, source, playerID)
	if err != nil {
		return scouting.Report{}, err
	}
	logger := s.logger.With("provider", provider.Name(), "player_id", playerID)

	var (
		stats     []player.Record
		transfers []player.Record
		injuries  []player.Record
		fields    player.Record
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		rows, err := provider.GetStatistics(ctx, playerID, s.season)
		if err != nil {
			return fmt.Errorf("get statistics: %w", err)
		}
		stats = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := provider.GetTransfers(ctx, playerID)
		if err != nil {
			logger.WarnContext(ctx, "transfers unavailable, continuing without", "error", err)
			return nil
		}
		transfers = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := provider.GetInjuries(ctx, playerID)
		if err != nil {
			logger.WarnContext(ctx, "injuries unavailable, continuing without", "error", err)
			return nil
		}
		injuries = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		record, err := provider.GetChartFields(ctx, playerID)
		if err != nil {
			logger.WarnContext(ctx, "chart fields unavailable, continuing without", "error", err)
			return nil
		}
		fields = record
		return nil
	})
	if err := p.Wait(); err != nil {
		return scouting.Report{}, err
	}

	in := scouting.Input{
		Profile:    profile,
		Statistics: stats,
		Transfers:  transfers,
		Injuries:   injuries,
	}
	if extraction := chartdata.Extract(fields, s.opts.Fallback); !extraction.ChartData.Empty() {
		in.ChartData = extraction.ChartData
	}

	report := scouting.Process(in, s.opts)
	if len(stats) > 0 {
		report.AttachTeam(teamFromRow(stats[0]))
	}
	return report, nil
}

func (s *ReportService) resolvePlayer(ctx context.Context, source, playerID string) (player.Profile, player.Provider, error) {
	var (
		profile  player.Profile
		provider player.Provider
	)
	if source == "" {
		found, owner, ok, err := s.providers.FindPlayer(ctx, playerID)
		if err != nil {
			return player.Profile{}, nil, fmt.Errorf("get player: %w", err)
		}
		if !ok {
			return player.Profile{}, nil, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}
		profile, provider = found, owner
	} else {
		pinned, ok := s.providers.Provider(source)
		if !ok {
			return player.Profile{}, nil, fmt.Errorf("%w: unknown or unavailable source %q", ErrInvalidInput, source)
		}
		found, ok, err := pinned.GetPlayer(ctx, playerID)
		if err != nil {
			return player.Profile{}, nil, fmt.Errorf("get player: %w", err)
		}
		if !ok {
			return player.Profile{}, nil, fmt.Errorf("%w: player=%s source=%s", ErrNotFound, playerID, source)
		}
		profile, provider = found, pinned
	}

	if err := profile.Validate(); err != nil {
		return player.Profile{}, nil, fmt.Errorf("%w: %s returned an unusable player %s: %w", ErrDependencyUnavailable, provider.Name(), playerID, err)
	}
	// A pinned source that knows the player is tried first from now on.
	if source != "" && s.providers.SwitchTo(source) {
		s.logger.DebugContext(ctx, "pinned provider is now current", "provider", source)
	}
	return profile, provider, nil
}

// ProviderStatus reports which provider is tried first and which ones can
// serve requests right now.
type ProviderStatus struct {
	Current   string   `json:"current"`
	Available []string `json:"available"`
}

func (s *ReportService) Providers() ProviderStatus {
	return ProviderStatus{
		Current:   s.providers.Current(),
		Available: s.providers.Available(),
	}
}

func teamFromRow(row player.Record) player.Team {
	team := coerce.Path(row, "team")
	return player.Team{
		ID:   int64(coerce.ToNumber(coerce.Path(team, "id"))),
		Name: coerce.ToString(coerce.Path(team, "name"), ""),
		Logo: coerce.ToString(coerce.Path(team, "logo"), ""),
	}
}

// ExtractChartData reads chart segments out of a raw field bag.
func (s *ReportService) ExtractChartData(ctx context.Context, fields player.Record) chartdata.Extraction {
	_, span := startUsecaseSpan(ctx, "usecase.ReportService.ExtractChartData")
	defer span.End()

	return chartdata.Extract(fields, s.opts.Fallback)
}

// Process runs the processor over data gathered outside the providers.
func (s *ReportService) Process(in scouting.Input) scouting.Report {
	return scouting.Process(in, s.opts)
}

func (s *ReportService) RenderPDF(ctx context.Context, report scouting.Report) (Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.RenderPDF")
	defer span.End()

	if s.renderer == nil {
		return Document{}, fmt.Errorf("%w: no renderer configured", ErrDependencyUnavailable)
	}
	content, err := s.renderer.Render(ctx, report)
	if err != nil {
		return Document{}, fmt.Errorf("render pdf: %w", err)
	}

	return Document{
		FileName:    ReportFileName(report.Profile.Name),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// ReportFileName builds "player-report-<name-with-dashes>.pdf".
func ReportFileName(name string) string {
	slug := strings.Join(strings.Fields(name), "-")
	if slug == "" {
		slug = "unknown"
	}
	return "player-report-" + slug + ".pdf"
}
