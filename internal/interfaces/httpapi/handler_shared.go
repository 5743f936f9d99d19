package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/scouting-report/internal/domain/chartdata"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/usecase"
)

const maxRequestBodyBytes = 4 << 20

type Handler struct {
	reportService *usecase.ReportService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(reportService *usecase.ReportService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	validate := validator.New()
	validate.RegisterStructValidation(validateReport, scouting.Report{})

	return &Handler{
		reportService: reportService,
		logger:        logger,
		validator:     validate,
	}
}

// validateReport requires the one field a rendered report cannot do without.
func validateReport(sl validator.StructLevel) {
	report, ok := sl.Current().Interface().(scouting.Report)
	if !ok {
		return
	}
	if strings.TrimSpace(report.Profile.Name) == "" {
		sl.ReportError(report.Profile.Name, "Profile.Name", "name", "required", "")
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(ctx context.Context, r *http.Request, dst any) error {
	_, span := startSpan(ctx, "httpapi.decodeJSONBody")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, maxRequestBodyBytes)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return fmt.Errorf("%w: request body is empty", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}

type searchPlayersRequest struct {
	Name  string `validate:"required,max=120"`
	Limit int    `validate:"gte=0"`
}

type renderReportRequest struct {
	Data *scouting.Report `json:"data" validate:"required"`
}

type playerSummaryDTO struct {
	ID          string       `json:"id"`
	Source      string       `json:"source"`
	Name        string       `json:"name"`
	FirstName   string       `json:"firstName,omitempty"`
	LastName    string       `json:"lastName,omitempty"`
	Age         int          `json:"age,omitempty"`
	Nationality string       `json:"nationality,omitempty"`
	Photo       string       `json:"photo,omitempty"`
	Injured     bool         `json:"injured"`
	CurrentTeam *player.Team `json:"currentTeam,omitempty"`
}

type chartExtractionDTO struct {
	ChartData *chartdata.Segments `json:"chartData"`
	UsedField *string             `json:"usedField"`
}

func toPlayerSummaryDTOs(profiles []player.Profile) []playerSummaryDTO {
	out := make([]playerSummaryDTO, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, playerSummaryDTO{
			ID:          p.ID,
			Source:      p.Source,
			Name:        p.DisplayName(),
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Age:         p.Age,
			Nationality: p.Nationality,
			Photo:       p.Photo,
			Injured:     p.Injured,
			CurrentTeam: p.CurrentTeam,
		})
	}
	return out
}
