package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/scouting-report/internal/usecase"
)

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := searchPlayersRequest{
		Name:  strings.TrimSpace(r.URL.Query().Get("name")),
		Limit: limit,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	profiles, err := h.reportService.Search(ctx, req.Name, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPlayerSummaryDTOs(profiles))
}

func (h *Handler) SuggestPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SuggestPlayers")
	defer span.End()

	suggestions, err := h.reportService.Suggest(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "suggest players failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if suggestions.Source == usecase.SuggestionSourceStatic {
		h.logger.InfoContext(ctx, "serving static player suggestions")
	}

	writeSuccess(ctx, w, http.StatusOK, suggestions)
}

func (h *Handler) GetPlayerReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerReport")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	source := strings.TrimSpace(r.URL.Query().Get("source"))

	report, err := h.reportService.BuildReport(ctx, source, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "build report failed", "player_id", playerID, "source", source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetPlayerReportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerReportPDF")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	source := strings.TrimSpace(r.URL.Query().Get("source"))

	report, err := h.reportService.BuildReport(ctx, source, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "build report failed", "player_id", playerID, "source", source, "error", err)
		writeError(ctx, w, err)
		return
	}

	doc, err := h.reportService.RenderPDF(ctx, report)
	if err != nil {
		h.logger.ErrorContext(ctx, "render report failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeDocument(ctx, w, doc)
}
