package httpapi

import (
	"net/http"

	"github.com/riskibarqy/scouting-report/internal/domain/player"
)

// RenderReportPDF renders an already processed report sent by the client.
func (h *Handler) RenderReportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenderReportPDF")
	defer span.End()

	var req renderReportRequest
	if err := decodeJSONBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	doc, err := h.reportService.RenderPDF(ctx, *req.Data)
	if err != nil {
		h.logger.ErrorContext(ctx, "render report failed", "player", req.Data.Profile.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeDocument(ctx, w, doc)
}

// ExtractChartData reads chart segments out of a raw record field bag.
func (h *Handler) ExtractChartData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExtractChartData")
	defer span.End()

	var fields player.Record
	if err := decodeJSONBody(ctx, r, &fields); err != nil {
		writeError(ctx, w, err)
		return
	}

	extraction := h.reportService.ExtractChartData(ctx, fields)
	writeSuccess(ctx, w, http.StatusOK, chartExtractionDTO{
		ChartData: extraction.ChartData,
		UsedField: extraction.UsedField,
	})
}
