package httpapi

import (
	"net/http"

	"github.com/riskibarqy/scouting-report/internal/usecase"
)

type healthDTO struct {
	Status    string                 `json:"status"`
	Providers usecase.ProviderStatus `json:"providers"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status:    "ok",
		Providers: h.reportService.Providers(),
	})
}
