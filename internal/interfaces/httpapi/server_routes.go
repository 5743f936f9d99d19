package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /v1/players/suggest", handler.SuggestPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}/report", handler.GetPlayerReport)
	mux.HandleFunc("GET /v1/players/{playerID}/report.pdf", handler.GetPlayerReportPDF)
}

func registerReportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/reports/pdf", handler.RenderReportPDF)
	mux.HandleFunc("POST /v1/chart-data/extract", handler.ExtractChartData)
}
