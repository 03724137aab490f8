package handlers

import (
	"net/http"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/app"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/metrics"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/response"
)

type StatsHandler struct {
	stats *app.StatsService
}

func NewStatsHandler(stats *app.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, overview)
}

func (h *StatsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.stats.Analytics(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	handler http.Handler
}

func NewMetricsHandler(collector *metrics.Collector) *MetricsHandler {
	return &MetricsHandler{handler: collector.Handler()}
}

func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}
