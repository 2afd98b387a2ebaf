package http

import (
	"net/http"

	"spearid-quiz-service/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the quiz routes. gatherer may be nil to skip /metrics.
func NewRouter(ws *WSHandler, api *APIHandler, m *metrics.Metrics, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ws", ws.ServeWS)
	mux.Handle("GET /api/questions", m.InstrumentHandler("/api/questions", http.HandlerFunc(api.Questions)))
	mux.Handle("GET /api/species", m.InstrumentHandler("/api/species", http.HandlerFunc(api.Species)))
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}
